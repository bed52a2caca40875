package countdown

import (
	"errors"
	"testing"
	"time"
)

func TestParseInputAccepted(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"5:30", 5*time.Minute + 30*time.Second},
		{"05:30", 5*time.Minute + 30*time.Second},
		{"120:5", 120*time.Minute + 5*time.Second},
		{"90", 90 * time.Second},
		{"0", 0},
		{"2m30s", 2*time.Minute + 30*time.Second},
		{"2M30S", 2*time.Minute + 30*time.Second},
		{"2m 30s", 2*time.Minute + 30*time.Second},
		{"10m", 10 * time.Minute},
		{"45s", 45 * time.Second},
		{"  25m  ", 25 * time.Minute},
	}
	for _, tc := range cases {
		got, err := ParseInput(tc.in)
		if err != nil {
			t.Fatalf("ParseInput(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseInput(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseInputRejected(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"abc",
		"m",
		"ms",
		"5:123",
		":30",
		"5:",
		"1h",
		"2s30m",
		"-90",
		"1.5m",
	}
	for _, in := range cases {
		if _, err := ParseInput(in); !errors.Is(err, ErrBadInput) {
			t.Fatalf("ParseInput(%q) = %v, want ErrBadInput", in, err)
		}
	}
}
