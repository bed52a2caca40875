package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuimer/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuimer.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("failed to close store: %v", cerr)
		}
	})
	return st
}

func TestResolveDurationPrecedence(t *testing.T) {
	st := openTestStore(t)
	fileDuration := "10m"

	// Positional argument wins.
	d, fromUser, err := resolveDuration([]string{"5:30"}, &fileDuration, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 330*time.Second || !fromUser {
		t.Fatalf("expected arg 5m30s fromUser, got %v %v", d, fromUser)
	}

	// Then the config file.
	d, fromUser, err = resolveDuration(nil, &fileDuration, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 10*time.Minute || !fromUser {
		t.Fatalf("expected config 10m fromUser, got %v %v", d, fromUser)
	}

	// Then the persisted last-used value.
	if err := st.SetLastDuration(context.Background(), 15*time.Minute); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}
	d, fromUser, err = resolveDuration(nil, nil, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 15*time.Minute || fromUser {
		t.Fatalf("expected persisted 15m, got %v fromUser=%v", d, fromUser)
	}
}

func TestResolveDurationDefault(t *testing.T) {
	st := openTestStore(t)
	d, fromUser, err := resolveDuration(nil, nil, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != defaultDuration || fromUser {
		t.Fatalf("expected default %v, got %v fromUser=%v", defaultDuration, d, fromUser)
	}
}

func TestResolveDurationInvalidArg(t *testing.T) {
	st := openTestStore(t)
	if _, _, err := resolveDuration([]string{"abc"}, nil, st); err == nil {
		t.Fatalf("expected error for invalid argument")
	}
	if _, _, err := resolveDuration([]string{"0"}, nil, st); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}

func TestResolvePresets(t *testing.T) {
	got, err := resolvePresets(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(defaultPresets) || got[2] != 25*time.Minute {
		t.Fatalf("expected built-in presets, got %v", got)
	}

	raw := []string{"1m", "2m30s", "3:00"}
	got, err = resolvePresets(&raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[1] != 150*time.Second || got[2] != 3*time.Minute {
		t.Fatalf("unexpected presets: %v", got)
	}

	bad := []string{"1m", "nope"}
	if _, err := resolvePresets(&bad); err == nil {
		t.Fatalf("expected error for invalid preset")
	}
}

func TestResolvePresetsCapped(t *testing.T) {
	raw := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		raw = append(raw, "1m")
	}
	got, err := resolvePresets(&raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxPresets {
		t.Fatalf("expected %d presets, got %d", maxPresets, len(got))
	}
}
