package countdown

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrBadInput is returned for input that matches no duration form.
var ErrBadInput = errors.New("unrecognized duration")

var (
	clockPattern = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	partsPattern = regexp.MustCompile(`^(?i)(?:(\d+)\s*m)?\s*(?:(\d+)\s*s)?$`)
)

// ParseInput parses a user-entered duration. Accepted forms:
//
//   - M:SS / MM:SS (any number of minute digits, 1-2 second digits)
//   - a pure digit string, read as seconds
//   - <N>m and/or <N>s components, case-insensitive ("2m30s", "90s", "5M")
//
// Anything else, including the empty string, returns ErrBadInput. A zero
// result parses successfully; callers decide whether to accept it.
func ParseInput(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadInput
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, ErrBadInput
		}
		seconds, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, ErrBadInput
		}
		return secondsDuration(minutes*60 + seconds), nil
	}
	if isDigits(s) {
		seconds, err := strconv.Atoi(s)
		if err != nil {
			return 0, ErrBadInput
		}
		return secondsDuration(seconds), nil
	}
	if m := partsPattern.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		total := 0
		if m[1] != "" {
			minutes, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, ErrBadInput
			}
			total += minutes * 60
		}
		if m[2] != "" {
			seconds, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, ErrBadInput
			}
			total += seconds
		}
		return secondsDuration(total), nil
	}
	return 0, ErrBadInput
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func secondsDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
