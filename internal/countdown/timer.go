// Package countdown implements the timer state machine.
package countdown

import (
	"fmt"
	"time"
)

// State is the lifecycle phase of a Timer.
type State int

// Timer states.
const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateFinished
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Timer tracks a single countdown. It holds no clock of its own: every
// operation that needs time takes the caller's now, so the caller owns
// scheduling and tests can inject instants.
//
// Invariant: while running, the cached remaining is never trusted. It is
// recomputed as max(0, endAt-now) on every read.
type Timer struct {
	duration  time.Duration
	remaining time.Duration
	state     State
	endAt     time.Time
}

// New returns an idle timer armed with the full duration.
func New(d time.Duration) *Timer {
	return &Timer{
		duration:  d,
		remaining: d,
		state:     StateIdle,
	}
}

// Start transitions idle/paused/finished to running. A finished timer is
// re-armed with the full duration first. No-op while already running.
func (t *Timer) Start(now time.Time) {
	if t.state == StateRunning {
		return
	}
	if t.remaining <= 0 {
		t.remaining = t.duration
	}
	t.endAt = now.Add(t.remaining)
	t.state = StateRunning
}

// Pause snapshots the remaining time and transitions running to paused.
// No-op in any other state.
func (t *Timer) Pause(now time.Time) {
	if t.state != StateRunning {
		return
	}
	t.remaining = t.timeLeft(now)
	t.state = StatePaused
}

// Reset returns the timer to idle with the full configured duration.
func (t *Timer) Reset() {
	t.remaining = t.duration
	t.state = StateIdle
	t.endAt = time.Time{}
}

// Tick recomputes the remaining time from the wall clock while running and
// reports true exactly on the running-to-finished transition. No-op in any
// other state.
func (t *Timer) Tick(now time.Time) bool {
	if t.state != StateRunning {
		return false
	}
	t.remaining = t.timeLeft(now)
	if t.remaining > 0 {
		return false
	}
	t.state = StateFinished
	return true
}

// SetDuration changes the configured duration. When not running, the timer
// becomes idle with the new duration armed. When running, the countdown
// restarts in place: it stays running with the full new duration re-armed
// from now, discarding the partial remaining.
func (t *Timer) SetDuration(d time.Duration, now time.Time) {
	t.duration = d
	t.remaining = d
	if t.state == StateRunning {
		t.endAt = now.Add(d)
		return
	}
	t.state = StateIdle
	t.endAt = time.Time{}
}

// State returns the current lifecycle phase.
func (t *Timer) State() State {
	return t.state
}

// Duration returns the configured full countdown length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Remaining returns the time left, derived from the wall clock while running.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.state == StateRunning {
		return t.timeLeft(now)
	}
	return t.remaining
}

// Progress returns the completed fraction in [0, 1].
func (t *Timer) Progress(now time.Time) float64 {
	if t.state == StateFinished {
		return 1
	}
	if t.duration <= 0 {
		return 1
	}
	frac := 1 - float64(t.Remaining(now))/float64(t.duration)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

func (t *Timer) timeLeft(now time.Time) time.Duration {
	left := t.endAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// FormatClock renders a duration as MM:SS, rounded up to the next whole
// second so a freshly started timer shows its full duration and the display
// reads 00:00 exactly at finish. Minutes grow past two digits as needed.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
