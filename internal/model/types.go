// Package model defines shared data structures.
package model

import "time"

// Config defines the resolved timer settings handed to the UI.
type Config struct {
	Duration time.Duration
	Presets  []time.Duration
	Volume   float64
	Silent   bool
}
