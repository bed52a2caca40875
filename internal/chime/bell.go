// Package chime synthesizes the repeating alarm bell.
package chime

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const strikeEvery = 2 * time.Second

// player abstracts the audio backend so tests run without a sound device.
type player interface {
	init(sr beep.SampleRate, bufferSize int) error
	play(s beep.Streamer)
	lock()
	unlock()
}

type speakerPlayer struct{}

func (speakerPlayer) init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerPlayer) play(s beep.Streamer) { speaker.Play(s) }
func (speakerPlayer) lock()                { speaker.Lock() }
func (speakerPlayer) unlock()              { speaker.Unlock() }

// Bell strikes a synthesized bell tone every two seconds until stopped.
// Audio failures disable the bell for the session and are never surfaced;
// a failed strike simply produces no sound.
type Bell struct {
	out     player
	volume  float64
	enabled bool

	mu      sync.Mutex
	inited  bool
	broken  bool
	ringing bool
	stop    chan struct{}
	voices  []*voice
}

// NewBell returns a bell with the given volume in [0, 1]. A disabled bell
// swallows Ring and Stop entirely.
func NewBell(volume float64, enabled bool) *Bell {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Bell{
		out:     speakerPlayer{},
		volume:  volume,
		enabled: enabled,
	}
}

// Ring starts the repeating bell: one strike immediately, then one every two
// seconds until Stop. Ringing an already-ringing bell is a no-op.
func (b *Bell) Ring() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled || b.broken || b.ringing {
		return
	}
	if !b.inited {
		if err := b.out.init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			b.broken = true
			return
		}
		b.inited = true
	}
	b.ringing = true
	b.stop = make(chan struct{})
	b.strikeLocked()
	go b.ringLoop(b.stop)
}

func (b *Bell) ringLoop(stop chan struct{}) {
	ticker := time.NewTicker(strikeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.mu.Lock()
			if b.ringing {
				b.strikeLocked()
			}
			b.mu.Unlock()
		}
	}
}

// strikeLocked launches one voice. Callers hold b.mu.
func (b *Bell) strikeLocked() {
	v := newVoice(0.8)
	b.out.lock()
	kept := b.voices[:0]
	for _, old := range b.voices {
		if !old.elapsed() {
			kept = append(kept, old)
		}
	}
	b.voices = append(kept, v)
	b.out.unlock()
	b.out.play(&effects.Volume{
		Streamer: v,
		Base:     2,
		Volume:   (b.volume - 1) * 4,
		Silent:   b.volume == 0,
	})
}

// Stop cancels the strike schedule and fades every sounding voice to
// near-silence so the cut is click-free. Stopping a bell that never rang,
// or stopping twice, is a no-op.
func (b *Bell) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ringing {
		return
	}
	b.ringing = false
	close(b.stop)
	b.stop = nil

	b.out.lock()
	for _, v := range b.voices {
		v.fade()
	}
	b.out.unlock()

	// Clear the voice set once the in-flight fades have finished.
	time.AfterFunc(secondsDuration(fadeGraceSeconds), func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.ringing {
			return
		}
		b.voices = nil
	})
}

// Ringing reports whether the strike schedule is active.
func (b *Bell) Ringing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ringing
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
