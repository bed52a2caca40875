package chime

import (
	"math"

	"github.com/faiface/beep"
)

// Synthesis constants for one bell strike. The modulator and the detuned
// partial sit at non-integer ratios to the carrier, which gives the
// inharmonic timbre of a struck bell.
const (
	sampleRate = beep.SampleRate(44100)

	carrierFreq  = 520.0
	modRatio     = 1.41
	modIndex     = 5.5
	partialRatio = 2.76
	partialGain  = 0.3

	attackSeconds = 0.002
	decaySeconds  = 1.8
	voiceSeconds  = 2.2

	fadeSeconds      = 0.12
	fadeStopSeconds  = 0.18
	fadeGraceSeconds = 0.4
)

// voice is one in-flight bell strike: an FM carrier/modulator pair plus a
// detuned partial under a fast-attack exponential-decay envelope. It streams
// until its own decay elapses or a fade cuts it short.
type voice struct {
	gain float64

	pos   int
	limit int

	fadeFrom int
	fadeLen  int
	fading   bool

	done bool
}

func newVoice(gain float64) *voice {
	return &voice{
		gain:  gain,
		limit: sampleRate.N(secondsDuration(voiceSeconds)),
	}
}

// Stream implements beep.Streamer.
func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.done {
		return 0, false
	}
	n := 0
	for i := range samples {
		if v.pos >= v.limit {
			v.done = true
			break
		}
		s := v.sampleAt(v.pos)
		samples[i][0] = s
		samples[i][1] = s
		v.pos++
		n++
	}
	return n, n > 0
}

// Err implements beep.Streamer.
func (v *voice) Err() error {
	return nil
}

func (v *voice) sampleAt(pos int) float64 {
	t := float64(pos) / float64(sampleRate)
	env := math.Exp(-t / (decaySeconds / 4))
	if t < attackSeconds {
		env *= t / attackSeconds
	}
	mod := modIndex * env * math.Sin(2*math.Pi*carrierFreq*modRatio*t)
	s := math.Sin(2*math.Pi*carrierFreq*t+mod) +
		partialGain*math.Sin(2*math.Pi*carrierFreq*partialRatio*t)
	return s * env * v.gain * v.fadeGain(pos)
}

// fade ramps the voice to near-silence and schedules its stop shortly after
// the ramp so no click is audible. Must be called under the speaker lock.
func (v *voice) fade() {
	if v.fading || v.done {
		return
	}
	v.fading = true
	v.fadeFrom = v.pos
	v.fadeLen = sampleRate.N(secondsDuration(fadeSeconds))
	stopAt := v.pos + sampleRate.N(secondsDuration(fadeStopSeconds))
	if stopAt < v.limit {
		v.limit = stopAt
	}
}

func (v *voice) fadeGain(pos int) float64 {
	if !v.fading {
		return 1
	}
	g := 1 - float64(pos-v.fadeFrom)/float64(v.fadeLen)
	if g < 0 {
		return 0
	}
	return g
}

func (v *voice) elapsed() bool {
	return v.done || v.pos >= v.limit
}
