package chime

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

type fakePlayer struct {
	initErr   error
	initCalls int
	played    []beep.Streamer
}

func (f *fakePlayer) init(beep.SampleRate, int) error {
	f.initCalls++
	return f.initErr
}

func (f *fakePlayer) play(s beep.Streamer) { f.played = append(f.played, s) }
func (f *fakePlayer) lock()                {}
func (f *fakePlayer) unlock()              {}

func newTestBell(out *fakePlayer) *Bell {
	b := NewBell(0.8, true)
	b.out = out
	return b
}

func TestRingStrikesImmediately(t *testing.T) {
	out := &fakePlayer{}
	b := newTestBell(out)
	b.Ring()
	defer b.Stop()

	if out.initCalls != 1 {
		t.Fatalf("expected one speaker init, got %d", out.initCalls)
	}
	if len(out.played) != 1 {
		t.Fatalf("expected the first strike immediately, got %d", len(out.played))
	}
	if !b.Ringing() {
		t.Fatalf("expected bell to report ringing")
	}
}

func TestRingWhileRingingIsNoop(t *testing.T) {
	out := &fakePlayer{}
	b := newTestBell(out)
	b.Ring()
	b.Ring()
	defer b.Stop()

	if len(out.played) != 1 {
		t.Fatalf("re-ring must not add a strike, got %d", len(out.played))
	}
}

func TestStopBeforeRingIsNoop(t *testing.T) {
	out := &fakePlayer{}
	b := newTestBell(out)
	b.Stop()
	b.Stop()

	if out.initCalls != 0 {
		t.Fatalf("stop must not construct the audio engine, got %d inits", out.initCalls)
	}
}

func TestStopCancelsScheduleAndFades(t *testing.T) {
	out := &fakePlayer{}
	b := newTestBell(out)
	b.Ring()
	b.Stop()

	if b.Ringing() {
		t.Fatalf("expected bell stopped")
	}
	b.mu.Lock()
	for _, v := range b.voices {
		if !v.fading {
			t.Fatalf("expected every live voice fading after stop")
		}
	}
	b.mu.Unlock()

	struck := len(out.played)
	time.Sleep(strikeEvery + 500*time.Millisecond)
	if len(out.played) != struck {
		t.Fatalf("strikes continued after stop: %d -> %d", struck, len(out.played))
	}
	b.mu.Lock()
	voices := len(b.voices)
	b.mu.Unlock()
	if voices != 0 {
		t.Fatalf("expected voice set cleared after the fade grace, got %d", voices)
	}
}

func TestInitFailureDisablesBell(t *testing.T) {
	out := &fakePlayer{initErr: errInit}
	b := newTestBell(out)
	b.Ring()

	if b.Ringing() {
		t.Fatalf("bell must stay silent when the audio engine fails")
	}
	if len(out.played) != 0 {
		t.Fatalf("expected no strikes after init failure, got %d", len(out.played))
	}
	b.Ring()
	if out.initCalls != 1 {
		t.Fatalf("a broken bell must not retry init, got %d calls", out.initCalls)
	}
}

func TestDisabledBellIsSilent(t *testing.T) {
	out := &fakePlayer{}
	b := NewBell(0.8, false)
	b.out = out
	b.Ring()
	b.Stop()

	if out.initCalls != 0 || len(out.played) != 0 {
		t.Fatalf("disabled bell touched the audio engine: inits=%d strikes=%d", out.initCalls, len(out.played))
	}
}

func TestStrikeAppliesVolumeControl(t *testing.T) {
	out := &fakePlayer{}
	b := newTestBell(out)
	b.Ring()
	defer b.Stop()

	vol, ok := out.played[0].(*effects.Volume)
	if !ok {
		t.Fatalf("expected strikes wrapped in a volume control, got %T", out.played[0])
	}
	if vol.Silent {
		t.Fatalf("volume 0.8 must not be silent")
	}
}

func TestVoiceEnvelopeDecays(t *testing.T) {
	v := newVoice(0.8)
	early := peakAmplitude(v, sampleRate.N(200*time.Millisecond))
	late := peakAmplitude(v, sampleRate.N(time.Second))
	if early <= 0 {
		t.Fatalf("expected audible output near the strike")
	}
	if late >= early/2 {
		t.Fatalf("expected decay: early peak %v, peak after 1s %v", early, late)
	}
}

func TestVoiceEndsItself(t *testing.T) {
	v := newVoice(0.8)
	total := drain(v)
	want := sampleRate.N(secondsDuration(voiceSeconds))
	if total != want {
		t.Fatalf("expected %d samples before self-stop, got %d", want, total)
	}
	if n, ok := v.Stream(make([][2]float64, 64)); ok || n != 0 {
		t.Fatalf("expected drained voice to stay stopped, got n=%d ok=%v", n, ok)
	}
}

func TestFadeShortensAndSilencesVoice(t *testing.T) {
	v := newVoice(0.8)
	skip(v, sampleRate.N(300*time.Millisecond))
	v.fade()

	rest := drain(v)
	want := sampleRate.N(secondsDuration(fadeStopSeconds))
	if rest != want {
		t.Fatalf("expected %d samples after fade, got %d", want, rest)
	}

	// Past the ramp the voice is fully silent even though samples still flow.
	v2 := newVoice(0.8)
	skip(v2, sampleRate.N(300*time.Millisecond))
	v2.fade()
	skip(v2, sampleRate.N(150*time.Millisecond))
	if g := v2.fadeGain(v2.pos); g != 0 {
		t.Fatalf("expected zero gain past the fade ramp, got %v", g)
	}
}

func peakAmplitude(v *voice, from int) float64 {
	peak := 0.0
	window := sampleRate.N(50 * time.Millisecond)
	for pos := from; pos < from+window; pos++ {
		if a := math.Abs(v.sampleAt(pos)); a > peak {
			peak = a
		}
	}
	return peak
}

func drain(v *voice) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := v.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func skip(v *voice, samples int) {
	buf := make([][2]float64, 512)
	for samples > 0 {
		n := samples
		if n > len(buf) {
			n = len(buf)
		}
		got, ok := v.Stream(buf[:n])
		samples -= got
		if !ok {
			return
		}
	}
}

var errInit = errInitType{}

type errInitType struct{}

func (errInitType) Error() string { return "no audio device" }
