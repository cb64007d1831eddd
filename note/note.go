// Package note implements the playable sound events: additive stringed notes,
// pitch swept bass drums and square wave hi-hats.
package note

import (
	"fmt"
	"math"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/envelope"
	"github.com/viterin/vek/vek32"
)

// Note is one sound event. Generate returns the raw waveform of the note
// evaluated at the sample times t; the result has the same length as t.
type Note interface {
	Duration() float64
	Generate(t []float32, sampleRate int) []float32
}

// Play renders the note into a new buffer of round(SampleRate*Duration)
// samples. The time axis is offset by a jitter drawn uniformly from
// [0, cfg.Jitter] seconds using rng, and the edges of the buffer are faded
// according to cfg.Fade. A nil rng means no jitter.
func Play(n Note, cfg humsynth.Config, rng humsynth.Rand) []float32 {
	var jitter float64
	if rng != nil {
		jitter = rng.Float64() * cfg.Jitter
	}
	t := envelope.TimeAxis(cfg.Samples(n.Duration()), cfg.SampleRate, jitter)
	samples := n.Generate(t, cfg.SampleRate)
	fade := cfg.Samples(cfg.FadeTime)
	if cfg.Fade == humsynth.FadeIn {
		envelope.FadeIn(samples, fade)
	} else {
		envelope.TwoSidedFade(samples, fade)
	}
	return samples
}

// sine returns sin(2*pi*frequency*t).
func sine(t []float32, frequency float64) []float32 {
	phase := vek32.MulNumber(t, float32(frequency))
	return cyclesToSine(phase)
}

// cyclesToSine converts phases given in cycles into sin(2*pi*phase) in place.
// The phases are wrapped to [-0.5, 0.5] first to keep float32 accurate.
func cyclesToSine(phase []float32) []float32 {
	vek32.Sub_Inplace(phase, vek32.Round(phase))
	vek32.MulNumber_Inplace(phase, 2*math.Pi)
	vek32.Sin_Inplace(phase)
	return phase
}

// normalizePeak scales buffer in place so that its peak absolute value is 1.
func normalizePeak(buffer []float32) {
	if peak := humsynth.Peak(buffer); peak > 0 {
		vek32.DivNumber_Inplace(buffer, peak)
	}
}

func checkDuration(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return fmt.Errorf("%w: duration should be > 0, got %v", humsynth.ErrInvalidParameter, d)
	}
	return nil
}

func checkFrequency(name string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("%w: %v should be > 0, got %v", humsynth.ErrInvalidParameter, name, f)
	}
	return nil
}
