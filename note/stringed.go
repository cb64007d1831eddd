package note

import (
	"fmt"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/envelope"
	"github.com/viterin/vek/vek32"
)

// Stringed is an additive note: Overtones equally weighted harmonics of
// Frequency. Envelope selects an optional amplitude envelope; the output is
// not normalized.
type Stringed struct {
	Frequency float64
	Length    float64
	Overtones int
	Envelope  humsynth.StringEnvelope
}

func NewStringed(frequency, duration float64, overtones int, env humsynth.StringEnvelope) (*Stringed, error) {
	if err := checkFrequency("frequency", frequency); err != nil {
		return nil, err
	}
	if err := checkDuration(duration); err != nil {
		return nil, err
	}
	if overtones < 1 {
		return nil, fmt.Errorf("%w: overtones should be >= 1, got %v", humsynth.ErrInvalidParameter, overtones)
	}
	switch env.Shape {
	case "", humsynth.ShapeNone, humsynth.ShapeDecay, humsynth.ShapeWindow:
	default:
		return nil, fmt.Errorf("%w: unknown envelope shape %q", humsynth.ErrInvalidParameter, env.Shape)
	}
	return &Stringed{Frequency: frequency, Length: duration, Overtones: overtones, Envelope: env}, nil
}

func (s *Stringed) Duration() float64 { return s.Length }

func (s *Stringed) Generate(t []float32, sampleRate int) []float32 {
	ret := make([]float32, len(t))
	for n := range s.Overtones {
		vek32.Add_Inplace(ret, sine(t, s.Frequency*float64(n+1)))
	}
	switch s.Envelope.Shape {
	case humsynth.ShapeDecay:
		envelope.Multiply(ret, envelope.ExponentialDecay(t, s.Envelope.DecayRate))
	case humsynth.ShapeWindow:
		envelope.Multiply(ret, envelope.AttackRelease(t, s.Envelope.Attack, s.Envelope.Release))
	}
	return ret
}
