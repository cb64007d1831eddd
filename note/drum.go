package note

import (
	"fmt"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/envelope"
	"github.com/viterin/vek/vek32"
)

// BassDrum is a kick drum: a sine whose pitch falls from FInit to FFinal
// following the Sweep law, under an exponential decay.
type BassDrum struct {
	FInit        float64
	FFinal       float64
	Length       float64
	Sweep        humsynth.SweepLaw
	TimeConstant float64
	DecayRate    float64
}

// NewBassDrum validates the kick parameters and returns the drum. A zero
// Sweep defaults to the sigmoid law.
func NewBassDrum(k humsynth.Kick) (*BassDrum, error) {
	if err := checkFrequency("initial frequency", k.FInit); err != nil {
		return nil, err
	}
	if err := checkFrequency("final frequency", k.FFinal); err != nil {
		return nil, err
	}
	if err := checkDuration(k.Duration); err != nil {
		return nil, err
	}
	if k.Sweep == "" {
		k.Sweep = humsynth.SweepSigmoid
	}
	switch k.Sweep {
	case humsynth.SweepSigmoid:
		if !(k.TimeConstant > 0) {
			return nil, fmt.Errorf("%w: sweep time constant should be > 0, got %v", humsynth.ErrInvalidParameter, k.TimeConstant)
		}
	case humsynth.SweepLinear:
	default:
		return nil, fmt.Errorf("%w: unknown sweep law %q", humsynth.ErrInvalidParameter, k.Sweep)
	}
	if !(k.DecayRate >= 0) {
		return nil, fmt.Errorf("%w: decay rate should be >= 0, got %v", humsynth.ErrInvalidParameter, k.DecayRate)
	}
	return &BassDrum{
		FInit:        k.FInit,
		FFinal:       k.FFinal,
		Length:       k.Duration,
		Sweep:        k.Sweep,
		TimeConstant: k.TimeConstant,
		DecayRate:    k.DecayRate,
	}, nil
}

func (d *BassDrum) Duration() float64 { return d.Length }

// Frequency returns the instantaneous frequency of the drum at times t.
func (d *BassDrum) Frequency(t []float32) []float32 {
	if d.Sweep == humsynth.SweepLinear {
		ret := vek32.MulNumber(t, float32((d.FFinal-d.FInit)/d.Length))
		vek32.AddNumber_Inplace(ret, float32(d.FInit))
		return ret
	}
	// centered on the middle of the note, so the pitch starts near FInit
	centered := vek32.AddNumber(t, float32(-d.Length/2))
	return envelope.SigmoidTransition(centered, d.FInit, d.FFinal, d.TimeConstant)
}

func (d *BassDrum) Generate(t []float32, sampleRate int) []float32 {
	if len(t) == 0 {
		return []float32{}
	}
	// integrate the frequency to keep the phase continuous
	phase := d.Frequency(t)
	vek32.CumSum_Inplace(phase)
	vek32.DivNumber_Inplace(phase, float32(sampleRate))
	ret := cyclesToSine(phase)
	envelope.Multiply(ret, envelope.ExponentialDecay(t, d.DecayRate))
	normalizePeak(ret)
	return ret
}
