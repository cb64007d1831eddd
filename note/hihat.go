package note

import (
	"github.com/humsynth/humsynth/envelope"
	"github.com/viterin/vek/vek32"
)

const HiHatDuration = 0.5

// HiHatPartials are the frequencies of the square waves summed by HiHat.
var HiHatPartials = [...]float64{2000, 3000, 3200, 4100, 5100, 6400}

// HiHat is a metallic hit made of six square wave partials, normalized to a
// peak of 1 and shaped by a fast exponential decay.
type HiHat struct {
	DecayRate float64
}

func NewHiHat() *HiHat { return &HiHat{DecayRate: 30} }

func (h *HiHat) Duration() float64 { return HiHatDuration }

func (h *HiHat) Generate(t []float32, sampleRate int) []float32 {
	ret := make([]float32, len(t))
	for _, f := range HiHatPartials {
		vek32.Add_Inplace(ret, square(t, f))
	}
	normalizePeak(ret)
	envelope.Multiply(ret, envelope.ExponentialDecay(t, h.DecayRate))
	return ret
}

// square returns sign(sin(2*pi*frequency*t)).
func square(t []float32, frequency float64) []float32 {
	ret := sine(t, frequency)
	for i, v := range ret {
		switch {
		case v > 0:
			ret[i] = 1
		case v < 0:
			ret[i] = -1
		default:
			ret[i] = 0
		}
	}
	return ret
}
