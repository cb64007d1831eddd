// Package envelope implements the amplitude and frequency curves used to
// shape the notes. Every function works on whole slices at once; none of them
// keep state.
package envelope

import (
	"github.com/viterin/vek/vek32"
)

// Direction of a linear fade.
type Direction int

const (
	In  Direction = iota // ramp from 0 to 1
	Out                  // ramp from 1 to 0
)

// TimeAxis returns n sample times starting at offset seconds, spaced
// 1/sampleRate apart.
func TimeAxis(n, sampleRate int, offset float64) []float32 {
	ret := make([]float32, n)
	for i := range ret {
		ret[i] = float32(offset + float64(i)/float64(sampleRate))
	}
	return ret
}

// ExponentialDecay returns exp(-rate*t).
func ExponentialDecay(t []float32, rate float64) []float32 {
	ret := vek32.MulNumber(t, float32(-rate))
	vek32.Exp_Inplace(ret)
	return ret
}

// SigmoidTransition returns start + (end-start)/(1+exp(-t/timeConstant)). It
// serves both as an attack curve and as a frequency sweep.
func SigmoidTransition(t []float32, start, end, timeConstant float64) []float32 {
	ret := sigmoid(t, timeConstant)
	vek32.MulNumber_Inplace(ret, float32(end-start))
	vek32.AddNumber_Inplace(ret, float32(start))
	return ret
}

// AttackRelease returns a window rising with a sigmoid of time constant
// attack at the start of t and falling with a sigmoid of time constant
// release towards the last time in t.
func AttackRelease(t []float32, attack, release float64) []float32 {
	if len(t) == 0 {
		return []float32{}
	}
	rising := sigmoid(t, attack)
	remaining := vek32.Neg(t)
	vek32.AddNumber_Inplace(remaining, vek32.Max(t))
	vek32.Mul_Inplace(rising, sigmoid(remaining, release))
	return rising
}

// LinearFade returns an n sample ramp, including both end points.
func LinearFade(n int, direction Direction) []float32 {
	ret := make([]float32, max(n, 0))
	for i := range ret {
		var v float32
		if n > 1 {
			v = float32(i) / float32(n-1)
		}
		if direction == Out {
			v = 1 - v
		}
		ret[i] = v
	}
	return ret
}

// FadeIn fades in the first k samples of buffer in place.
func FadeIn(buffer []float32, k int) {
	k = min(k, len(buffer))
	if k <= 0 {
		return
	}
	vek32.Mul_Inplace(buffer[:k], LinearFade(k, In))
}

// TwoSidedFade fades in the first k and fades out the last k samples of
// buffer in place. k is clamped to len(buffer)/2 so the fades never overlap.
func TwoSidedFade(buffer []float32, k int) {
	k = min(k, len(buffer)/2)
	if k <= 0 {
		return
	}
	vek32.Mul_Inplace(buffer[:k], LinearFade(k, In))
	vek32.Mul_Inplace(buffer[len(buffer)-k:], LinearFade(k, Out))
}

// Multiply applies the amplitude envelope env to buffer in place. The slices
// must have the same length.
func Multiply(buffer, env []float32) {
	vek32.Mul_Inplace(buffer, env)
}

// sigmoid returns 1/(1+exp(-x/x0)).
func sigmoid(x []float32, x0 float64) []float32 {
	ret := vek32.MulNumber(x, float32(-1/x0))
	vek32.Exp_Inplace(ret)
	vek32.AddNumber_Inplace(ret, 1)
	vek32.Inv_Inplace(ret)
	return ret
}
