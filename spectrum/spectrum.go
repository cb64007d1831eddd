// Package spectrum computes time-frequency power spectrograms of rendered
// clips and draws them in the terminal. It is purely diagnostic.
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
	"github.com/viterin/vek/vek32"
)

// Spectrogram holds the power of successive, half overlapping Hann windowed
// frames. Power[frame][bin] is in decibels; bin b (0 based) corresponds to
// BinFrequency(b), DC is excluded and the last bin is the Nyquist frequency.
type Spectrogram struct {
	SampleRate int
	Window     int
	Hop        int
	Power      [][]float32
}

// DefaultWindow is the frame length in seconds used by the command.
const DefaultWindow = 0.5

// floorPower keeps log10 finite for silent frames.
const floorPower = 1e-12

// New computes the spectrogram of 16-bit samples with frames of window
// seconds, scaling the samples to [-1, 1].
func New(samples []int16, sampleRate int, window float64) (*Spectrogram, error) {
	buf := make([]float32, len(samples))
	for i, v := range samples {
		buf[i] = float32(v) / math.MaxInt16
	}
	return NewFloat(buf, sampleRate, window)
}

// NewFloat computes the spectrogram of a float buffer.
func NewFloat(samples []float32, sampleRate int, window float64) (*Spectrogram, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate should be > 0, got %v", sampleRate)
	}
	n := int(math.Round(window * float64(sampleRate)))
	if n < 4 {
		return nil, fmt.Errorf("analysis window of %v s is too short", window)
	}
	if len(samples) < n {
		return nil, fmt.Errorf("clip of %v samples is shorter than the analysis window of %v samples", len(samples), n)
	}
	s := &Spectrogram{SampleRate: sampleRate, Window: n, Hop: n / 2}
	hann, normFactor := hannWindow(n)
	frame := make([]float32, n)
	for start := 0; start+n <= len(samples); start += s.Hop {
		vek32.Mul_Into(frame, samples[start:start+n], hann)
		power := powerSpectrum(frame, normFactor)
		vek32.AddNumber_Inplace(power, floorPower)
		// convert to decibels
		vek32.Log10_Inplace(power)
		vek32.MulNumber_Inplace(power, 10)
		s.Power = append(s.Power, power)
	}
	return s, nil
}

// BinFrequency returns the center frequency of the bin in Hz.
func (s *Spectrogram) BinFrequency(bin int) float64 {
	return float64(bin+1) * float64(s.SampleRate) / float64(s.Window)
}

// FrameTime returns the start time of the frame in seconds.
func (s *Spectrogram) FrameTime(frame int) float64 {
	return float64(frame*s.Hop) / float64(s.SampleRate)
}

// PeakFrequency returns the frequency with the most power in the buffer,
// analysed as a single Hann windowed frame.
func PeakFrequency(samples []float32, sampleRate int) float64 {
	if len(samples) < 4 {
		return 0
	}
	hann, normFactor := hannWindow(len(samples))
	power := powerSpectrum(vek32.Mul(samples, hann), normFactor)
	return float64(vek32.ArgMax(power)+1) * float64(sampleRate) / float64(len(samples))
}

// hannWindow returns the window weights and their sum.
func hannWindow(n int) ([]float32, float32) {
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1))))
	}
	return w, vek32.Sum(w)
}

// powerSpectrum returns the one sided power spectrum of a windowed frame,
// excluding DC and including the Nyquist frequency.
func powerSpectrum(frame []float32, normFactor float32) []float32 {
	x := make([]float64, len(frame))
	for i, v := range frame {
		x[i] = float64(v)
	}
	c := fft.FFTReal(x)
	m := len(frame) / 2
	amp := make([]float32, m)
	for i := range amp {
		amp[i] = float32(cmplx.Abs(c[1+i])) // do not include DC
	}
	// square the amplitudes to get power
	power := vek32.Mul(amp, amp)
	vek32.DivNumber_Inplace(power, normFactor*normFactor) // normalize for windowing
	// a real-valued FFT folds the negative frequencies onto the positive ones,
	// except for Nyquist
	vek32.MulNumber_Inplace(power[:m-1], 2)
	return power
}
