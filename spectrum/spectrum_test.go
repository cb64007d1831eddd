package spectrum_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/humsynth/humsynth/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viterin/vek/vek32"
)

const sampleRate = 44100

func tone(frequency float64, n int) []int16 {
	ret := make([]int16, n)
	for i := range ret {
		ret[i] = int16(math.Round(20000 * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)))
	}
	return ret
}

func TestSpectrogramFindsTone(t *testing.T) {
	s, err := spectrum.New(tone(1000, sampleRate), sampleRate, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 4410, s.Window)
	assert.Equal(t, 2205, s.Hop)
	require.Len(t, s.Power, 19)
	for i, frame := range s.Power {
		require.Len(t, frame, s.Window/2)
		assert.InDelta(t, 1000, s.BinFrequency(vek32.ArgMax(frame)), 10, "frame %d", i)
	}
	assert.InDelta(t, 0.05, s.FrameTime(1), 1e-9)
}

func TestSpectrogramOfSilenceIsFinite(t *testing.T) {
	s, err := spectrum.New(make([]int16, sampleRate), sampleRate, 0.5)
	require.NoError(t, err)
	for _, frame := range s.Power {
		for _, v := range frame {
			require.False(t, math.IsInf(float64(v), 0) || math.IsNaN(float64(v)))
		}
	}
}

func TestSpectrogramErrors(t *testing.T) {
	_, err := spectrum.New(make([]int16, 100), sampleRate, 0.5)
	assert.Error(t, err)
	_, err = spectrum.New(make([]int16, 100), 0, 0.5)
	assert.Error(t, err)
	_, err = spectrum.New(make([]int16, 100), sampleRate, 0)
	assert.Error(t, err)
}

func TestPeakFrequency(t *testing.T) {
	samples := make([]float32, sampleRate/2)
	for i := range samples {
		x := 2 * math.Pi * float64(i) / sampleRate
		samples[i] = float32(math.Sin(523.2*x) + 0.3*math.Sin(3000*x))
	}
	assert.InDelta(t, 523.2, spectrum.PeakFrequency(samples, sampleRate), 2)
	assert.Equal(t, 0.0, spectrum.PeakFrequency(nil, sampleRate))
}

func TestRender(t *testing.T) {
	s, err := spectrum.New(tone(440, 2*sampleRate), sampleRate, 0.5)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, spectrum.Render(&buf, s, 12))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 13)
	assert.Contains(t, lines[0], "Hz")
	assert.Contains(t, lines[12], "frames")

	buf.Reset()
	require.NoError(t, spectrum.Render(&buf, s, 0))
	assert.Empty(t, buf.String())
}
