package humsynth_test

import (
	"math"
	"testing"

	"github.com/humsynth/humsynth"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeReachesFullScale(t *testing.T) {
	for _, buf := range [][]float32{
		{0.1, -0.2, 0.05, 0},
		{3, 1, -1.5},
		{-7},
		{1e-8, -2e-8},
	} {
		got := humsynth.Normalize(buf)
		assert.Len(t, got, len(buf))
		peak := 0
		for i, v := range got {
			peak = max(peak, int(math.Abs(float64(v))))
			assert.Equal(t, sign(buf[i]), sign(float32(v)), "sign of sample %d in %v", i, buf)
		}
		assert.Equal(t, math.MaxInt16, peak, "buffer %v", buf)
		for i := range buf {
			for j := range buf {
				if buf[i] < buf[j] {
					assert.LessOrEqual(t, got[i], got[j], "ordering of %v", buf)
				}
			}
		}
	}
}

func TestNormalizeExactValues(t *testing.T) {
	assert.Equal(t, []int16{16384, -32767, 0, 32767}, humsynth.Normalize([]float32{0.5, -1, 0, 1}))
}

func TestNormalizeSilence(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, make([]int16, 10), humsynth.Normalize(make([]float32, 10)))
	})
	assert.Empty(t, humsynth.Normalize(nil))
	assert.True(t, humsynth.IsSilent(make([]float32, 3)))
	assert.True(t, humsynth.IsSilent(nil))
	assert.False(t, humsynth.IsSilent([]float32{0, -0.001}))
}

func TestPeak(t *testing.T) {
	assert.Equal(t, float32(3), humsynth.Peak([]float32{1, -3, 2}))
	assert.Equal(t, float32(2), humsynth.Peak([]float32{1, -1, 2}))
	assert.Equal(t, float32(0), humsynth.Peak(nil))
}

func sign(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
