package humsynth

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Peak returns the largest absolute sample value of the buffer, or 0 for an
// empty buffer.
func Peak(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}
	return max(vek32.Max(buffer), -vek32.Min(buffer))
}

// IsSilent reports whether the buffer has zero peak; normalizing such a
// buffer yields only zeros.
func IsSilent(buffer []float32) bool {
	return Peak(buffer) == 0
}

// Normalize scales the buffer so that its peak maps to math.MaxInt16 and
// rounds the result to 16-bit integers. The ordering and sign of the samples
// are preserved. A silent buffer normalizes to all zeros.
func Normalize(buffer []float32) []int16 {
	ret := make([]int16, len(buffer))
	peak := Peak(buffer)
	if peak == 0 || math.IsNaN(float64(peak)) || math.IsInf(float64(peak), 0) {
		return ret
	}
	scale := math.MaxInt16 / float64(peak)
	for i, v := range buffer {
		ret[i] = int16(clamp(int(math.Round(float64(v)*scale)), -math.MaxInt16, math.MaxInt16))
	}
	return ret
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
