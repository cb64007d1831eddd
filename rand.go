package humsynth

// Rand is the source of the per note timing jitter. *rand.Rand from both
// math/rand and math/rand/v2 satisfy it.
type Rand interface {
	Float64() float64
}

type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0 }

// NoJitter is a Rand that always returns 0, pinning the jitter of every note
// to zero. Renders using it are deterministic.
var NoJitter Rand = zeroRand{}
