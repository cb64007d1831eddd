package composer

import (
	"github.com/humsynth/humsynth/note"
)

type (
	// Track tells into which master buffer a placement is mixed.
	Track int

	// Placement is one note of the arrangement: it starts Start seconds into
	// the clip and its samples are scaled by Gain when mixed.
	Placement struct {
		Note  note.Note
		Start float64
		Track Track
		Gain  float64
	}

	// Arrangement is the complete list of notes of a clip, ordered by start
	// time, and the clip length in seconds. It is built before rendering and not modified
	// during it.
	Arrangement struct {
		Duration   float64
		Placements []Placement
	}
)

const (
	Melody Track = iota
	Percussion
	NumTracks
)

func (t Track) String() string {
	switch t {
	case Melody:
		return "melody"
	case Percussion:
		return "percussion"
	default:
		return "unknown"
	}
}

// Count returns the number of placements on the track.
func (a *Arrangement) Count(track Track) int {
	ret := 0
	for _, p := range a.Placements {
		if p.Track == track {
			ret++
		}
	}
	return ret
}
