// Package composer turns the melody and percussion patterns of a
// humsynth.Config into an Arrangement of notes and mixes the notes into master
// buffers by overlap-add.
package composer

import (
	"fmt"
	"sort"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/note"
	"github.com/viterin/vek/vek32"
)

type (
	// Composer arranges and renders clips for one configuration.
	Composer struct {
		cfg humsynth.Config
		rng humsynth.Rand
	}

	// Mix holds the rendered master buffers, one per track, all of the same
	// length.
	Mix struct {
		Tracks [NumTracks][]float32
	}
)

// New validates the configuration and returns a Composer. The jitter of every
// note is drawn from rng; pass humsynth.NoJitter for deterministic output.
func New(cfg humsynth.Config, rng humsynth.Rand) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = humsynth.NoJitter
	}
	return &Composer{cfg: cfg, rng: rng}, nil
}

// Config returns the configuration of the composer.
func (c *Composer) Config() humsynth.Config { return c.cfg }

// Arrange builds the arrangement of the configured melody and percussion,
// ordered by start time; notes starting together keep melody first. Both
// passes stop at the first note that would run past the end of the clip.
func (c *Composer) Arrange() (*Arrangement, error) {
	arr := &Arrangement{Duration: c.cfg.Duration()}
	total := c.cfg.Samples(arr.Duration)
	if err := c.arrangeMelody(arr, total); err != nil {
		return nil, fmt.Errorf("could not arrange melody: %w", err)
	}
	if err := c.arrangePercussion(arr, total); err != nil {
		return nil, fmt.Errorf("could not arrange percussion: %w", err)
	}
	sort.SliceStable(arr.Placements, func(i, j int) bool {
		return arr.Placements[i].Start < arr.Placements[j].Start
	})
	return arr, nil
}

func (c *Composer) arrangeMelody(arr *Arrangement, total int) error {
	m := c.cfg.Melody
	for i, degree := range m.Steps() {
		if degree.IsRest() {
			continue
		}
		n, err := note.NewStringed(m.Frequency(degree), m.NoteLength, m.Overtones, m.Envelope)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		start := float64(i) * m.StepTime
		if !c.fits(start, n, total) {
			break
		}
		arr.Placements = append(arr.Placements, Placement{Note: n, Start: start, Track: Melody, Gain: m.Gain})
	}
	return nil
}

func (c *Composer) arrangePercussion(arr *Arrangement, total int) error {
	p := c.cfg.Percussion
	slots := len(p.Offsets)
	if slots == 0 {
		return nil
	}
	for j := range p.MaxHits {
		bar, slot := j/slots, j%slots
		start := c.cfg.Melody.StepTime * (float64(bar*p.BeatsPerBar) + p.Offsets[slot])
		var n note.Note
		if slot == slots-1 {
			n = note.NewHiHat()
		} else {
			drum, err := note.NewBassDrum(p.Kick)
			if err != nil {
				return fmt.Errorf("hit %d: %w", j, err)
			}
			n = drum
		}
		if !c.fits(start, n, total) {
			break
		}
		arr.Placements = append(arr.Placements, Placement{Note: n, Start: start, Track: Percussion, Gain: p.Gain})
	}
	return nil
}

func (c *Composer) fits(start float64, n note.Note, total int) bool {
	return c.offset(start)+c.cfg.Samples(n.Duration()) <= total
}

func (c *Composer) offset(start float64) int {
	return int(start * float64(c.cfg.SampleRate))
}

// Render plays every note of the arrangement and mixes it into the master
// buffer of its track at its start time. Notes overlapping each other add up;
// samples past the end of the clip are dropped.
func (c *Composer) Render(arr *Arrangement) (*Mix, error) {
	total := c.cfg.Samples(arr.Duration)
	mix := &Mix{}
	for t := range mix.Tracks {
		mix.Tracks[t] = make([]float32, total)
	}
	for i, p := range arr.Placements {
		if p.Start < 0 {
			return nil, fmt.Errorf("%w: placement %d starts at %v s", humsynth.ErrInvalidParameter, i, p.Start)
		}
		if p.Track < 0 || p.Track >= NumTracks {
			return nil, fmt.Errorf("%w: placement %d has unknown track %d", humsynth.ErrInvalidParameter, i, p.Track)
		}
		samples := note.Play(p.Note, c.cfg, c.rng)
		vek32.MulNumber_Inplace(samples, float32(p.Gain))
		OverlapAdd(mix.Tracks[p.Track], samples, c.offset(p.Start))
	}
	return mix, nil
}

// OverlapAdd adds src into dst starting at offset, dropping whatever does not
// fit in dst.
func OverlapAdd(dst, src []float32, offset int) {
	if offset < 0 || offset >= len(dst) {
		return
	}
	n := min(len(src), len(dst)-offset)
	vek32.Add_Inplace(dst[offset:offset+n], src[:n])
}

// Len returns the length of the master buffers in samples.
func (m *Mix) Len() int { return len(m.Tracks[Melody]) }

// Combined returns the elementwise sum of all tracks.
func (m *Mix) Combined() []float32 {
	ret := make([]float32, m.Len())
	for _, t := range m.Tracks {
		vek32.Add_Inplace(ret, t)
	}
	return ret
}

// PCM16 returns the combined tracks peak normalized to 16-bit samples.
func (m *Mix) PCM16() []int16 {
	return humsynth.Normalize(m.Combined())
}

// Compose arranges and renders the configured clip.
func (c *Composer) Compose() (*Arrangement, *Mix, error) {
	arr, err := c.Arrange()
	if err != nil {
		return nil, nil, err
	}
	mix, err := c.Render(arr)
	if err != nil {
		return nil, nil, err
	}
	return arr, mix, nil
}
