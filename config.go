package humsynth

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Config holds every parameter of a render: the sample rate, the per note
	// timing jitter and edge fades, and the melody and percussion patterns.
	// Config is passed by value to every component and never mutated after
	// validation, so tests can vary e.g. the sample rate freely.
	Config struct {
		SampleRate int
		Jitter     float64   // maximum per note time offset, in seconds
		Fade       FadeStyle // which note edges are faded to avoid clicks
		FadeTime   float64   // length of each edge fade, in seconds
		Tail       float64   // seconds added after the melody steps
		Melody     Melody
		Percussion Percussion
	}

	// Melody describes the melodic line: a motif of scale degrees repeated
	// Repeats times, one step every StepTime seconds. The degree d maps to
	// BaseFrequency * 2^(d/StepsPerOctave).
	Melody struct {
		BaseFrequency  float64
		StepsPerOctave int
		StepTime       float64
		Motif          []Degree `yaml:",flow"`
		Repeats        int
		NoteLength     float64
		Overtones      int
		Gain           float64
		Envelope       StringEnvelope
	}

	// StringEnvelope selects the amplitude envelope of the stringed notes.
	// With Shape "none" the notes rely only on the edge fades.
	StringEnvelope struct {
		Shape     EnvelopeShape
		DecayRate float64 `yaml:",omitempty"`
		Attack    float64 `yaml:",omitempty"`
		Release   float64 `yaml:",omitempty"`
	}

	// Percussion describes the beat: a bar of BeatsPerBar steps (of the same
	// StepTime as the melody) with hits at the given offsets, measured in
	// steps. The last offset of every bar plays a hi-hat, all others a kick.
	Percussion struct {
		Offsets     []float64 `yaml:",flow"`
		BeatsPerBar int
		MaxHits     int
		Gain        float64
		Kick        Kick
	}

	// Kick holds the parameters of the bass drum.
	Kick struct {
		FInit        float64
		FFinal       float64
		Duration     float64
		Sweep        SweepLaw
		TimeConstant float64
		DecayRate    float64
	}

	// Degree is a scale degree of the melody motif, or Rest.
	Degree int

	// FadeStyle tells which edges of a note are faded.
	FadeStyle string

	// EnvelopeShape is the amplitude envelope kind of a stringed note.
	EnvelopeShape string

	// SweepLaw is the law by which the bass drum pitch moves from FInit to
	// FFinal.
	SweepLaw string
)

// Rest is the sentinel degree of a silent motif step.
const Rest Degree = math.MinInt32

const (
	FadeIn    FadeStyle = "in"
	FadeInOut FadeStyle = "inout"
)

const (
	ShapeNone   EnvelopeShape = "none"
	ShapeDecay  EnvelopeShape = "decay"
	ShapeWindow EnvelopeShape = "window"
)

const (
	SweepSigmoid SweepLaw = "sigmoid"
	SweepLinear  SweepLaw = "linear"
)

// DefaultConfig returns the configuration of the classic humsynth clip: a
// 40 step melody at 523.2 Hz and a kick/hi-hat beat, 42 seconds in total.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Jitter:     0.001,
		Fade:       FadeInOut,
		FadeTime:   0.01,
		Tail:       2,
		Melody: Melody{
			BaseFrequency:  523.2,
			StepsPerOctave: 12,
			StepTime:       0.5,
			Motif:          []Degree{0, 1, 0, Rest},
			Repeats:        10,
			NoteLength:     1.5,
			Overtones:      4,
			Gain:           0.1,
			Envelope:       StringEnvelope{Shape: ShapeWindow, Attack: 0.1, Release: 0.2},
		},
		Percussion: Percussion{
			Offsets:     []float64{0, 0.8, 1.0, 1.8, 2.0, 3.0},
			BeatsPerBar: 4,
			MaxHits:     1000,
			Gain:        1,
			Kick: Kick{
				FInit:        100,
				FFinal:       40,
				Duration:     0.5,
				Sweep:        SweepSigmoid,
				TimeConstant: 0.05,
				DecayRate:    2,
			},
		},
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys
// missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config %v: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML bytes on top of DefaultConfig and validates the
// result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration. All failures wrap ErrInvalidParameter.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...))
		}
	}
	check(c.SampleRate > 0, "sample rate should be > 0, got %v", c.SampleRate)
	check(finite(c.Jitter) && c.Jitter >= 0, "jitter should be >= 0, got %v", c.Jitter)
	check(c.Fade == FadeIn || c.Fade == FadeInOut, "unknown fade style %q", c.Fade)
	check(finite(c.FadeTime) && c.FadeTime >= 0, "fade time should be >= 0, got %v", c.FadeTime)
	check(finite(c.Tail) && c.Tail >= 0, "tail should be >= 0, got %v", c.Tail)
	m := c.Melody
	check(positive(m.BaseFrequency), "melody base frequency should be > 0, got %v", m.BaseFrequency)
	check(m.StepsPerOctave > 0, "steps per octave should be > 0, got %v", m.StepsPerOctave)
	check(positive(m.StepTime), "step time should be > 0, got %v", m.StepTime)
	check(m.Repeats >= 0, "repeats should be >= 0, got %v", m.Repeats)
	check(positive(m.NoteLength), "melody note length should be > 0, got %v", m.NoteLength)
	check(m.Overtones >= 1, "overtones should be >= 1, got %v", m.Overtones)
	check(finite(m.Gain), "melody gain should be finite")
	switch m.Envelope.Shape {
	case ShapeNone:
	case ShapeDecay:
		check(finite(m.Envelope.DecayRate) && m.Envelope.DecayRate >= 0, "decay rate should be >= 0, got %v", m.Envelope.DecayRate)
	case ShapeWindow:
		check(positive(m.Envelope.Attack), "attack should be > 0, got %v", m.Envelope.Attack)
		check(positive(m.Envelope.Release), "release should be > 0, got %v", m.Envelope.Release)
	default:
		check(false, "unknown envelope shape %q", m.Envelope.Shape)
	}
	p := c.Percussion
	for _, o := range p.Offsets {
		check(finite(o) && o >= 0, "percussion offsets should be >= 0, got %v", o)
	}
	check(p.BeatsPerBar >= 0, "beats per bar should be >= 0, got %v", p.BeatsPerBar)
	check(p.MaxHits >= 0, "max hits should be >= 0, got %v", p.MaxHits)
	check(finite(p.Gain), "percussion gain should be finite")
	k := p.Kick
	check(positive(k.FInit) && positive(k.FFinal), "kick frequencies should be > 0, got %v and %v", k.FInit, k.FFinal)
	check(positive(k.Duration), "kick duration should be > 0, got %v", k.Duration)
	check(k.Sweep == SweepSigmoid || k.Sweep == SweepLinear, "unknown sweep law %q", k.Sweep)
	check(k.Sweep != SweepSigmoid || positive(k.TimeConstant), "sweep time constant should be > 0, got %v", k.TimeConstant)
	check(finite(k.DecayRate) && k.DecayRate >= 0, "kick decay rate should be >= 0, got %v", k.DecayRate)
	return errors.Join(errs...)
}

// Steps returns the melody motif repeated Repeats times.
func (m *Melody) Steps() []Degree {
	ret := make([]Degree, 0, len(m.Motif)*m.Repeats)
	for range m.Repeats {
		ret = append(ret, m.Motif...)
	}
	return ret
}

// Frequency returns the frequency of the scale degree d.
func (m *Melody) Frequency(d Degree) float64 {
	return m.BaseFrequency * math.Pow(2, float64(d)/float64(m.StepsPerOctave))
}

// Duration returns the length of the rendered clip in seconds: one second
// per melody step plus the tail.
func (c *Config) Duration() float64 {
	return float64(len(c.Melody.Motif)*c.Melody.Repeats) + c.Tail
}

// Samples converts a duration in seconds to a sample count.
func (c *Config) Samples(seconds float64) int {
	return int(math.Round(seconds * float64(c.SampleRate)))
}

func (d Degree) IsRest() bool { return d == Rest }

func (d Degree) String() string {
	if d.IsRest() {
		return "rest"
	}
	return strconv.Itoa(int(d))
}

func (d Degree) MarshalYAML() (any, error) {
	if d.IsRest() {
		return "rest", nil
	}
	return int(d), nil
}

func (d *Degree) UnmarshalYAML(value *yaml.Node) error {
	switch s := strings.ToLower(strings.TrimSpace(value.Value)); s {
	case "rest", "-", "r", "~":
		*d = Rest
		return nil
	default:
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: degree %q is neither an integer nor rest", ErrInvalidParameter, value.Value)
		}
		*d = Degree(v)
		return nil
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }
