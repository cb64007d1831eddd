package midiexport_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/composer"
	"github.com/humsynth/humsynth/midiexport"
	"github.com/humsynth/humsynth/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type silence struct{}

func (silence) Duration() float64                     { return 1 }
func (silence) Generate(t []float32, _ int) []float32 { return make([]float32, len(t)) }

func countNotes(t *testing.T, track smf.Track) map[[2]uint8]int {
	t.Helper()
	ret := map[[2]uint8]int{}
	for _, ev := range track {
		var ch, key, vel uint8
		if midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
			ret[[2]uint8{ch, key}]++
		}
	}
	return ret
}

func TestWriteDefaultArrangement(t *testing.T) {
	c, err := composer.New(humsynth.DefaultConfig(), humsynth.NoJitter)
	require.NoError(t, err)
	arr, err := c.Arrange()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, midiexport.Write(&buf, arr, 0.5))
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, smf.MetricTicks(midiexport.TicksPerQuarter), rd.TimeFormat)
	require.Len(t, rd.Tracks, 3)
	tempos := rd.TempoChanges()
	require.NotEmpty(t, tempos)
	assert.InDelta(t, 120, tempos[0].BPM, 1e-6)

	melody := countNotes(t, rd.Tracks[1])
	assert.Equal(t, 20, melody[[2]uint8{0, 72}], "C5 is played twice per motif")
	assert.Equal(t, 10, melody[[2]uint8{0, 73}])
	drums := countNotes(t, rd.Tracks[2])
	assert.Equal(t, 21*5, drums[[2]uint8{midiexport.DrumChannel, midiexport.KickKey}])
	assert.Equal(t, 21, drums[[2]uint8{midiexport.DrumChannel, midiexport.HiHatKey}])
}

// noteSpans returns the on to off tick spans of every note of the track per
// key, failing if a key is struck while it is still sounding.
func noteSpans(t *testing.T, track smf.Track) map[uint8][]uint32 {
	t.Helper()
	ret := map[uint8][]uint32{}
	open := map[uint8]uint32{}
	var tick uint32
	for _, ev := range track {
		tick += ev.Delta
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			_, sounding := open[key]
			require.False(t, sounding, "key %d struck again at tick %d while sounding", key, tick)
			open[key] = tick
		case msg.GetNoteEnd(&ch, &key):
			on, sounding := open[key]
			require.True(t, sounding, "key %d released at tick %d without note on", key, tick)
			ret[key] = append(ret[key], tick-on)
			delete(open, key)
		}
	}
	require.Empty(t, open, "notes left sounding")
	return ret
}

func TestRepeatedKeysDoNotCutLaterNotes(t *testing.T) {
	c, err := composer.New(humsynth.DefaultConfig(), humsynth.NoJitter)
	require.NoError(t, err)
	arr, err := c.Arrange()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, midiexport.Write(&buf, arr, 0.5))
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	spans := noteSpans(t, rd.Tracks[1])
	const full, twoSteps = 3 * midiexport.TicksPerQuarter, 2 * midiexport.TicksPerQuarter
	c5 := spans[72]
	require.Len(t, c5, 20)
	for i, span := range c5[:len(c5)-1] {
		assert.Equal(t, uint32(twoSteps), span, "C5 note %d should last until the next C5", i)
	}
	assert.Equal(t, uint32(full), c5[len(c5)-1], "the last C5 should ring for its full length")
	require.Len(t, spans[73], 10)
	for i, span := range spans[73] {
		assert.Equal(t, uint32(full), span, "C#5 note %d", i)
	}
}

func TestSimultaneousSameKeyNotesMerge(t *testing.T) {
	short, err := note.NewStringed(440, 0.5, 1, humsynth.StringEnvelope{})
	require.NoError(t, err)
	long, err := note.NewStringed(440, 1.5, 1, humsynth.StringEnvelope{})
	require.NoError(t, err)
	arr := &composer.Arrangement{Duration: 2, Placements: []composer.Placement{
		{Note: short, Start: 0}, {Note: long, Start: 0},
	}}
	var buf bytes.Buffer
	require.NoError(t, midiexport.Write(&buf, arr, 0.5))
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[uint8][]uint32{69: {3 * midiexport.TicksPerQuarter}}, noteSpans(t, rd.Tracks[1]))
}

func TestKey(t *testing.T) {
	a4, err := note.NewStringed(440, 1, 1, humsynth.StringEnvelope{})
	require.NoError(t, err)
	k, err := midiexport.Key(a4)
	require.NoError(t, err)
	assert.Equal(t, uint8(69), k)

	k, err = midiexport.Key(note.NewHiHat())
	require.NoError(t, err)
	assert.Equal(t, uint8(midiexport.HiHatKey), k)

	_, err = midiexport.Key(silence{})
	assert.Error(t, err)
}

func TestWriteErrors(t *testing.T) {
	arr := &composer.Arrangement{Duration: 1, Placements: []composer.Placement{{Note: silence{}}}}
	assert.Error(t, midiexport.Write(&bytes.Buffer{}, arr, 0.5))
	assert.Error(t, midiexport.Write(&bytes.Buffer{}, &composer.Arrangement{}, 0))
	assert.Error(t, midiexport.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.mid"), &composer.Arrangement{}, 0.5))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mid")
	arr := &composer.Arrangement{Duration: 1, Placements: []composer.Placement{{Note: note.NewHiHat(), Track: composer.Percussion}}}
	require.NoError(t, midiexport.WriteFile(path, arr, 0.5))
	rd, err := smf.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, countNotes(t, rd.Tracks[2])[[2]uint8{midiexport.DrumChannel, midiexport.HiHatKey}])
}
