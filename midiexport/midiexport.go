// Package midiexport writes an arrangement as a Standard MIDI File, so the
// generated pattern can be opened in a sequencer or a DAW.
package midiexport

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/humsynth/humsynth/composer"
	"github.com/humsynth/humsynth/note"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 960
	DrumChannel     = 9  // General MIDI percussion channel
	KickKey         = 36 // General MIDI bass drum 1
	HiHatKey        = 42 // General MIDI closed hi-hat
	velocity        = 100
)

type event struct {
	tick uint32
	on   bool
	key  uint8
}

// Write encodes the arrangement into w. One melody step of stepTime seconds
// is one quarter note, so the default 0.5 s step gives 120 BPM.
func Write(w io.Writer, arr *composer.Arrangement, stepTime float64) error {
	if !(stepTime > 0) {
		return fmt.Errorf("step time should be > 0, got %v", stepTime)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(60/stepTime))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}
	for _, t := range []composer.Track{composer.Melody, composer.Percussion} {
		events, err := trackEvents(arr, t, stepTime)
		if err != nil {
			return err
		}
		channel := uint8(0)
		if t == composer.Percussion {
			channel = DrumChannel
		}
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.String()))
		var last uint32
		for _, e := range events {
			if e.on {
				track.Add(e.tick-last, midi.NoteOn(channel, e.key, velocity))
			} else {
				track.Add(e.tick-last, midi.NoteOff(channel, e.key))
			}
			last = e.tick
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return fmt.Errorf("error adding %v track: %w", t, err)
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI data: %w", err)
	}
	return nil
}

// WriteFile writes the arrangement to a .mid file.
func WriteFile(path string, arr *composer.Arrangement, stepTime float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create MIDI file: %w", err)
	}
	if err := Write(f, arr, stepTime); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type span struct {
	on, off uint32
	key     uint8
}

// trackEvents returns the note on and off events of one track sorted by
// time, note offs first when they coincide with note ons. A note still
// sounding when its key is struck again is ended at the new note on, so
// every key has at most one open note.
func trackEvents(arr *composer.Arrangement, t composer.Track, stepTime float64) ([]event, error) {
	ticks := func(seconds float64) uint32 {
		return uint32(math.Round(seconds / stepTime * TicksPerQuarter))
	}
	var notes []span
	for i, p := range arr.Placements {
		if p.Track != t {
			continue
		}
		key, err := Key(p.Note)
		if err != nil {
			return nil, fmt.Errorf("placement %d: %w", i, err)
		}
		on, off := ticks(p.Start), ticks(p.Start+p.Note.Duration())
		notes = append(notes, span{on: on, off: max(off, on+1), key: key})
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].on < notes[j].on })
	open := map[uint8]int{}
	kept := notes[:0]
	for _, n := range notes {
		if j, ok := open[n.key]; ok && kept[j].off > n.on {
			if kept[j].on == n.on {
				kept[j].off = max(kept[j].off, n.off)
				continue
			}
			kept[j].off = n.on
		}
		open[n.key] = len(kept)
		kept = append(kept, n)
	}
	ret := make([]event, 0, 2*len(kept))
	for _, n := range kept {
		ret = append(ret, event{tick: n.on, on: true, key: n.key}, event{tick: n.off, key: n.key})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].tick != ret[j].tick {
			return ret[i].tick < ret[j].tick
		}
		return !ret[i].on && ret[j].on
	})
	return ret, nil
}

// Key returns the MIDI key of a note: the nearest equal tempered key for
// stringed notes, General MIDI drum keys for percussion.
func Key(n note.Note) (uint8, error) {
	switch v := n.(type) {
	case *note.Stringed:
		k := math.Round(69 + 12*math.Log2(v.Frequency/440))
		return uint8(min(max(k, 0), 127)), nil
	case *note.BassDrum:
		return KickKey, nil
	case *note.HiHat:
		return HiHatKey, nil
	default:
		return 0, fmt.Errorf("no MIDI key for note type %T", n)
	}
}
