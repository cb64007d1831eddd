package oto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/wav"
	"github.com/humsynth/humsynth"
)

// decodeWav decodes a mono 16-bit .wav file into the little-endian PCM bytes
// oto expects, along with the sample rate of the file.
func decodeWav(data []byte) ([]byte, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a valid .wav file", humsynth.ErrPlaybackUnavailable)
	}
	if d.NumChans != 1 || d.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: only mono 16-bit files are supported, got %v channels of %v bits", humsynth.ErrPlaybackUnavailable, d.NumChans, d.BitDepth)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: could not decode .wav file: %v", humsynth.ErrPlaybackUnavailable, err)
	}
	return intBufferTo16BitLE(buf.Data), int(d.SampleRate), nil
}

// intBufferTo16BitLE converts decoded samples to 16-bit little-endian bytes,
// clamping values outside the int16 range.
func intBufferTo16BitLE(samples []int) []byte {
	ret := make([]byte, 2*len(samples))
	for i, v := range samples {
		v = min(max(v, math.MinInt16), math.MaxInt16)
		binary.LittleEndian.PutUint16(ret[2*i:], uint16(int16(v)))
	}
	return ret
}
