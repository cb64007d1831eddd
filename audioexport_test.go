package humsynth_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/humsynth/humsynth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) (*wav.Decoder, *audio.IntBuffer) {
	t.Helper()
	d := wav.NewDecoder(bytes.NewReader(data))
	require.True(t, d.IsValidFile(), "encoded data should be a valid .wav file")
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	return d, buf
}

func TestWavLayout(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32767, 1234}
	data, err := humsynth.Wav(samples, 44100)
	require.NoError(t, err)
	require.Len(t, data, 44+2*len(samples))
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(36+2*len(samples)), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, "WAVEfmt ", string(data[8:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(88200), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(t, "data", string(data[36:40]))

	d, buf := decode(t, data)
	assert.Equal(t, uint16(1), d.NumChans)
	assert.Equal(t, uint16(16), d.BitDepth)
	assert.Equal(t, uint32(44100), d.SampleRate)
	want := make([]int, len(samples))
	for i, v := range samples {
		want[i] = int(v)
	}
	assert.Equal(t, want, buf.Data)
}

func TestWavFloatNormalizes(t *testing.T) {
	data, err := humsynth.WavFloat([]float32{0.25, -0.5, 0}, 22050)
	require.NoError(t, err)
	d, buf := decode(t, data)
	assert.Equal(t, uint32(22050), d.SampleRate)
	assert.Equal(t, []int{16384, -32767, 0}, buf.Data)
}

func TestRaw(t *testing.T) {
	raw, err := humsynth.Raw([]int16{1, -2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0xfe, 0xff}, raw)
}

func TestWriteWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, humsynth.WriteWav(path, []int16{5, 6, 7}, 44100))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, buf := decode(t, data)
	assert.Equal(t, []int{5, 6, 7}, buf.Data)

	err = humsynth.WriteWav(filepath.Join(t.TempDir(), "missing", "dir", "out.wav"), []int16{1}, 44100)
	assert.ErrorIs(t, err, humsynth.ErrEncoding)
}
