package humsynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// Wav encodes mono 16-bit samples into a canonical PCM .wav file.
func Wav(samples []int16, sampleRate int) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(samples), sampleRate, buf)
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WavFloat normalizes a float buffer with Normalize and encodes it with Wav.
func WavFloat(buffer []float32, sampleRate int) ([]byte, error) {
	return Wav(Normalize(buffer), sampleRate)
}

// Raw returns the samples as headerless little-endian 16-bit data.
func Raw(samples []int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWav encodes the samples and writes them to path. Failures wrap
// ErrEncoding.
func WriteWav(path string, samples []int16, sampleRate int) error {
	data, err := Wav(samples, sampleRate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: could not write file %v: %v", ErrEncoding, path, err)
	}
	return nil
}

// wavHeader writes the 44 byte header of a mono int16 .wav file into the
// bytes.Buffer. bufferLength is the number of samples.
func wavHeader(bufferLength, sampleRate int, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	const (
		numChannels    = 1
		bytesPerSample = 2
		fmtChunkSize   = 16
		waveFormat     = 1 // PCM
	)
	dataSize := bytesPerSample * bufferLength
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}
