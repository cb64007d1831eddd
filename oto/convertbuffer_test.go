package oto

import (
	"errors"
	"testing"

	"github.com/humsynth/humsynth"
)

func TestDecodeWav(t *testing.T) {
	data, err := humsynth.Wav([]int16{1, -1, 256, -32767}, 22050)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	pcm, rate, err := decodeWav(data)
	if err != nil {
		t.Fatalf("decodeWav failed: %v", err)
	}
	if rate != 22050 {
		t.Fatalf("sample rate mismatch, got %v, expected 22050", rate)
	}
	expected := []byte{1, 0, 0xff, 0xff, 0, 1, 0x01, 0x80}
	if string(pcm) != string(expected) {
		t.Fatalf("pcm mismatch, got %v, expected %v", pcm, expected)
	}
}

func TestDecodeWavRejectsGarbage(t *testing.T) {
	_, _, err := decodeWav([]byte("definitely not a wave file, just some bytes"))
	if !errors.Is(err, humsynth.ErrPlaybackUnavailable) {
		t.Fatalf("expected ErrPlaybackUnavailable, got %v", err)
	}
}

func TestIntBufferClamps(t *testing.T) {
	got := intBufferTo16BitLE([]int{40000, -40000})
	expected := []byte{0xff, 0x7f, 0x00, 0x80}
	if string(got) != string(expected) {
		t.Fatalf("clamping failed, got %v, expected %v", got, expected)
	}
}
