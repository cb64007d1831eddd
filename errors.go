package humsynth

import "errors"

var (
	// ErrInvalidParameter is returned when a note or a configuration has a
	// non-positive duration or frequency, or an otherwise unusable value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrPlaybackUnavailable is returned by players when no audio output could
	// be used. It is never fatal: the rendered file stays valid.
	ErrPlaybackUnavailable = errors.New("playback unavailable")

	// ErrEncoding is returned when the audio file cannot be written.
	ErrEncoding = errors.New("encoding failed")
)
