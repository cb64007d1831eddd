package humsynth

import "context"

// Player plays an audio file. Implementations block until the playback has
// finished or ctx is cancelled; cancellation is not an error.
type Player interface {
	Play(ctx context.Context, path string) error
}
