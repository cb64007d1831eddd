// Package oto plays rendered files in-process through the oto audio library,
// without any external player program.
package oto

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/humsynth/humsynth"
)

// Player plays mono 16-bit .wav files. oto allows only one context per
// process, so the context is opened on the first Play with the sample rate of
// that file and later files must share it.
type Player struct {
	once       sync.Once
	context    *oto.Context
	sampleRate int
	err        error
}

func NewPlayer() *Player { return &Player{} }

func (p *Player) open(sampleRate int) error {
	p.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}
		c, ready, err := oto.NewContext(op)
		if err != nil {
			p.err = fmt.Errorf("%w: cannot create oto context: %v", humsynth.ErrPlaybackUnavailable, err)
			return
		}
		<-ready
		p.context = c
		p.sampleRate = sampleRate
	})
	if p.err != nil {
		return p.err
	}
	if p.sampleRate != sampleRate {
		return fmt.Errorf("%w: oto context runs at %v Hz, file is %v Hz", humsynth.ErrPlaybackUnavailable, p.sampleRate, sampleRate)
	}
	return nil
}

// Play plays the file and blocks until it has finished or ctx is cancelled.
func (p *Player) Play(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: could not read %v: %v", humsynth.ErrPlaybackUnavailable, path, err)
	}
	pcm, sampleRate, err := decodeWav(data)
	if err != nil {
		return err
	}
	if err := p.open(sampleRate); err != nil {
		return err
	}
	player := p.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Pause()
	player.Play()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("%w: oto player failed: %v", humsynth.ErrPlaybackUnavailable, err)
	}
	return nil
}
