// Package playback plays rendered files through an audio player program of
// the operating system.
package playback

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/humsynth/humsynth"
)

type (
	// Command is an external player program; the path of the file to play is
	// appended to Args.
	Command struct {
		Name string
		Args []string
	}

	// Chain tries its players in order until one of them succeeds.
	Chain []humsynth.Player
)

// Commands lists the known player programs in order of preference.
var Commands = []Command{
	{Name: "afplay"},
	{Name: "paplay"},
	{Name: "aplay", Args: []string{"-q"}},
	{Name: "pw-play"},
	{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// FindCommand returns the first player program of Commands found in PATH.
func FindCommand() (*Command, error) {
	for _, c := range Commands {
		if _, err := exec.LookPath(c.Name); err == nil {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: no audio player program found in PATH", humsynth.ErrPlaybackUnavailable)
}

// Play runs the player program and waits for it to exit. Cancelling ctx
// kills the program and is not reported as an error.
func (c *Command) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, c.Args...), path)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v failed: %v", humsynth.ErrPlaybackUnavailable, c.Name, err)
	}
	return nil
}

func (c *Command) String() string { return c.Name }

// Play plays the file with the first player that succeeds. If all players
// fail, the returned error joins their errors.
func (c Chain) Play(ctx context.Context, path string) error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no players configured", humsynth.ErrPlaybackUnavailable)
	}
	var errs []error
	for _, p := range c {
		err := p.Play(ctx, path)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
