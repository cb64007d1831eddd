package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/humsynth/humsynth/internal/log"
)

// watch calls render once and then again every time the file at path is
// written or recreated, cancelling the previous render (and its playback)
// first. It returns when ctx is done.
func watch(ctx context.Context, path string, logger *log.Logger, render func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return fmt.Errorf("could not watch %v: %w", path, err)
	}
	var (
		cancel = func() {}
		done   = make(chan struct{})
	)
	close(done)
	start := func() {
		cancel()
		<-done
		var renderCtx context.Context
		renderCtx, cancel = context.WithCancel(ctx)
		done = make(chan struct{})
		go func(done chan struct{}) {
			defer close(done)
			if err := render(renderCtx); err != nil {
				logger.Errorf("%v", err)
			}
		}(done)
	}
	defer func() {
		cancel()
		<-done
	}()
	start()
	logger.Infof("watching %v for changes", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debugf("%v changed", event.Name)
				start()
			}
			// editors often replace the file; try to watch the new one
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.Add(path); err != nil {
					logger.Warnf("could not watch %v again, changes are no longer seen: %v", path, err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			logger.Warnf("file watcher: %v", err)
		}
	}
}
