package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// defaultSettleDuration is how long to wait for an editor's burst of writes
// to finish before reporting a change.
const defaultSettleDuration = 50 * time.Millisecond

// FileWatcher reports writes to a single config file. The parent directory is
// watched so that editors replacing the file by rename are still seen.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	update  chan struct{}
	settle  time.Duration
}

// NewFileWatcher starts watching the directory holding filePath.
func NewFileWatcher(filePath string) (*FileWatcher, error) {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", filePath, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify new watcher error: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("fsnotify add error for %q: %w", filepath.Dir(path), err)
	}

	return &FileWatcher{
		path:    path,
		watcher: watcher,
		update:  make(chan struct{}),
		settle:  defaultSettleDuration,
	}, nil
}

// Watch blocks until ctx is done or the watcher fails. Consumers receive
// change notices from [FileWatcher.Update].
func (fw *FileWatcher) Watch(ctx context.Context) error {
	events := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return errors.New("unexpected close from watcher.Errors")
				}
				return fmt.Errorf("unexpected notify error: %w", err)
			case e, ok := <-fw.watcher.Events:
				if !ok {
					return errors.New("unexpected close from watcher.Events")
				}
				if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
					continue
				}
				if filepath.Clean(e.Name) != fw.path {
					continue
				}
				select {
				case events <- struct{}{}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	g.Go(func() error {
		pending := false
		timer := time.NewTimer(fw.settle)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-events:
				pending = true
				timer.Reset(fw.settle)
			case <-timer.C:
				if !pending {
					continue
				}
				pending = false
				select {
				case fw.update <- struct{}{}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	err := g.Wait()
	close(fw.update)
	_ = fw.watcher.Close()
	return err
}

// Update signals a settled change to the watched file. It is closed when
// Watch returns.
func (fw *FileWatcher) Update() <-chan struct{} {
	return fw.update
}

// Path is the absolute path of the watched file.
func (fw *FileWatcher) Path() string {
	return fw.path
}
