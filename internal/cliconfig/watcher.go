package cliconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/telebus/pkg/log"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher signals on Reload when the config file changes. Bursts of
// events within the debounce delay collapse into one signal.
type Watcher struct {
	path   string
	delay  time.Duration
	logger log.Logger
	reload chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, delay time.Duration, logger log.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Watcher{
		path:   filepath.Clean(path),
		delay:  delay,
		logger: logger,
		reload: make(chan struct{}, 1),
	}
}

// Reload delivers one value per settled change.
func (w *Watcher) Reload() <-chan struct{} {
	return w.reload
}

// Start begins watching the file's directory, so editors that replace the
// file by rename are still seen. It stops when ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("config watcher: watch %s: %w", dir, err)
	}
	w.logger.Debug("config watcher started", log.String("path", w.path))
	go w.loop(ctx, fw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		w.logger.Info("config file changed", log.String("path", w.path))
		select {
		case w.reload <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
