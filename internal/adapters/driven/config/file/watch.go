package file

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verdant-labs/canopy-cli/internal/logger"
)

// debounceDelay coalesces the event bursts editors produce on save.
const debounceDelay = 300 * time.Millisecond

// Watcher observes the configuration file and emits one signal per
// change, used by the interval scheduler to start an early pass.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan struct{}
	done    chan struct{}
}

// NewWatcher watches the configuration file at path for changes.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory rather than the file: editors replace the
	// file by rename, which drops a watch held on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		watcher: fw,
		path:    filepath.Clean(path),
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()

	return w, nil
}

// Events returns the change signal channel.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// loop filters raw filesystem events down to debounced signals for
// the watched file.
func (w *Watcher) loop() {
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !pending {
				pending = true
				debounce.Reset(debounceDelay)
			}

		case <-debounce.C:
			pending = false
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher: %v", err)
		}
	}
}
