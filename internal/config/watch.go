package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the quiet period after the last write before a reload is
// signalled. Editors often write a file several times when saving.
const WatchDebounce = 300 * time.Millisecond

// Watcher signals when the configuration file changes on disk.
type Watcher struct {
	path    string
	logf    func(string, ...any)
	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher returns a watcher for the configuration file at path.
func NewWatcher(path string, logf func(string, ...any)) *Watcher {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Watcher{
		path:   filepath.Clean(path),
		logf:   logf,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start watches the parent directory so atomic renames by editors are seen.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	go w.run()
	return nil
}

// Events delivers at most one pending reload signal at a time.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Stop terminates the watcher goroutine. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
	})
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logf("config watcher: %v", err)
		case <-fire:
			fire = nil
			w.logf("config watcher: %s changed", w.path)
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}
