package internal

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 2 * time.Second

// Watcher wraps fsnotify watcher with media file filtering. A path is
// reported once writes to it have settled.
type Watcher struct {
	watcher *fsnotify.Watcher
	cfg     *Config
	settle  time.Duration
	events  chan string
	errors  chan error
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
	muted   map[string]time.Time
	closed  bool
}

// NewWatcher watches root and every directory below it, including ones
// created later.
func NewWatcher(root string, cfg *Config, settle time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	w := &Watcher{
		watcher: fsWatcher,
		cfg:     cfg,
		settle:  settle,
		events:  make(chan string, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
		muted:   make(map[string]time.Time),
	}

	if err := w.addRecursive(root, false); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.processEvents()
	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watcher.
// With schedule set, media files already inside are queued too; they may
// have landed before the watch was in place.
func (w *Watcher) addRecursive(root string, schedule bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		if schedule && w.cfg.IsMedia(path) {
			w.schedule(path)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if isHidden(filepath.Base(event.Name)) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name, true); err != nil {
				w.sendError(err)
			}
			return
		}
	}

	if !w.cfg.IsMedia(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(event.Name)
	}
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.fire(path) })
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	until, muted := w.muted[path]
	if muted && time.Now().After(until) {
		delete(w.muted, path)
		muted = false
	}
	w.mu.Unlock()

	if muted {
		return
	}
	select {
	case w.events <- path:
	case <-w.done:
	}
}

// Mute ignores changes to path for d. Used after writing to a file so our
// own write is not picked up as a new arrival.
func (w *Watcher) Mute(path string, d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.muted[path] = time.Now().Add(d)
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Error channel is full, drop error
	}
}

// Events returns the channel of settled media file paths
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
