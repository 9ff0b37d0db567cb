package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called after a watched file has been reloaded.
type ReloadFunc func(path string, file *File)

// Watcher reloads configuration files when they change on disk.
// Parent directories are watched rather than the files themselves;
// editors that replace files by rename would otherwise detach the
// watch.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	store    *Store
	files    map[string]bool
	dirs     map[string]bool
	onReload []ReloadFunc
	timers   map[string]*time.Timer
	debounce time.Duration
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a file must be quiet before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher that applies reloaded option values to
// the given store.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		store:    store,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch registers a configuration file for live reload.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}

	w.files[absPath] = true
	return nil
}

// Unwatch stops watching a configuration file.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	delete(w.files, absPath)
	if t, ok := w.timers[absPath]; ok {
		t.Stop()
		delete(w.timers, absPath)
	}
	return nil
}

// OnReload registers a callback invoked after each reload.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Close stops the watcher. It is safe to call Close more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleEvent schedules a debounced reload for registered files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.reload(path)
	})
}

// reload re-reads one file and applies its options to the store.
func (w *Watcher) reload(path string) {
	w.mu.Lock()
	if w.closed || !w.files[path] {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	callbacks := make([]ReloadFunc, len(w.onReload))
	copy(callbacks, w.onReload)
	w.mu.Unlock()

	file, err := LoadFile(path)
	if err != nil || file == nil {
		return
	}

	if w.store != nil {
		// A bad value in one option must not block the rest.
		_ = w.store.Apply(file.Options)
	}

	for _, fn := range callbacks {
		fn(path, file)
	}
}
