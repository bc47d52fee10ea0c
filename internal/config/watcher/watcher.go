// Package watcher reports changes to configuration files so a running
// keycalc can reload them.
//
// The directory holding each file is watched rather than the file, so a
// file replaced by an editor's rename-over-save is still seen. Changes
// arriving in a burst are delivered once the files have been quiet for
// the debounce interval.
package watcher

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// DefaultDebounce is the quiet period used unless WithDebounce is given.
const DefaultDebounce = 100 * time.Millisecond

// Operation is what happened to a file.
type Operation int

const (
	OpWrite Operation = iota
	OpCreate
	OpRemove
	OpRename
)

var opNames = [...]string{OpWrite: "write", OpCreate: "create", OpRemove: "remove", OpRename: "rename"}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}
	return opNames[op]
}

// Event is a change to a watched file. Path is absolute.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

// Handler receives change events on the watcher's goroutine.
type Handler func(Event)

// Watcher reports changes to a set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	files    map[string]struct{}
	dirs     map[string]int
	onChange []Handler
	onError  []func(error)
	closed   bool

	done    chan struct{}
	stopped chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero delivers every event at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New starts a watcher with nothing watched.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w, nil
}

// Watch starts reporting changes to path. The file may not exist yet;
// its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	if w.dirs[dir]--; w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.closed {
		return nil
	}
	return w.fsw.Remove(dir)
}

// OnChange adds a change handler.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	w.onChange = append(w.onChange, h)
	w.mu.Unlock()
}

// OnError adds a handler for errors from the file system notifier.
func (w *Watcher) OnError(h func(error)) {
	w.mu.Lock()
	w.onError = append(w.onError, h)
	w.mu.Unlock()
}

// WatchedFiles returns the watched paths in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// Close stops the watcher. Changes still waiting out the debounce
// interval are dropped. Close must not be called from a handler.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	<-w.stopped
	return err
}

func (w *Watcher) run() {
	defer close(w.stopped)

	pending := make(map[string]Operation)
	var (
		timer *time.Timer
		flush <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case fe, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path, op, ok := w.translate(fe)
			if !ok {
				continue
			}
			if w.debounce == 0 {
				w.emit(Event{Path: path, Op: op, Time: time.Now()})
				continue
			}
			if prev, seen := pending[path]; seen {
				op = coalesce(prev, op)
			}
			pending[path] = op
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			flush = timer.C

		case <-flush:
			flush = nil
			now := time.Now()
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				w.emit(Event{Path: path, Op: pending[path], Time: now})
			}
			clear(pending)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			handlers := slices.Clone(w.onError)
			w.mu.Unlock()
			for _, h := range handlers {
				h(err)
			}
		}
	}
}

// translate filters an fsnotify event down to watched files. Chmod is
// ignored.
func (w *Watcher) translate(fe fsnotify.Event) (string, Operation, bool) {
	var op Operation
	switch {
	case fe.Op.Has(fsnotify.Remove):
		op = OpRemove
	case fe.Op.Has(fsnotify.Rename):
		op = OpRename
	case fe.Op.Has(fsnotify.Create):
		op = OpCreate
	case fe.Op.Has(fsnotify.Write):
		op = OpWrite
	default:
		return "", 0, false
	}

	path, err := filepath.Abs(fe.Name)
	if err != nil {
		return "", 0, false
	}
	w.mu.Lock()
	_, watched := w.files[path]
	w.mu.Unlock()
	return path, op, watched
}

// coalesce folds a burst into one operation. A remove sticks, and a
// file created then written is still reported as created.
func coalesce(prev, next Operation) Operation {
	switch {
	case prev == OpRemove && next != OpCreate:
		return OpRemove
	case prev == OpCreate && next == OpWrite:
		return OpCreate
	default:
		return next
	}
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	handlers := slices.Clone(w.onChange)
	w.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}
