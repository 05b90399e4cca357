// Package watch re-loads a configuration file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"cfgfile/internal/cfgfile"
)

// DefaultDebounce is how long the watcher waits after the last event
// before re-loading.
const DefaultDebounce = 200 * time.Millisecond

// LoadFunc loads the watched file. It is typically a closure over
// cfgfile.LoadFile with a fixed schema.
type LoadFunc func() (*cfgfile.Store, error)

// Result is the outcome of one load.
type Result struct {
	Store *cfgfile.Store
	Err   error
}

// Watcher calls a LoadFunc each time its file changes.
type Watcher struct {
	path     string
	load     LoadFunc
	debounce time.Duration
	log      *zap.Logger
	initial  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload. Non-positive values
// reload on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for watcher errors and reload results.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithInitialLoad makes Run load once before waiting for changes.
func WithInitialLoad() Option {
	return func(w *Watcher) { w.initial = true }
}

// New returns a Watcher for path.
func New(path string, load LoadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		load:     load,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the file's directory and calls fn with the result of every
// reload until ctx is done. The directory is watched instead of the file so
// editors that replace the file by rename are followed.
func (w *Watcher) Run(ctx context.Context, fn func(Result)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Debug("watching config", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	if w.initial {
		fn(w.reload())
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timerC:
			timerC = nil
			fn(w.reload())
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", zap.Error(err))
		case evt, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(evt) {
				continue
			}
			if w.debounce <= 0 {
				fn(w.reload())
				continue
			}
			resetTimer()
		}
	}
}

func (w *Watcher) reload() Result {
	st, err := w.load()
	if err != nil {
		w.log.Info("config reload reported problems", zap.String("path", w.path), zap.Error(err))
	} else {
		w.log.Info("config reloaded", zap.String("path", w.path), zap.Int("values", st.Len()))
	}
	return Result{Store: st, Err: err}
}

// relevant reports whether evt concerns the watched file.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != w.path {
		return false
	}
	return evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
