// Package watch runs an action whenever a single file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over the
// original keep triggering events.
//
// Typical usage:
//
//	w, _ := watch.New("page.html", watch.Options{Debounce: 200 * time.Millisecond})
//	err := w.Run(ctx, func() error { return reclean() })
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options tunes the watcher behaviour.
type Options struct {
	// Debounce is the quiet period after a change before the action fires.
	// Further changes during the window restart it. 0 fires immediately.
	Debounce time.Duration
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watcher re-runs an action when its file changes. Stats is safe for
// concurrent use; Run must only be called once at a time.
type Watcher struct {
	path string
	dir  string
	opts Options

	events atomic.Int64
	runs   atomic.Int64
	errors atomic.Int64
	runNs  atomic.Int64
}

// Stats are point-in-time counters.
type Stats struct {
	Events     int64         `json:"events" yaml:"events"`
	Runs       int64         `json:"runs" yaml:"runs"`
	Errors     int64         `json:"errors" yaml:"errors"`
	AvgRunTime time.Duration `json:"avg_run_time" yaml:"avg_run_time"`
}

// New creates a Watcher for path. Call Run to start the loop.
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	opts.defaults()
	return &Watcher{
		path: abs,
		dir:  filepath.Dir(abs),
		opts: opts,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	s := Stats{
		Events: w.events.Load(),
		Runs:   w.runs.Load(),
		Errors: w.errors.Load(),
	}
	if s.Runs > 0 {
		s.AvgRunTime = time.Duration(w.runNs.Load() / s.Runs)
	}
	return s
}

// Run calls action once, then again after every debounced change to the
// file, until ctx is cancelled. Action errors are logged and counted; they
// do not stop the loop. Run returns nil on cancellation and an error only
// when the directory cannot be watched.
func (w *Watcher) Run(ctx context.Context, action func() error) error {
	log := w.opts.Logger

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	log.Info("watch: started", "path", w.path, "debounce", w.opts.Debounce)
	w.run(action)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			log.Info("watch: stopped", "path", w.path)
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.events.Add(1)
			log.Debug("watch: change detected", "path", ev.Name, "op", ev.Op.String())

			if w.opts.Debounce == 0 {
				w.run(action)
				continue
			}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(w.opts.Debounce)
			} else {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
				debounceTimer.Reset(w.opts.Debounce)
			}
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			w.run(action)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.errors.Add(1)
			log.Warn("watch: watcher error", "error", err)
		}
	}
}

// relevant reports whether ev changes the contents of the watched file.
// Removal and rename-away are ignored; the replacement arrives as Create.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) run(action func() error) {
	start := time.Now()
	err := action()
	w.runs.Add(1)
	w.runNs.Add(int64(time.Since(start)))
	if err != nil {
		w.errors.Add(1)
		w.opts.Logger.Warn("watch: action failed", "path", w.path, "error", err)
	}
}
