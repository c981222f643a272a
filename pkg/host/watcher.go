package host

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keelcad/keel/pkg/model"
)

// WatcherConfig configures a model watcher.
type WatcherConfig struct {
	// Path is the model script to watch and rebuild.
	Path string

	// Params are passed to every evaluation.
	Params model.Parameters

	// DebounceDelay is how long to wait for further writes before rebuilding.
	// Editors typically produce bursts of events per save.
	DebounceDelay time.Duration

	// Logger for watch and rebuild events. Nil means slog.Default().
	Logger *slog.Logger
}

// blacklistedExts are editor temp/swap file extensions whose events are
// ignored; saving in common editors creates these next to the watched file.
var blacklistedExts = map[string]bool{
	".swp": true,
	".swx": true,
	".tmp": true,
}

// Watcher watches a model script and rebuilds it on change. Builds are
// delivered through a single slot: a rebuild that finishes before the
// previous build was consumed replaces it, so the consumer always gets the
// newest build and never a backlog.
type Watcher struct {
	model    *Model
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	builds chan *Build
	errs   chan error
}

// NewWatcher creates a watcher for the configured model and performs the
// initial build synchronously, so a consumer that starts polling immediately
// has something to receive.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	// Watch the directory, not the file: editors replace files on save and a
	// watch on the old inode would go stale.
	if err := fsw.Add(filepath.Dir(cfg.Path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		model:    NewModel(cfg.Path, cfg.Params),
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		builds:   make(chan *Build, 1),
		errs:     make(chan error, 1),
	}

	w.rebuild()
	return w, nil
}

// Start begins processing file events until the context is canceled or the
// underlying watcher fails.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Receive returns the newest build if one is ready, without blocking. Nil
// means nothing new since the last call.
func (w *Watcher) Receive() *Build {
	select {
	case b := <-w.builds:
		return b
	default:
		return nil
	}
}

// Err returns a pending watcher or rebuild error, without blocking.
func (w *Watcher) Err() error {
	select {
	case err := <-w.errs:
		return err
	default:
		return nil
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("model source changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.rebuild()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.pushError(err)
		}
	}
}

// relevant filters events down to meaningful writes of the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if blacklistedExts[strings.ToLower(filepath.Ext(ev.Name))] {
		return false
	}
	if filepath.Base(ev.Name) != filepath.Base(w.model.Path) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) rebuild() {
	start := time.Now()
	build, err := w.model.LoadOnce()
	if err != nil {
		w.logger.Warn("model rebuild failed", "path", w.model.Path, "error", err)
		w.pushError(err)
		return
	}
	w.logger.Info("model rebuilt",
		"path", w.model.Path, "build", build.ID, "elapsed", time.Since(start))

	// Single-slot delivery: displace an unconsumed previous build.
	for {
		select {
		case w.builds <- build:
			return
		default:
			select {
			case <-w.builds:
			default:
			}
		}
	}
}

func (w *Watcher) pushError(err error) {
	for {
		select {
		case w.errs <- err:
			return
		default:
			select {
			case <-w.errs:
			default:
			}
		}
	}
}
