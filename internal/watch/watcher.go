package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"extrafiles/internal/host"
	"extrafiles/internal/library"
	"extrafiles/internal/logging"
	"extrafiles/internal/relocate"
	"extrafiles/internal/services"
)

// Lister is the part of the library reader the watcher needs.
type Lister interface {
	Albums(ctx context.Context, q library.Query) ([]relocate.Album, error)
	LatestAdded(ctx context.Context) (float64, error)
}

// Options configures a Watcher.
type Options struct {
	LibraryPath string
	LockPath    string
	Debounce    time.Duration
}

// Watcher turns library database changes into host events.
type Watcher struct {
	opts       Options
	lister     Lister
	dispatcher *host.Dispatcher
	logger     *slog.Logger

	watermark float64
	primed    bool

	timerMu sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// New returns a watcher. Call Run to start it.
func New(opts Options, lister Lister, dispatcher *host.Dispatcher, logger *slog.Logger) *Watcher {
	if opts.LockPath == "" && opts.LibraryPath != "" {
		opts.LockPath = opts.LibraryPath + ".extrafiles.lock"
	}
	return &Watcher{
		opts:       opts,
		lister:     lister,
		dispatcher: dispatcher,
		logger:     logging.NewComponentLogger(logger, "watch"),
		trigger:    make(chan struct{}, 1),
	}
}

// Run blocks until ctx is cancelled. A scan already in progress finishes
// before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	lock := flock.New(w.opts.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "watch", "acquire lock", w.opts.LockPath, err)
	}
	if !ok {
		return services.Wrap(services.ErrConflict, "watch", "acquire lock", "another extrafiles watcher is already running for this library", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	if err := w.Prime(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "watch", "create watcher", "", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.opts.LibraryPath)
	if err := fsw.Add(dir); err != nil {
		return services.Wrap(services.ErrFilesystem, "watch", "watch directory", dir, err)
	}
	defer w.stopTimer()

	w.logger.Info("watching beets library",
		logging.String("library", w.opts.LibraryPath),
		logging.String("lock", w.opts.LockPath),
		logging.Duration("debounce", w.opts.Debounce),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "library watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "an import may be picked up late"),
			)
		case <-w.trigger:
			if _, err := w.Scan(context.WithoutCancel(ctx)); err != nil {
				logging.ErrorWithContext(w.logger, "library scan failed", "scan_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check that the beets library is readable"),
				)
			}
		}
	}
}

// Prime records the newest album already in the library so only later
// imports are replayed.
func (w *Watcher) Prime(ctx context.Context) error {
	latest, err := w.lister.LatestAdded(ctx)
	if err != nil {
		return err
	}
	w.watermark = latest
	w.primed = true
	return nil
}

// Scan fires album_imported for albums added since the previous scan and
// then cli_exit for the whole library. It returns the number of new albums.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	if !w.primed {
		if err := w.Prime(ctx); err != nil {
			return 0, err
		}
	}
	fresh, err := w.lister.Albums(ctx, library.Query{AddedAfter: w.watermark})
	if err != nil {
		return 0, err
	}
	if len(fresh) == 0 {
		w.logger.Debug("library changed without new albums")
		return 0, nil
	}
	for _, album := range fresh {
		if added, ok := album.Fields["added"].(float64); ok && added > w.watermark {
			w.watermark = added
		}
	}
	w.logger.Info("new albums imported", logging.Int("albums", len(fresh)))

	w.dispatcher.Fire(ctx, host.EventAlbumImported, fresh)

	all, err := w.lister.Albums(ctx, library.Query{})
	if err != nil {
		return len(fresh), fmt.Errorf("list library albums: %w", err)
	}
	w.dispatcher.Fire(ctx, host.EventCLIExit, all)
	return len(fresh), nil
}

// relevant reports whether event touches the database or its journal.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(w.opts.LibraryPath)
	name := filepath.Base(event.Name)
	if name == base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, base)
	return ok && (suffix == "-wal" || suffix == "-journal")
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// IsLocked reports whether err came from another watcher holding the lock.
func IsLocked(err error) bool {
	return errors.Is(err, services.ErrConflict)
}
