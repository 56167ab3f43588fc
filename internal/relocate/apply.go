package relocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"extrafiles/internal/logging"
	"extrafiles/internal/services"
)

// Failure records an entry the action could not complete.
type Failure struct {
	Entry Entry
	Err   error
}

// Summary tallies the outcome of Apply.
type Summary struct {
	Moved    int
	Failed   int
	Skipped  int
	Failures []Failure
}

// Total returns the number of entries processed.
func (s Summary) Total() int {
	return s.Moved + s.Failed + s.Skipped
}

// Add merges other into s.
func (s *Summary) Add(other Summary) {
	s.Moved += other.Moved
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Failures = append(s.Failures, other.Failures...)
}

// Apply runs action for every entry in order. Each intended transfer is
// logged at debug level before the action runs; failures are logged at error
// level and never stop the remaining entries. A nil action moves files on
// the host filesystem.
func Apply(ctx context.Context, entries []Entry, action Action, logger *slog.Logger) Summary {
	if action == nil {
		action = Mover{FS: afero.NewOsFs()}.Move
	}
	logger = logging.NewComponentLogger(logger, "relocate")

	var summary Summary
	for _, entry := range entries {
		entryCtx := services.WithAlbum(ctx, entry.Album)
		entryLogger := logging.WithContext(entryCtx, logger)
		entryLogger.Debug("relocating extra file",
			logging.String("source", entry.Source),
			logging.String("destination", entry.Destination),
			logging.String("category", entry.Category),
		)

		err := run(entryCtx, action, entry)
		switch {
		case err == nil:
			summary.Moved++
		case errors.Is(err, ErrSkipped):
			summary.Skipped++
			entryLogger.Info("would relocate extra file",
				logging.String("source", entry.Source),
				logging.String("destination", entry.Destination),
			)
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Entry: entry, Err: err})
			logging.ErrorWithContext(entryLogger, "extra file relocation failed", "relocation_failed",
				logging.String("source", entry.Source),
				logging.String("destination", entry.Destination),
				logging.String("error_kind", services.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, failureHint(err)),
			)
		}
	}
	return summary
}

// run isolates a panicking action to its entry.
func run(ctx context.Context, action Action, entry Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrFilesystem, "relocate", "apply", "action panicked", panicError{value: r})
		}
	}()
	return action(ctx, entry)
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrConflict):
		return "remove or rename the existing destination file, then rerun"
	case errors.Is(err, services.ErrNotFound):
		return "the source vanished before it could be moved; rerun to re-scan the album"
	default:
		return "check permissions and free space on the destination filesystem"
	}
}
