package relocate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"extrafiles/internal/fileutil"
	"extrafiles/internal/services"
)

// ErrSkipped marks an entry the action deliberately left alone.
var ErrSkipped = errors.New("entry skipped")

// Action performs the side effect for one entry.
type Action func(ctx context.Context, entry Entry) error

const (
	ActionMove   = "move"
	ActionCopy   = "copy"
	ActionDryRun = "dry-run"
)

// ActionFor returns the named action operating on fsys.
func ActionFor(name string, fsys afero.Fs) (Action, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ActionMove:
		return Mover{FS: fsys}.Move, nil
	case ActionCopy:
		return Copier{FS: fsys}.Copy, nil
	case ActionDryRun:
		return DryRun, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "relocate", "select action", fmt.Sprintf("unknown action %q", name), nil)
	}
}

// Mover physically moves files.
type Mover struct {
	FS afero.Fs
}

// Move relocates entry.Source to entry.Destination, creating parents and
// refusing to replace an existing destination.
func (m Mover) Move(_ context.Context, entry Entry) error {
	if err := fileutil.Move(m.FS, entry.Source, entry.Destination); err != nil {
		return classifyFailure("move", err)
	}
	return nil
}

// Copier copies files and leaves the sources in place.
type Copier struct {
	FS afero.Fs
}

// Copy duplicates entry.Source at entry.Destination.
func (c Copier) Copy(_ context.Context, entry Entry) error {
	if err := fileutil.Copy(c.FS, entry.Source, entry.Destination); err != nil {
		return classifyFailure("copy", err)
	}
	return nil
}

// DryRun changes nothing.
func DryRun(context.Context, Entry) error {
	return ErrSkipped
}

func classifyFailure(operation string, err error) error {
	switch {
	case errors.Is(err, fileutil.ErrDestinationExists):
		return services.Wrap(services.ErrConflict, "relocate", operation, "destination already exists", err)
	case errors.Is(err, fs.ErrNotExist):
		return services.Wrap(services.ErrNotFound, "relocate", operation, "source missing", err)
	default:
		return services.Wrap(services.ErrFilesystem, "relocate", operation, "filesystem operation failed", err)
	}
}
