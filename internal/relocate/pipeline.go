package relocate

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"extrafiles/internal/classify"
	"extrafiles/internal/logging"
	"extrafiles/internal/pathtmpl"
	"extrafiles/internal/services"
)

// Pipeline computes relocation entries. It is read-only after construction.
type Pipeline struct {
	fs         afero.Fs
	classifier *classify.Classifier
	templates  map[string]*pathtmpl.Template
	logger     *slog.Logger
}

// NewPipeline parses the category templates once. A nil fs uses the host
// filesystem.
func NewPipeline(fsys afero.Fs, classifier *classify.Classifier, paths map[string]string, logger *slog.Logger) *Pipeline {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	templates := make(map[string]*pathtmpl.Template, len(paths))
	for category, src := range paths {
		templates[category] = pathtmpl.Parse(src)
	}
	return &Pipeline{
		fs:         fsys,
		classifier: classifier,
		templates:  templates,
		logger:     logging.NewComponentLogger(logger, "relocate"),
	}
}

// Gather returns the entries for every album, one album at a time in the
// given order. Albums without a usable root are skipped.
func (p *Pipeline) Gather(ctx context.Context, albums []Album) []Entry {
	var entries []Entry
	for _, album := range albums {
		entries = append(entries, p.GatherAlbum(ctx, album)...)
	}
	return entries
}

// GatherAlbum walks one album root. Symlinked directories are not followed
// and unreadable subtrees are logged and skipped.
func (p *Pipeline) GatherAlbum(ctx context.Context, album Album) []Entry {
	label := album.Label()
	logger := logging.WithContext(services.WithAlbum(ctx, label), p.logger)

	if album.Root == "" {
		logging.WarnWithContext(logger, "album has no single root directory; skipping", "album_root_missing",
			logging.String(logging.FieldErrorHint, "keep every track of the album in one directory or its disc subfolders"),
			logging.String(logging.FieldImpact, "extra files of this album stay in place"),
		)
		return nil
	}
	info, err := p.fs.Stat(album.Root)
	if err != nil || !info.IsDir() {
		logger.Debug("album root unavailable; skipping",
			logging.String("root", album.Root),
			logging.Error(err),
		)
		return nil
	}

	fields := album.Snapshot()
	var entries []Entry
	walkErr := afero.Walk(p.fs, album.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			logging.WarnWithContext(logger, "skipping unreadable path", "walk_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions under the album directory"),
				logging.String(logging.FieldImpact, "files below this path are not relocated"),
			)
			return nil
		}
		if info.IsDir() || !p.isFile(path, info) {
			return nil
		}
		rel, err := filepath.Rel(album.Root, path)
		if err != nil {
			return nil
		}
		category, ok := p.classifier.Classify(rel)
		if !ok {
			return nil
		}
		destination := p.destination(category, fields, album.Root, path)
		if filepath.Clean(destination) == filepath.Clean(path) {
			logger.Debug("extra file already in place", logging.String("path", path), logging.String("category", category))
			return nil
		}
		entries = append(entries, Entry{
			Source:      path,
			Destination: destination,
			Category:    category,
			Album:       label,
		})
		return nil
	})
	if walkErr != nil {
		logging.WarnWithContext(logger, "album walk aborted", "walk_failed",
			logging.String("root", album.Root),
			logging.Error(walkErr),
		)
	}
	logger.Debug("album gathered", logging.Int("entries", len(entries)))
	return entries
}

// isFile accepts regular files and symlinks that do not resolve to a
// directory.
func (p *Pipeline) isFile(path string, info fs.FileInfo) bool {
	mode := info.Mode()
	if mode.IsRegular() {
		return true
	}
	if mode&os.ModeSymlink == 0 {
		return false
	}
	target, err := p.fs.Stat(path)
	if err != nil {
		return !errors.Is(err, fs.ErrPermission)
	}
	return !target.IsDir()
}

// Destination returns the path a file of the given category under album
// would be relocated to.
func (p *Pipeline) Destination(album Album, category, source string) string {
	return p.destination(category, album.Snapshot(), album.Root, source)
}

func (p *Pipeline) destination(category string, fields map[string]any, root, source string) string {
	return filepath.Join(p.resolveDir(category, fields, root), filepath.Base(source))
}

// ResolveDir returns the destination directory for category. Categories
// without a template resolve to the album root, and relative results are
// taken relative to it.
func (p *Pipeline) ResolveDir(album Album, category string) string {
	return p.resolveDir(category, album.Snapshot(), album.Root)
}

func (p *Pipeline) resolveDir(category string, fields map[string]any, root string) string {
	tmpl, ok := p.templates[category]
	if !ok {
		return root
	}
	dir := tmpl.Substitute(fields)
	switch {
	case dir == "":
		return root
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(root, dir)
	}
}
