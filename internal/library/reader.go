package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"extrafiles/internal/relocate"
	"extrafiles/internal/services"
	"extrafiles/internal/textutil"
)

// Reader is a read-only view of a beets library.
type Reader struct {
	db   *sql.DB
	path string
}

// Query narrows the albums returned by Albums. The zero value selects every
// album.
type Query struct {
	IDs        []int64
	AddedAfter float64
}

// Open connects to the beets database at path. The file must already exist.
func Open(path string) (*Reader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "library", "open", "library.path is not set", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "library", "open", fmt.Sprintf("beets library %s does not exist", path), err)
		}
		return nil, services.Wrap(services.ErrFilesystem, "library", "open", "stat beets library", err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "library", "open", fmt.Sprintf("%s is a directory", path), nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return &Reader{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the database file path.
func (r *Reader) Path() string {
	return r.path
}

// Albums returns the albums matching q ordered by id.
func (r *Reader) Albums(ctx context.Context, q Query) ([]relocate.Album, error) {
	where, args := q.clause()
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM albums"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "query albums", "read beets albums", err)
	}
	albums, err := scanAlbums(rows)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "scan albums", "read beets albums", err)
	}
	if len(albums) == 0 {
		return albums, nil
	}

	ids := make([]int64, len(albums))
	for i, a := range albums {
		ids[i] = a.ID
	}
	roots, err := r.albumRoots(ctx, ids)
	if err != nil {
		return nil, err
	}
	attrs, err := r.attributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range albums {
		albums[i].Root = roots[albums[i].ID]
		for key, value := range attrs[albums[i].ID] {
			if _, fixed := albums[i].Fields[key]; !fixed {
				albums[i].Fields[key] = value
			}
		}
	}
	return albums, nil
}

// LatestAdded returns the largest albums.added timestamp, or zero for an
// empty library.
func (r *Reader) LatestAdded(ctx context.Context) (float64, error) {
	var latest sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(added) FROM albums").Scan(&latest); err != nil {
		return 0, services.Wrap(services.ErrFilesystem, "library", "latest added", "read beets albums", err)
	}
	return latest.Float64, nil
}

func (q Query) clause() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(q.IDs) > 0 {
		conds = append(conds, "id IN ("+placeholders(len(q.IDs))+")")
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}
	if q.AddedAfter > 0 {
		conds = append(conds, "added > ?")
		args = append(args, q.AddedAfter)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAlbums(rows *sql.Rows) ([]relocate.Album, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var albums []relocate.Album
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		album := relocate.Album{Fields: make(map[string]any, len(columns))}
		for i, column := range columns {
			value := fieldValue(values[i])
			if column == "id" {
				if id, ok := value.(int64); ok {
					album.ID = id
				}
			}
			if value != nil {
				album.Fields[column] = value
			}
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// fieldValue normalizes driver values to the kinds templates understand.
// beets stores paths as blobs.
func fieldValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return textutil.DecodeName(t)
	case string:
		return textutil.NormalizeName(t)
	case int64, float64, bool:
		return t
	case nil:
		return nil
	default:
		return fmt.Sprint(t)
	}
}

func (r *Reader) albumRoots(ctx context.Context, ids []int64) (map[int64]string, error) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT album_id, path FROM items WHERE album_id IN ("+placeholders(len(ids))+") ORDER BY album_id, id", args...)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "query items", "read beets items", err)
	}
	defer rows.Close()

	dirs := make(map[int64][]string, len(ids))
	for rows.Next() {
		var (
			albumID int64
			raw     any
		)
		if err := rows.Scan(&albumID, &raw); err != nil {
			return nil, services.Wrap(services.ErrFilesystem, "library", "scan items", "read beets items", err)
		}
		path := pathValue(raw)
		if path == "" {
			continue
		}
		dirs[albumID] = append(dirs[albumID], parentDir(path))
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "scan items", "read beets items", err)
	}

	roots := make(map[int64]string, len(dirs))
	for id, list := range dirs {
		roots[id] = CommonRoot(list)
	}
	return roots, nil
}

func (r *Reader) attributes(ctx context.Context, ids []int64) (map[int64]map[string]string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'album_attributes'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "query attributes", "inspect beets schema", err)
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT entity_id, key, value FROM album_attributes WHERE entity_id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "query attributes", "read beets attributes", err)
	}
	defer rows.Close()

	out := make(map[int64]map[string]string)
	for rows.Next() {
		var (
			id    int64
			key   string
			value any
		)
		if err := rows.Scan(&id, &key, &value); err != nil {
			return nil, services.Wrap(services.ErrFilesystem, "library", "scan attributes", "read beets attributes", err)
		}
		if out[id] == nil {
			out[id] = map[string]string{}
		}
		out[id][key] = pathValue(value)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "library", "scan attributes", "read beets attributes", err)
	}
	return out, nil
}

func pathValue(v any) string {
	switch t := v.(type) {
	case []byte:
		return textutil.DecodeName(t)
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
