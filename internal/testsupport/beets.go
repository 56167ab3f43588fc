package testsupport

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// BeetsAlbum describes one album row plus its tracks for a fixture library.
type BeetsAlbum struct {
	ID          int64
	AlbumArtist string
	Album       string
	Year        int
	Added       float64
	Items       []string
	Attributes  map[string]string
}

const beetsSchema = `
CREATE TABLE albums (
    id INTEGER PRIMARY KEY,
    artpath BLOB,
    added REAL,
    albumartist TEXT,
    album TEXT,
    genre TEXT,
    year INTEGER,
    disctotal INTEGER,
    comp INTEGER,
    mb_albumid TEXT
);
CREATE TABLE items (
    id INTEGER PRIMARY KEY,
    path BLOB,
    album_id INTEGER,
    title TEXT,
    track INTEGER
);
CREATE TABLE album_attributes (
    id INTEGER PRIMARY KEY,
    entity_id INTEGER,
    key TEXT,
    value TEXT,
    UNIQUE(entity_id, key) ON CONFLICT REPLACE
);
`

// WriteBeetsLibrary creates a beets-shaped SQLite database at path holding
// albums. Item files are not created.
func WriteBeetsLibrary(t testing.TB, path string, albums ...BeetsAlbum) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture library: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(beetsSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	AddBeetsAlbums(t, db, albums...)
}

// AppendBeetsAlbums inserts further albums into an existing fixture library.
func AppendBeetsAlbums(t testing.TB, path string, albums ...BeetsAlbum) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture library: %v", err)
	}
	defer db.Close()
	AddBeetsAlbums(t, db, albums...)
}

// AddBeetsAlbums inserts albums through an open connection.
func AddBeetsAlbums(t testing.TB, db *sql.DB, albums ...BeetsAlbum) {
	t.Helper()

	for _, a := range albums {
		if _, err := db.Exec(
			`INSERT INTO albums (id, artpath, added, albumartist, album, genre, year, disctotal, comp, mb_albumid)
             VALUES (?, NULL, ?, ?, ?, '', ?, 1, 0, ?)`,
			a.ID, a.Added, a.AlbumArtist, a.Album, a.Year, fmt.Sprintf("mbid-%d", a.ID),
		); err != nil {
			t.Fatalf("insert album %d: %v", a.ID, err)
		}
		for i, item := range a.Items {
			if _, err := db.Exec(
				`INSERT INTO items (path, album_id, title, track) VALUES (?, ?, ?, ?)`,
				[]byte(item), a.ID, filepath.Base(item), i+1,
			); err != nil {
				t.Fatalf("insert item %s: %v", item, err)
			}
		}
		for key, value := range a.Attributes {
			if _, err := db.Exec(
				`INSERT INTO album_attributes (entity_id, key, value) VALUES (?, ?, ?)`,
				a.ID, key, value,
			); err != nil {
				t.Fatalf("insert attribute %s: %v", key, err)
			}
		}
	}
}
