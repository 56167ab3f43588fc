package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"extrafiles/internal/testsupport"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	libraryPath string
	lockPath    string
	albumRoot   string
}

var albumExtras = []string{"cover.jpg", "rip.log", "booklet.pdf", "notes.txt"}

// setupCLITestEnv writes a config, a beets library with one album and the
// album's files into a temp dir.
func setupCLITestEnv(t *testing.T, extraConfig string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BEETS_LIBRARY", "")
	t.Setenv("EXTRAFILES_CONFIG", "")

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.toml"),
		libraryPath: filepath.Join(base, "beets", "library.db"),
		lockPath:    filepath.Join(base, "beets", "library.db.lock"),
		albumRoot:   filepath.Join(base, "music", "Artist", "Album"),
	}
	tracks := testsupport.WriteAlbumTree(t, env.albumRoot, "01 Intro.flac", "02 Song.flac")
	testsupport.WriteAlbumTree(t, env.albumRoot, albumExtras...)
	testsupport.WriteBeetsLibrary(t, env.libraryPath, testsupport.BeetsAlbum{
		ID:          1,
		AlbumArtist: "Artist",
		Album:       "Album",
		Year:        2001,
		Added:       1000,
		Items:       tracks,
	})

	content := fmt.Sprintf("[library]\npath = %q\n\n[watch]\nlock_path = %q\ndebounce_seconds = 0\n\n[logging]\nlevel = \"error\"\n",
		env.libraryPath, env.lockPath)
	if extraConfig != "" {
		content = extraConfig + "\n" + content
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) addAlbum(t *testing.T, id int64, artist, title string, files ...string) string {
	t.Helper()
	root := filepath.Join(e.baseDir, "music", artist, title)
	tracks := testsupport.WriteAlbumTree(t, root, "01 Track.flac")
	testsupport.WriteAlbumTree(t, root, files...)
	testsupport.AppendBeetsAlbums(t, e.libraryPath, testsupport.BeetsAlbum{
		ID:          id,
		AlbumArtist: artist,
		Album:       title,
		Added:       float64(1000 + id),
		Items:       tracks,
	})
	return root
}

// writeExtra creates a file relative to the default album root.
func (e *cliTestEnv) writeExtra(t *testing.T, rel string) string {
	t.Helper()
	return testsupport.WriteAlbumTree(t, e.albumRoot, rel)[0]
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func requireExists(t *testing.T, path string, want bool) {
	t.Helper()
	if got := testsupport.Exists(t, path); got != want {
		t.Fatalf("exists(%s) = %v, want %v", path, got, want)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
