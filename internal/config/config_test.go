package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"extrafiles/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("EXTRAFILES_CONFIG", "")
	t.Setenv("BEETS_LIBRARY", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "extrafiles", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".config", "beets", "library.db"); cfg.Library.Path != want {
		t.Fatalf("unexpected library path: %q", cfg.Library.Path)
	}
	if cfg.Watch.LockPath != cfg.Library.Path+".extrafiles.lock" {
		t.Fatalf("unexpected lock path: %q", cfg.Watch.LockPath)
	}
	if cfg.Scope != config.ScopeCLIExit || cfg.Action != config.ActionMove {
		t.Fatalf("unexpected scope/action: %q %q", cfg.Scope, cfg.Action)
	}
	if got := cfg.Categories(); !reflect.DeepEqual(got, []string{"booklet", "log", "cue", "cover"}) {
		t.Fatalf("unexpected default category order: %v", got)
	}
	for _, category := range cfg.Categories() {
		if cfg.Paths[category] != "$albumpath/extra/" {
			t.Fatalf("unexpected default template for %s: %q", category, cfg.Paths[category])
		}
	}
}

func TestLoadUsesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	configPath := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("action = \"copy\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EXTRAFILES_CONFIG", configPath)
	t.Setenv("BEETS_LIBRARY", filepath.Join(dir, "beets.db"))

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected env config path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Action != config.ActionCopy {
		t.Fatalf("expected action from file, got %q", cfg.Action)
	}
	if cfg.Library.Path != filepath.Join(dir, "beets.db") {
		t.Fatalf("expected library path from env, got %q", cfg.Library.Path)
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EXTRAFILES_CONFIG", "")
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("extrafiles.toml", []byte("scope = \"album_imported\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "extrafiles.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Scope != config.ScopeAlbumImported {
		t.Fatalf("expected album_imported scope, got %q", cfg.Scope)
	}
}

func TestParsePreservesPatternOrder(t *testing.T) {
	data := []byte(`
[patterns]
scans = ["scans/"]
cover = ["*cover*.jpg", "folder.*"]
artwork = "*.png"
booklet = ['^.*\.pdf$']

[paths]
scans = "$albumpath/scans"
`)
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"scans", "cover", "artwork", "booklet"}
	if got := cfg.Categories(); !reflect.DeepEqual(got, want) {
		t.Fatalf("category order = %v, want %v", got, want)
	}
	if got := cfg.Patterns["cover"]; !reflect.DeepEqual(got, []string{"*cover*.jpg", "folder.*"}) {
		t.Fatalf("unexpected cover patterns: %v", got)
	}
	if got := cfg.Patterns["artwork"]; !reflect.DeepEqual(got, []string{"*.png"}) {
		t.Fatalf("expected single string to become a list, got %v", got)
	}
	if _, ok := cfg.Patterns["log"]; ok {
		t.Fatal("user patterns should replace the defaults")
	}
	if cfg.Paths["scans"] != "$albumpath/scans" {
		t.Fatalf("unexpected scans template: %q", cfg.Paths["scans"])
	}
	if cfg.Paths["booklet"] != "$albumpath/extra/" {
		t.Fatalf("default paths should remain available, got %q", cfg.Paths["booklet"])
	}
}

func TestParseOrderWithDottedAndInlineTables(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "dotted keys",
			data: "patterns.zeta = [\"z*\"]\npatterns.alpha = [\"a*\"]\n",
			want: []string{"zeta", "alpha"},
		},
		{
			name: "inline table",
			data: "patterns = { zeta = [\"z*\"], alpha = [\"a*\"] }\n",
			want: []string{"zeta", "alpha"},
		},
		{
			name: "quoted keys",
			data: "[patterns]\n\"zeta z\" = [\"z*\"]\n'alpha' = [\"a*\"]\n",
			want: []string{"zeta z", "alpha"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if got := cfg.Categories(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("category order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"scope":         "scope = \"import_task_files\"\n",
		"action":        "action = \"delete\"\n",
		"pattern type":  "[patterns]\ncover = [1, 2]\n",
		"log format":    "[logging]\nformat = \"xml\"\n",
		"log level":     "[logging]\nlevel = \"chatty\"\n",
		"debounce":      "[watch]\ndebounce_seconds = -1\n",
		"syntax":        "[patterns\n",
		"empty pattern": "[patterns]\n\"\" = [\"x\"]\n",
		"sub table":     "[patterns.zeta]\nx = 1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(data)); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}
}

func TestParseNormalizesActionAliases(t *testing.T) {
	cfg, err := config.Parse([]byte("action = \"Pretend\"\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Action != config.ActionDryRun {
		t.Fatalf("expected dry-run, got %q", cfg.Action)
	}
}

func TestParseKeepsInvalidRegexForClassifier(t *testing.T) {
	cfg, err := config.Parse([]byte("[patterns]\nbroken = [\"(unbalanced\"]\n"))
	if err != nil {
		t.Fatalf("invalid regex must not fail config load: %v", err)
	}
	if got := cfg.Patterns["broken"]; len(got) != 1 || got[0] != "(unbalanced" {
		t.Fatalf("unexpected patterns: %v", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	var decoded map[string]any
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	cfg, err := config.Parse([]byte(config.SampleConfig()))
	if err != nil {
		t.Fatalf("Parse sample returned error: %v", err)
	}
	defaults := config.Default()
	if !reflect.DeepEqual(cfg.Categories(), defaults.Categories()) {
		t.Fatalf("sample categories %v differ from defaults %v", cfg.Categories(), defaults.Categories())
	}
	if !reflect.DeepEqual(cfg.Patterns, defaults.Patterns) {
		t.Fatalf("sample patterns %v differ from defaults %v", cfg.Patterns, defaults.Patterns)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[patterns]") {
		t.Fatalf("sample missing patterns table: %s", data)
	}
}

func TestEnsureDirectoriesCreatesParents(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(base, "logs", "extrafiles.log")
	cfg.Watch.LockPath = filepath.Join(base, "run", "watch.lock")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"logs", "run"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory, err=%v", dir, err)
		}
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestSetRulesRecordsOrder(t *testing.T) {
	cfg := config.Default()
	err := cfg.SetRules([]string{"scans", "log"}, map[string][]string{
		"log":   {"*.log"},
		"scans": {"scans/"},
	}, map[string]string{"scans": "$albumpath/scans"})
	if err != nil {
		t.Fatalf("SetRules returned error: %v", err)
	}
	if got := cfg.Categories(); !reflect.DeepEqual(got, []string{"scans", "log"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if cfg.Paths["scans"] != "$albumpath/scans" || cfg.Paths["log"] != "$albumpath/extra/" {
		t.Fatalf("unexpected paths %v", cfg.Paths)
	}

	if err := cfg.SetRules([]string{"log"}, map[string][]string{"log": nil, "cue": nil}, nil); err == nil {
		t.Fatal("expected error when order misses a category")
	}
	if err := cfg.SetRules([]string{"log", "log"}, map[string][]string{"log": nil, "cue": nil}, nil); err == nil {
		t.Fatal("expected error for duplicate category")
	}
}
