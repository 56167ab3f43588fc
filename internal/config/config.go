package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Library locates the beets library database.
type Library struct {
	Path string `toml:"path"`
}

// Watch configures the import watcher.
type Watch struct {
	DebounceSeconds int    `toml:"debounce_seconds"`
	LockPath        string `toml:"lock_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for extrafiles.
//
// Configuration sections:
//   - Scope: host event the plugin listens for (cli_exit or album_imported)
//   - Action: what happens to gathered entries (move, copy or dry-run)
//   - Patterns: category to ordered pattern list; replaces the defaults when present
//   - Paths: category to destination template; merged over the defaults
//   - Library: beets library database location
//   - Watch: import watcher debounce and lock file
//   - Logging: log format, level and optional file
type Config struct {
	Scope             string              `toml:"scope"`
	Action            string              `toml:"action"`
	GlobCaseSensitive bool                `toml:"glob_case_sensitive"`
	Patterns          map[string][]string `toml:"-"`
	Paths             map[string]string   `toml:"paths"`
	Library           Library             `toml:"library"`
	Watch             Watch               `toml:"watch"`
	Logging           Logging             `toml:"logging"`

	order []string
}

type patternTable struct {
	Patterns map[string]any `toml:"patterns"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/extrafiles/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Parse decodes configuration from TOML data on top of the defaults, then
// normalizes and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decode(data []byte) error {
	basePaths := c.Paths
	c.Paths = nil
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if c.Paths == nil {
		c.Paths = make(map[string]string, len(basePaths))
	}
	for category, template := range basePaths {
		if _, ok := c.Paths[category]; !ok {
			c.Paths[category] = template
		}
	}

	var table patternTable
	if err := toml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if table.Patterns == nil {
		return nil
	}

	patterns := make(map[string][]string, len(table.Patterns))
	for category, value := range table.Patterns {
		list, err := stringSeq(value)
		if err != nil {
			return fmt.Errorf("patterns.%s: %w", category, err)
		}
		patterns[category] = list
	}
	order, err := patternOrder(data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.Patterns = patterns
	c.order = order
	return nil
}

// stringSeq accepts either a single pattern string or a list of them.
func stringSeq(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or list of strings, got %T", value)
	}
}

// Categories returns the configured categories in match order. Categories
// added to Patterns programmatically follow the file order, sorted by name.
func (c *Config) Categories() []string {
	seen := make(map[string]struct{}, len(c.Patterns))
	out := make([]string, 0, len(c.Patterns))
	for _, category := range c.order {
		if _, ok := c.Patterns[category]; !ok {
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	var rest []string
	for category := range c.Patterns {
		if _, ok := seen[category]; !ok {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// SetRules replaces the category patterns and records their match order.
// order must list every key of patterns exactly once. paths entries are
// merged over the current templates.
func (c *Config) SetRules(order []string, patterns map[string][]string, paths map[string]string) error {
	if len(order) != len(patterns) {
		return fmt.Errorf("rules: order lists %d categories, patterns has %d", len(order), len(patterns))
	}
	seen := make(map[string]struct{}, len(order))
	for _, category := range order {
		if _, ok := patterns[category]; !ok {
			return fmt.Errorf("rules: category %q has no patterns", category)
		}
		if _, dup := seen[category]; dup {
			return fmt.Errorf("rules: category %q listed twice", category)
		}
		seen[category] = struct{}{}
	}
	c.Patterns = make(map[string][]string, len(patterns))
	for category, list := range patterns {
		c.Patterns[category] = append([]string(nil), list...)
	}
	c.order = append([]string(nil), order...)
	if c.Paths == nil {
		c.Paths = make(map[string]string, len(paths))
	}
	for category, template := range paths {
		c.Paths[category] = template
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("EXTRAFILES_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("extrafiles.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories holding the log file and the
// watcher lock file.
func (c *Config) EnsureDirectories() error {
	for _, file := range []string{c.Logging.File, c.Watch.LockPath} {
		if strings.TrimSpace(file) == "" {
			continue
		}
		dir := filepath.Dir(file)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
