package testsupport

import (
	"path/filepath"
	"testing"

	"extrafiles/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose library database, lock file and log
// file live in a unique temp directory per test. It applies any provided
// options after the defaults.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Library.Path = filepath.Join(base, "library.db")
	cfgVal.Watch.LockPath = filepath.Join(base, "library.db.extrafiles.lock")
	cfgVal.Watch.DebounceSeconds = 0
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAction sets the relocation action.
func WithAction(action string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Action = action
	}
}

// WithScope sets the host event scope.
func WithScope(scope string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scope = scope
	}
}

// WithRules replaces the category rules. Categories keep the order given.
func WithRules(categories []string, patterns map[string][]string, paths map[string]string) ConfigOption {
	return func(b *configBuilder) {
		if err := b.cfg.SetRules(categories, patterns, paths); err != nil {
			b.t.Fatalf("set rules: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Library.Path)
}
