package classify

import (
	"log/slog"
	"path/filepath"
	"strings"

	"extrafiles/internal/logging"
	"extrafiles/internal/services"
	"extrafiles/internal/textutil"
)

// Rule associates a category with its ordered patterns.
type Rule struct {
	Category string
	Patterns []string
}

// InvalidPattern is a configured pattern that failed to compile.
type InvalidPattern struct {
	Category string
	Pattern  Pattern
}

type compiledRule struct {
	category string
	patterns []Pattern
}

// Classifier assigns at most one category to a file. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	rules       []compiledRule
	invalid     []InvalidPattern
	unreachable []InvalidPattern
}

// Option adjusts classifier construction.
type Option func(*options)

type options struct {
	globCaseSensitive bool
}

// WithCaseSensitiveGlobs makes glob patterns distinguish letter case, as a
// POSIX shell does.
func WithCaseSensitiveGlobs(enabled bool) Option {
	return func(o *options) { o.globCaseSensitive = enabled }
}

// New compiles rules in the given order. Every pattern that fails to compile
// is logged once as a configuration error; the remaining patterns and
// categories are unaffected.
func New(rules []Rule, logger *slog.Logger, opts ...Option) *Classifier {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger = logging.NewComponentLogger(logger, "classify")
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		compiled := compiledRule{category: rule.Category, patterns: make([]Pattern, 0, len(rule.Patterns))}
		for _, raw := range rule.Patterns {
			p := compile(raw, o.globCaseSensitive)
			if !p.Valid() {
				err := services.Wrap(services.ErrConfiguration, "classify", "compile pattern", "pattern ignored", p.Err)
				logging.ErrorWithContext(logger, "invalid category pattern", "pattern_invalid",
					logging.String("category", rule.Category),
					logging.String("pattern", raw),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "fix the pattern under [patterns] in the config file"),
				)
				c.invalid = append(c.invalid, InvalidPattern{Category: rule.Category, Pattern: p})
			} else if p.Unreachable() {
				logging.WarnWithContext(logger, "glob pattern names a directory and never matches", "pattern_unreachable",
					logging.String("category", rule.Category),
					logging.String("pattern", raw),
					logging.String(logging.FieldErrorHint, `write it as a regex such as scans/.*\.png to match the album-relative path`),
					logging.String(logging.FieldImpact, "files this pattern targets are not classified"),
				)
				c.unreachable = append(c.unreachable, InvalidPattern{Category: rule.Category, Pattern: p})
			}
			compiled.patterns = append(compiled.patterns, p)
		}
		c.rules = append(c.rules, compiled)
	}
	return c
}

// Classify returns the category of the first matching pattern, trying
// categories in configured order. relPath is the file's path relative to the
// album root; OS separators are accepted.
func (c *Classifier) Classify(relPath string) (string, bool) {
	if c == nil {
		return "", false
	}
	name := textutil.NormalizeName(filepath.ToSlash(relPath))
	name = strings.TrimPrefix(name, "./")
	if name == "" {
		return "", false
	}
	for _, rule := range c.rules {
		for _, p := range rule.patterns {
			if p.Match(name) {
				return rule.category, true
			}
		}
	}
	return "", false
}

// ClassifyBytes decodes a raw filesystem path before classifying it.
func (c *Classifier) ClassifyBytes(relPath []byte) (string, bool) {
	return c.Classify(textutil.DecodeName(relPath))
}

// Categories lists the configured categories in evaluation order.
func (c *Classifier) Categories() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		out = append(out, rule.category)
	}
	return out
}

// Invalid returns the patterns that failed to compile.
func (c *Classifier) Invalid() []InvalidPattern {
	if c == nil {
		return nil
	}
	out := make([]InvalidPattern, len(c.invalid))
	copy(out, c.invalid)
	return out
}

// Unreachable returns the glob patterns that name a directory and therefore
// never match a basename.
func (c *Classifier) Unreachable() []InvalidPattern {
	if c == nil {
		return nil
	}
	out := make([]InvalidPattern, len(c.unreachable))
	copy(out, c.unreachable)
	return out
}
