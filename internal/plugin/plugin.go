// Package plugin wires configuration into a classifier, a relocation
// pipeline and an action, and registers the result as a host listener.
package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/spf13/afero"

	"extrafiles/internal/classify"
	"extrafiles/internal/config"
	"extrafiles/internal/host"
	"extrafiles/internal/logging"
	"extrafiles/internal/relocate"
)

// Plugin is built once from configuration and is read-only afterwards apart
// from its run totals.
type Plugin struct {
	classifier *classify.Classifier
	pipeline   *relocate.Pipeline
	action     relocate.Action
	actionName string
	scope      host.Event
	logger     *slog.Logger

	mu     sync.Mutex
	totals relocate.Summary
	runs   int
}

// Rules converts the configured patterns into classifier rules in match
// order.
func Rules(cfg *config.Config) []classify.Rule {
	categories := cfg.Categories()
	rules := make([]classify.Rule, 0, len(categories))
	for _, category := range categories {
		rules = append(rules, classify.Rule{
			Category: category,
			Patterns: append([]string(nil), cfg.Patterns[category]...),
		})
	}
	return rules
}

// New compiles the configured rules and templates. A nil fs uses the host
// filesystem.
func New(cfg *config.Config, fsys afero.Fs, logger *slog.Logger) (*Plugin, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	scope, err := host.ParseEvent(cfg.Scope)
	if err != nil {
		return nil, err
	}
	action, err := relocate.ActionFor(cfg.Action, fsys)
	if err != nil {
		return nil, err
	}
	classifier := classify.New(Rules(cfg), logger, classify.WithCaseSensitiveGlobs(cfg.GlobCaseSensitive))
	return &Plugin{
		classifier: classifier,
		pipeline:   relocate.NewPipeline(fsys, classifier, cfg.Paths, logger),
		action:     action,
		actionName: cfg.Action,
		scope:      scope,
		logger:     logging.NewComponentLogger(logger, "extrafiles"),
	}, nil
}

// Register subscribes the plugin to its configured event only.
func (p *Plugin) Register(d *host.Dispatcher) {
	d.Register(p.scope, p.Handle)
}

// Scope returns the event the plugin listens for.
func (p *Plugin) Scope() host.Event {
	return p.scope
}

// Action returns the normalized action name.
func (p *Plugin) Action() string {
	return p.actionName
}

// Classifier exposes the compiled rules.
func (p *Plugin) Classifier() *classify.Classifier {
	return p.classifier
}

// Pipeline exposes the relocation pipeline.
func (p *Plugin) Pipeline() *relocate.Pipeline {
	return p.pipeline
}

// Plan gathers the entries Handle would act on without touching anything.
func (p *Plugin) Plan(ctx context.Context, albums []relocate.Album) []relocate.Entry {
	return p.pipeline.Gather(ctx, albums)
}

// Handle gathers and applies entries for albums. It is the host listener.
func (p *Plugin) Handle(ctx context.Context, albums []relocate.Album) {
	logger := logging.WithContext(ctx, p.logger)
	entries := p.pipeline.Gather(ctx, albums)
	summary := relocate.Apply(ctx, entries, p.action, logger)

	p.mu.Lock()
	p.totals.Add(summary)
	p.runs++
	p.mu.Unlock()

	attrs := []logging.Attr{
		logging.String("action", p.actionName),
		logging.Int("albums", len(albums)),
		logging.Int("entries", len(entries)),
		logging.Int("moved", summary.Moved),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
	}
	if summary.Failed > 0 {
		logging.WarnWithContext(logger, "extra files relocated with failures", "relocation_incomplete",
			append(attrs,
				logging.String(logging.FieldErrorHint, "see the preceding relocation errors"),
				logging.String(logging.FieldImpact, "some extra files stayed in place"),
			)...,
		)
		return
	}
	if len(entries) == 0 {
		logger.Debug("no extra files to relocate", logging.Args(attrs...)...)
		return
	}
	logger.Info("extra files relocated", logging.Args(attrs...)...)
}

// Totals returns the accumulated summary of every Handle call and the
// number of calls.
func (p *Plugin) Totals() (relocate.Summary, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.totals
	out.Failures = append([]relocate.Failure(nil), p.totals.Failures...)
	return out, p.runs
}
