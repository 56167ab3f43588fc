package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScope(); err != nil {
		return err
	}
	if err := c.validateAction(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScope() error {
	switch c.Scope {
	case ScopeCLIExit, ScopeAlbumImported:
		return nil
	default:
		return fmt.Errorf("scope: unsupported value %q (want %s or %s)", c.Scope, ScopeCLIExit, ScopeAlbumImported)
	}
}

func (c *Config) validateAction() error {
	switch c.Action {
	case ActionMove, ActionCopy, ActionDryRun:
		return nil
	default:
		return fmt.Errorf("action: unsupported value %q (want %s, %s or %s)", c.Action, ActionMove, ActionCopy, ActionDryRun)
	}
}

// validateCategories checks names only. Pattern syntax errors are reported by
// the classifier and never fail a load.
func (c *Config) validateCategories() error {
	for category := range c.Patterns {
		if strings.TrimSpace(category) == "" {
			return errors.New("patterns: category names must not be empty")
		}
	}
	for category, template := range c.Paths {
		if strings.TrimSpace(category) == "" {
			return errors.New("paths: category names must not be empty")
		}
		if strings.ContainsRune(template, 0) {
			return fmt.Errorf("paths.%s: template must not contain NUL", category)
		}
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceSeconds < 0 {
		return errors.New("watch.debounce_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
