package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.Scope = strings.ToLower(strings.TrimSpace(c.Scope))
	if c.Scope == "" {
		c.Scope = defaultScope
	}
	c.Action = NormalizeAction(c.Action)
	if c.Action == "" {
		c.Action = defaultAction
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	if err := c.normalizeWatch(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

// NormalizeAction lowercases an action name and maps the dry-run aliases.
func NormalizeAction(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "dryrun", "dry_run", "pretend":
		return ActionDryRun
	}
	return name
}

func (c *Config) normalizeLibrary() error {
	if value, ok := os.LookupEnv("BEETS_LIBRARY"); ok && strings.TrimSpace(value) != "" {
		if strings.TrimSpace(c.Library.Path) == "" || c.Library.Path == defaultLibraryPath {
			c.Library.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Library.Path, err = expandPath(strings.TrimSpace(c.Library.Path)); err != nil {
		return fmt.Errorf("library.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatch() error {
	lock := strings.TrimSpace(c.Watch.LockPath)
	if lock == "" && c.Library.Path != "" {
		lock = c.Library.Path + lockSuffix
	}
	var err error
	if c.Watch.LockPath, err = expandPath(lock); err != nil {
		return fmt.Errorf("watch.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
