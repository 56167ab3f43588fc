package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"extrafiles/internal/config"
	"extrafiles/internal/logging"
	"extrafiles/internal/plugin"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set library.path (or export BEETS_LIBRARY) if your beets library is not in the default location.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file and patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if ctx.configSeen {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Scope: %s\n", cfg.Scope)
			fmt.Fprintf(out, "Action: %s\n", cfg.Action)
			fmt.Fprintf(out, "Library: %s\n", cfg.Library.Path)

			// Invalid patterns are reported below rather than logged.
			p, err := plugin.New(cfg, nil, logging.NewNop())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(cfg.Patterns))
			for _, category := range p.Classifier().Categories() {
				destination := strings.TrimSpace(cfg.Paths[category])
				if destination == "" {
					destination = "(album root)"
				}
				rows = append(rows, []string{category, fmt.Sprint(len(cfg.Patterns[category])), destination})
			}
			format, err := resolveFormat(out, formatAuto)
			if err != nil {
				return err
			}
			writeRows(out, format, []string{"Category", "Patterns", "Destination"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft})

			for _, dead := range p.Classifier().Unreachable() {
				fmt.Fprintf(out, "Warning: glob in %s never matches: %q names a directory but globs only see file names\n",
					dead.Category, dead.Pattern.Raw)
			}

			invalid := p.Classifier().Invalid()
			if len(invalid) > 0 {
				for _, bad := range invalid {
					fmt.Fprintf(out, "Invalid pattern in %s: %q: %v\n", bad.Category, bad.Pattern.Raw, bad.Pattern.Err)
				}
				return fmt.Errorf("configuration has %s", pluralize(len(invalid), "invalid pattern", "invalid patterns"))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
