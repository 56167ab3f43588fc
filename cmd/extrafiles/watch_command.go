package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"extrafiles/internal/host"
	"extrafiles/internal/logging"
	"extrafiles/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Relocate extra files whenever beets imports albums",
		Long: `Watch monitors the beets library database. After each import settles it
fires album_imported with the new albums and cli_exit with the whole library.
Only one watcher may run per library.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, logger, err := ctx.newPlugin("")
			if err != nil {
				return err
			}
			reader, err := ctx.openLibrary()
			if err != nil {
				return err
			}
			defer reader.Close()

			if !cmd.Flags().Changed("debounce") {
				debounce = time.Duration(cfg.Watch.DebounceSeconds) * time.Second
			}

			sigCtx, stop := signal.NotifyContext(ctx.runContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dispatcher := host.NewDispatcher(logger)
			p.Register(dispatcher)
			watcher := watch.New(watch.Options{
				LibraryPath: reader.Path(),
				LockPath:    cfg.Watch.LockPath,
				Debounce:    debounce,
			}, reader, dispatcher, logging.WithContext(sigCtx, logger))

			if err := watcher.Run(sigCtx); err != nil {
				if watch.IsLocked(err) {
					return fmt.Errorf("watch %s: %w", reader.Path(), err)
				}
				return err
			}

			summary, runs := p.Totals()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Handled %s\n", pluralize(runs, "event", "events"))
			fmt.Fprintln(out, summaryLine(summary, p.Action(), shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period after the last database change (defaults to watch.debounce_seconds)")
	return cmd
}
