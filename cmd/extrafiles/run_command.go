package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"extrafiles/internal/config"
	"extrafiles/internal/host"
	"extrafiles/internal/library"
	"extrafiles/internal/logging"
	"extrafiles/internal/relocate"
	"extrafiles/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var albumIDs []int64
	var action string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Relocate extra files for the library once",
		Long: `Run acts as the beets host for one command: it fires album_imported with the
selected albums and then cli_exit with the same albums. The plugin reacts to
whichever event the scope setting names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				action = config.ActionDryRun
			}
			p, logger, err := ctx.newPlugin(action)
			if err != nil {
				return err
			}
			reader, err := ctx.openLibrary()
			if err != nil {
				return err
			}
			defer reader.Close()

			runCtx := ctx.runContext(cmd)
			albums, err := selectAlbums(runCtx, reader, albumIDs)
			if err != nil {
				return err
			}
			logging.WithContext(runCtx, logger).Debug("starting relocation run",
				logging.Int("albums", len(albums)),
				logging.String("scope", string(p.Scope())),
				logging.String("action", p.Action()),
			)

			dispatcher := host.NewDispatcher(logger)
			p.Register(dispatcher)
			dispatcher.Fire(runCtx, host.EventAlbumImported, albums)
			dispatcher.Fire(runCtx, host.EventCLIExit, albums)

			summary, _ := p.Totals()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summaryLine(summary, p.Action(), shouldColorize(out)))
			writeFailures(out, summary.Failures)
			return nil
		},
	}

	cmd.Flags().Int64SliceVarP(&albumIDs, "album", "a", nil, "Limit the run to these beets album IDs")
	cmd.Flags().StringVar(&action, "action", "", "Override the configured action (move, copy, dry-run)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Log what would be relocated without touching files")
	return cmd
}

// selectAlbums reads the requested albums, or every album when ids is empty.
// Unknown IDs are an error.
func selectAlbums(ctx context.Context, reader *library.Reader, ids []int64) ([]relocate.Album, error) {
	albums, err := reader.Albums(ctx, library.Query{IDs: ids})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return albums, nil
	}
	found := make(map[int64]struct{}, len(albums))
	for _, album := range albums {
		found[album.ID] = struct{}{}
	}
	var missing []string
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrNotFound, "library", "select albums",
			"no album with id "+strings.Join(missing, ", "), nil)
	}
	return albums, nil
}
