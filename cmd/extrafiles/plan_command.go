package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"extrafiles/internal/fileutil"
	"extrafiles/internal/relocate"
)

const (
	planStatusOK       = "ok"
	planStatusExists   = "exists"
	planStatusReadOnly = "read-only"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var albumIDs []int64
	var format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where extra files would be relocated without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			resolved, err := resolveFormat(out, format)
			if err != nil {
				return err
			}
			p, _, err := ctx.newPlugin("")
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
			entries := p.Plan(runCtx, albums)
			if len(entries) == 0 {
				fmt.Fprintln(out, "No extra files to relocate")
				return nil
			}

			fsys := afero.NewOsFs()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Album,
					entry.Category,
					entry.Source,
					entry.Destination,
					planStatus(fsys, entry),
				})
			}
			writeRows(out, resolved, []string{"Album", "Category", "Source", "Destination", "Status"}, rows, nil)
			if resolved == formatTable {
				fmt.Fprintln(out, pluralize(len(entries), "extra file", "extra files"))
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVarP(&albumIDs, "album", "a", nil, "Limit the plan to these beets album IDs")
	cmd.Flags().StringVar(&format, "format", formatAuto, "Output format: auto, table or plain")
	return cmd
}

// planStatus predicts the outcome of moving entry: an existing destination
// is refused, and the nearest existing ancestor must be writable.
func planStatus(fsys afero.Fs, entry relocate.Entry) string {
	if exists, err := fileutil.Exists(fsys, entry.Destination); err == nil && exists {
		return planStatusExists
	}
	dir := filepath.Dir(entry.Destination)
	for {
		if exists, err := fileutil.Exists(fsys, dir); err == nil && exists {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if !fileutil.Writable(dir) {
		return planStatusReadOnly
	}
	return planStatusOK
}
