package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	var albumIDs []int64
	var format string

	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List beets albums and their root directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			resolved, err := resolveFormat(out, format)
			if err != nil {
				return err
			}
			reader, err := ctx.openLibrary()
			if err != nil {
				return err
			}
			defer reader.Close()

			albums, err := selectAlbums(cmd.Context(), reader, albumIDs)
			if err != nil {
				return err
			}
			if len(albums) == 0 {
				fmt.Fprintln(out, "Library has no albums")
				return nil
			}
			rows := make([][]string, 0, len(albums))
			for _, album := range albums {
				root := album.Root
				if root == "" {
					root = "(no items)"
				}
				rows = append(rows, []string{strconv.FormatInt(album.ID, 10), album.Label(), root})
			}
			writeRows(out, resolved, []string{"ID", "Album", "Root"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft})
			return nil
		},
	}

	cmd.Flags().Int64SliceVarP(&albumIDs, "album", "a", nil, "Only show these beets album IDs")
	cmd.Flags().StringVar(&format, "format", formatAuto, "Output format: auto, table or plain")
	return cmd
}
