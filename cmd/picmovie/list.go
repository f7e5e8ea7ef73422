package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pic-tools/picmovie/internal/locate"
	"github.com/pic-tools/picmovie/pkg/log"
)

// newListCmd builds the "list" subcommand: a table of every snapshot
// series discovered under the simulation directory.
func newListCmd(simDir *string, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshot series under the simulation directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := locate.New(*simDir, logger).List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no snapshot series under %s\n", *simDir)
				return nil
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"KIND", "ID", "SLICE", "SNAPSHOTS", "DIRECTORY"})
			for _, info := range infos {
				tw.AppendRow(table.Row{
					string(info.Quantity.Kind),
					info.Quantity.ID,
					string(info.Slice),
					strconv.Itoa(info.Snapshots),
					info.Dir,
				})
			}
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			})

			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
