package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"poselabel/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the stored labels per video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summaries []store.VideoSummary
			if err := ctx.withStore(func(st *store.Store) error {
				var sumErr error
				summaries, sumErr = st.Summary(cmd.Context())
				return sumErr
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No labels stored. Run 'poselabel import' first.")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{
					summary.Filename,
					strconv.Itoa(summary.Frames),
					strconv.Itoa(summary.Instances),
					strconv.Itoa(summary.Points),
				})
			}
			table := renderTable(
				[]string{"Video", "Frames", "Instances", "Points"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}
}
