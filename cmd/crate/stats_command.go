package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crate/internal/api"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog row counts and queue state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, renderTable(
					[]string{"Collection", "Rows"},
					[][]string{
						{"Tracks", fmt.Sprintf("%d", stats.Counts.Tracks)},
						{"Albums", fmt.Sprintf("%d", stats.Counts.Albums)},
						{"Artists", fmt.Sprintf("%d", stats.Counts.Artists)},
						{"Composers", fmt.Sprintf("%d", stats.Counts.Composers)},
						{"Ads", fmt.Sprintf("%d", stats.Counts.Ads)},
						{"Total", fmt.Sprintf("%d", stats.Counts.Total())},
					},
					[]columnAlignment{alignLeft, alignRight},
				)+"\n")
				fmt.Fprintf(out, "Cover-art queue: %d pending, draining=%v\n", stats.Queue.Pending, stats.Queue.Draining)
				fmt.Fprintf(out, "Albums missing cover art: %d\n", stats.MissingCovers)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit statistics as JSON")
	return cmd
}
