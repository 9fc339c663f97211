package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crate/internal/api"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var skipAssets bool

	cmd := &cobra.Command{
		Use:   "ingest [feed-url]",
		Short: "Fetch the feed and ingest its records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedURL := ""
			if len(args) == 1 {
				feedURL = args[0]
			}

			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				stats, err := svc.Ingest(cmd.Context(), feedURL)
				if err != nil {
					return err
				}
				if !skipAssets {
					drainQueue(cmd.Context(), svc)
				}

				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s complete\n", stats.RunID)
				fmt.Fprint(out, renderTable(
					[]string{"New Tracks", "Existing Tracks", "Ads", "Skipped"},
					[][]string{{
						fmt.Sprintf("%d", stats.TracksNew),
						fmt.Sprintf("%d", stats.TracksExisting),
						fmt.Sprintf("%d", stats.AdsProcessed),
						fmt.Sprintf("%d", stats.RecordsSkipped),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
				)+"\n")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit run statistics as JSON")
	cmd.Flags().BoolVar(&skipAssets, "skip-assets", false, "Exit without waiting for cover-art downloads")
	return cmd
}
