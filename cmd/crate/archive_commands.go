package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crate/internal/api"
	"crate/internal/config"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <archive-path>",
		Short: "Write the catalog and cached assets to a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				stats, err := svc.Export(cmd.Context(), target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows and %d assets to %s\n",
					stats.Rows.Total(), stats.Assets, target)
				return nil
			})
		},
	}
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <archive-path>",
		Short: "Replace the catalog with an exported archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				stats, err := svc.Import(cmd.Context(), source)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d rows, merged %d assets\n", stats.RowsInserted, stats.AssetsMerged)
				if stats.RowsFailed > 0 {
					fmt.Fprintf(out, "Skipped %d rows that failed to insert; see the log for details\n", stats.RowsFailed)
				}
				return nil
			})
		},
	}
	return cmd
}

func newEraseCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Delete every row from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("erase deletes the entire catalog; re-run with --yes to confirm")
			}

			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				counts, err := svc.Erase(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Erased %d rows (%d tracks, %d albums, %d artists, %d composers, %d ads)\n",
					counts.Total(), counts.Tracks, counts.Albums, counts.Artists, counts.Composers, counts.Ads)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm catalog deletion")
	return cmd
}
