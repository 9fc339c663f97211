package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crate/internal/api"
)

func newRepairCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Re-download cover art for albums missing a cached image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(svc *api.Service) error {
				accepted, err := svc.RequeueMissingCovers(cmd.Context())
				if err != nil {
					return err
				}
				drainQueue(cmd.Context(), svc)

				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Re-queued %d cover-art downloads\n", accepted)
				fmt.Fprintf(out, "Albums still missing cover art: %d\n", stats.MissingCovers)
				return nil
			})
		},
	}
	return cmd
}
