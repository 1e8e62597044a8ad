package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove records whose files no longer exist on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				removed := svc.hashes.SweepOrphans(cmd.Context())

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]int{"removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned records\n", removed)
				return nil
			})
		},
	}

	return cmd
}
