package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInvalidateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate <path>...",
		Short: "Remove stored hashes for files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				removed := 0
				for _, path := range args {
					if svc.hashes.Invalidate(cmd.Context(), path) {
						removed++
					}
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]int{
						"requested": len(args),
						"removed":   removed,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d of %d entries\n", removed, len(args))
				return nil
			})
		},
	}

	return cmd
}
