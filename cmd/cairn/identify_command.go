package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <path>",
		Short: "Resolve a file to its cached record, following moves and renames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				rec, moved := svc.identifier.Identify(cmd.Context(), args[0])
				if rec == nil {
					return fmt.Errorf("no record found for %s", args[0])
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"path":       rec.Path,
						"filename":   rec.Filename,
						"algorithm":  rec.Algorithm.String(),
						"hash":       rec.Hash,
						"size":       rec.SizeAtHash,
						"moved":      moved,
						"updated_at": rec.UpdatedAt,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Path:      %s\n", rec.Path)
				fmt.Fprintf(out, "Hash:      %s (%s)\n", rec.Hash, rec.Algorithm)
				fmt.Fprintf(out, "Size:      %d bytes\n", rec.SizeAtHash)
				fmt.Fprintf(out, "Moved:     %s\n", yesNo(moved))
				fmt.Fprintf(out, "Updated:   %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}

	return cmd
}
