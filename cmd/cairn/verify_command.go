package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cairn/internal/hashstore"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var algorithmFlag string

	cmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Recompute a file's hash and compare it to the stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				algorithm, err := svc.resolveAlgorithm(algorithmFlag)
				if err != nil {
					return err
				}

				integrity := svc.hashes.VerifyIntegrity(cmd.Context(), args[0], algorithm)

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, map[string]string{
						"path":      args[0],
						"algorithm": algorithm.String(),
						"integrity": integrity.String(),
					}); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), integrity)
				}

				switch integrity {
				case hashstore.IntegrityMismatch:
					return fmt.Errorf("stored hash no longer matches %s", args[0])
				case hashstore.IntegrityNoRecord:
					return fmt.Errorf("no %s hash stored for %s", algorithm, args[0])
				case hashstore.IntegrityUnknown:
					return fmt.Errorf("could not recompute hash for %s", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "Hash algorithm (crc32, md5, sha1, sha256)")

	return cmd
}
