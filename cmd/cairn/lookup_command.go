package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var algorithmFlag string

	cmd := &cobra.Command{
		Use:   "lookup <path>",
		Short: "Print the stored hash for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				algorithm, err := svc.resolveAlgorithm(algorithmFlag)
				if err != nil {
					return err
				}

				hash, ok := svc.hashes.Lookup(cmd.Context(), args[0], algorithm)
				if !ok {
					return fmt.Errorf("no %s hash stored for %s", algorithm, args[0])
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]string{
						"path":      args[0],
						"algorithm": algorithm.String(),
						"hash":      hash,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "Hash algorithm (crc32, md5, sha1, sha256)")

	return cmd
}
