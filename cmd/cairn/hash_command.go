package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cairn/internal/batch"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var force bool
	var algorithmFlag string

	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Compute and store content hashes for files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				algorithm, err := svc.resolveAlgorithm(algorithmFlag)
				if err != nil {
					return err
				}

				files, err := expandArgs(args, recursive)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no files to hash")
				}

				summary := svc.batches.ValidateBatch(files, batch.HashCalculation)
				if !summary.Proceed {
					if !force {
						for _, warning := range summary.Warnings {
							fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
						}
						return fmt.Errorf("batch of %d files (%.1f MB, est. %.0fs) exceeds hash limits; rerun with --force to proceed",
							summary.FileCount, summary.TotalSizeMB, summary.EstimatedSeconds)
					}
					svc.batches.RememberChoice(batch.HashCalculation, summary.FileCount, summary.TotalSizeMB, "proceed", 0)
				}

				type hashed struct {
					Path string `json:"path"`
					Hash string `json:"hash"`
				}
				var results []hashed
				var failed int
				for _, path := range files {
					hash, err := svc.hashes.ComputeAndStore(cmd.Context(), path, algorithm)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", path, err)
						failed++
						continue
					}
					results = append(results, hashed{Path: path, Hash: hash})
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"algorithm": algorithm.String(),
						"hashed":    results,
						"failed":    failed,
					})
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.Hash, r.Path)
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d files could not be hashed", failed, len(files))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even when batch limits are exceeded")
	cmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "Hash algorithm (crc32, md5, sha1, sha256)")

	return cmd
}
