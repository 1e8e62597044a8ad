package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cairn/internal/batch"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var operationFlag string

	cmd := &cobra.Command{
		Use:   "estimate <path>...",
		Short: "Estimate cost and check batch limits for an operation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				op, err := batch.ParseOperation(operationFlag)
				if err != nil {
					return fmt.Errorf("%w (known: %s)", err, knownOperations())
				}

				files, err := expandArgs(args, recursive)
				if err != nil {
					return err
				}

				summary := svc.batches.ValidateBatch(files, op)

				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Operation:        %s\n", op)
				fmt.Fprintf(out, "Files:            %d\n", summary.FileCount)
				fmt.Fprintf(out, "Total size:       %.1f MB\n", summary.TotalSizeMB)
				fmt.Fprintf(out, "Estimated time:   %.1fs\n", summary.EstimatedSeconds)
				fmt.Fprintf(out, "Batch size:       %d\n", summary.RecommendedBatchSize)
				fmt.Fprintf(out, "Proceed:          %s\n", yesNo(summary.Proceed))
				for _, warning := range summary.Warnings {
					fmt.Fprintln(out, "warning:", warning)
				}
				if len(summary.NeedsRefresh) > 0 {
					fmt.Fprintf(out, "%d files could not be sized\n", len(summary.NeedsRefresh))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	cmd.Flags().StringVar(&operationFlag, "operation", string(batch.FastMetadata), "Operation type to estimate")

	return cmd
}

func knownOperations() string {
	names := make([]string, 0, len(batch.Operations))
	for _, op := range batch.Operations {
		names = append(names, string(op))
	}
	return strings.Join(names, ", ")
}
