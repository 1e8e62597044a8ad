package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var algorithmFlag string
	var hashMissing bool

	cmd := &cobra.Command{
		Use:   "duplicates <path>...",
		Short: "Group files with identical stored hashes",
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

				if hashMissing {
					for _, path := range files {
						if svc.hashes.Contains(cmd.Context(), path, algorithm) {
							continue
						}
						if _, err := svc.hashes.ComputeAndStore(cmd.Context(), path, algorithm); err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", path, err)
						}
					}
				}

				groups := svc.hashes.FindDuplicates(cmd.Context(), files, algorithm)
				if len(groups) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No duplicates found")
					return nil
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, groups)
				}

				hashes := make([]string, 0, len(groups))
				for hash := range groups {
					hashes = append(hashes, hash)
				}
				sort.Strings(hashes)

				var rows [][]string
				for _, hash := range hashes {
					members := groups[hash]
					sort.Strings(members)
					for i, path := range members {
						label := ""
						if i == 0 {
							label = hash
						}
						rows = append(rows, []string{label, path, fileSize(path)})
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"HASH", "PATH", "SIZE"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	cmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "Hash algorithm (crc32, md5, sha1, sha256)")
	cmd.Flags().BoolVar(&hashMissing, "hash-missing", false, "Hash files that have no stored hash before grouping")

	return cmd
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.IBytes(uint64(info.Size()))
}
