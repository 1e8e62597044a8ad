package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics and catalog health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *services) error {
				stats := svc.hashes.Stats(cmd.Context())
				health, healthErr := svc.catalog.CheckHealth(cmd.Context())

				if ctx.jsonOutput() {
					payload := map[string]any{
						"stats":  stats,
						"health": health,
					}
					if healthErr != nil {
						payload["health_error"] = healthErr.Error()
					}
					return writeJSON(cmd, payload)
				}

				rows := [][]string{
					{"Tracked files", fmt.Sprintf("%d", stats.Catalog.FileCount)},
					{"Stored hashes", fmt.Sprintf("%d", stats.Catalog.HashCount)},
					{"Hot cache entries", fmt.Sprintf("%d", stats.HotCacheSize)},
					{"Hot cache hits", fmt.Sprintf("%d", stats.Hits)},
					{"Hot cache misses", fmt.Sprintf("%d", stats.Misses)},
					{"Hit rate", fmt.Sprintf("%.1f%%", stats.HitRate*100)},
					{"Database", stats.Catalog.DBPath},
					{"Database size", humanize.IBytes(uint64(stats.Catalog.DBSizeBytes))},
					{"Integrity check", yesNo(health.IntegrityCheck)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"METRIC", "VALUE"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				if healthErr != nil {
					return fmt.Errorf("catalog health check: %w", healthErr)
				}
				return nil
			})
		},
	}

	return cmd
}
