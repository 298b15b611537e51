package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/core"
	"github.com/flowlens/flowlens/internal/contract"
)

// bottlenecksCmd ranks workflow stages by congestion.
var bottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Rank workflow stages by congestion score.",
	Long: `Score every workflow stage by how much work piles up in it.

When expected dwell times are configured the score is the ratio of actual
to expected time; otherwise it blends average dwell time with the share of
items exceeding the stuck threshold. Stages rank from worst to best.

Examples:
  # Rank stages for one team
  flowlens bottlenecks --scope atlas --input records.json

  # Score against business expectations
  flowlens bottlenecks --expected-days 'Analysis=3,In Review=2,Testing=5'

  # Export findings to CSV for tracking
  flowlens bottlenecks --output csv --output-file bottlenecks.csv`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeSource,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBottlenecks(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run bottleneck analysis", err)
		}
	},
}
