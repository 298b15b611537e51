package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/core"
	"github.com/flowlens/flowlens/internal/contract"
)

// capacityCmd runs the Little's-Law capacity model for a period.
var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Model capacity with Little's Law for a planning period.",
	Long: `Apply Little's Law (L = lambda * W) to a completed planning period.

The model reports:
- Throughput per day and average lead time for the period
- Predicted WIP and the optimal WIP for a target lead time
- Flow efficiency (active time vs total lead time)
- Per-stage averages with recommended WIP limits
- A historical baseline over prior periods, fetched concurrently
- Planning accuracy against the period commitment

Examples:
  # Capacity model for a 12-week PI
  flowlens capacity --period PI-2026.3 --period-days 84 --backend sqlite

  # Compare against three prior periods
  flowlens capacity --period PI-2026.3 --period-days 84 --history PI-2026.2,PI-2026.1,PI-2025.4

  # Tune the optimal-WIP target
  flowlens capacity --period PI-2026.3 --period-days 84 --target-leadtime 21`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeSource,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCapacity(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run capacity analysis", err)
		}
	},
}
