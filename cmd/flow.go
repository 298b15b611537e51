package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/core"
	"github.com/flowlens/flowlens/internal/contract"
)

// flowCmd computes the flow snapshot for a scope and window.
var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Show throughput, WIP and lead/cycle time for a time window.",
	Long: `Compute a point-in-time flow snapshot over a time window.

The snapshot covers:
- Completed item count and throughput per day
- Average daily work in progress (WIP)
- Lead time distribution (mean, median, P85, P95, stdev)
- Cycle time distribution for items with a recorded start
- Per-type breakdown of throughput and lead time

Examples:
  # Snapshot one team over a program increment
  flowlens flow --scope atlas --start 2026-06-01 --end 2026-08-24

  # Snapshot everything in a stored period
  flowlens flow --period PI-2026.3 --start 2026-06-01 --end 2026-08-24 --backend sqlite

  # Export the snapshot for dashboards
  flowlens flow --start 2026-06-01 --end 2026-08-24 --output json --output-file flow.json`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeSource,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFlow(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run flow analysis", err)
		}
	},
}
