package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/core"
	"github.com/flowlens/flowlens/internal/contract"
)

// stuckCmd lists unresolved items stuck past the threshold.
var stuckCmd = &cobra.Command{
	Use:   "stuck",
	Short: "List unresolved items stuck past a stage-duration threshold.",
	Long: `Find unresolved items that have sat in a workflow stage longer than
the stuck threshold, with per-stage overrides honored.

Items stuck in two or more stages are grouped separately as likely process
(rather than item) problems.

Examples:
  # Everything stuck more than 10 days (the default)
  flowlens stuck --input records.json

  # Tighter thresholds for late-workflow stages
  flowlens stuck --stuck-threshold 14 --stage-thresholds 'In Review=5,Testing=7'`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeSource,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStuck(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run stuck-item scan", err)
		}
	},
}
