// Package cmd defines the command-line interface for flowlens.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(capacityCmd)
	rootCmd.AddCommand(bottlenecksCmd)
	rootCmd.AddCommand(stuckCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("scope", "s", "", "Team or train name to analyze (empty = all scopes)")
	rootCmd.PersistentFlags().StringP("period", "p", "", "Planning period label, e.g. PI-2026.3")
	rootCmd.PersistentFlags().String("start", "", "Window start date in RFC3339 or YYYY-MM-DD")
	rootCmd.PersistentFlags().String("end", "", "Window end date in RFC3339 or YYYY-MM-DD")
	rootCmd.PersistentFlags().Float64("period-days", 0, "Planning period duration in days (e.g. 84 for a 12-week PI)")
	rootCmd.PersistentFlags().String("stage-order", "", "Comma-separated workflow stages in order")
	rootCmd.PersistentFlags().String("active-stages", "", "Comma-separated value-adding stages for flow efficiency")
	rootCmd.PersistentFlags().String("done-statuses", "", "Comma-separated statuses that imply completion")
	rootCmd.PersistentFlags().Float64("stuck-threshold", contract.DefaultStuckThresholdDays, "Days in a stage before an item counts as stuck")
	rootCmd.PersistentFlags().String("stage-thresholds", "", "Per-stage stuck overrides (format: 'In Review=5,Testing=7')")
	rootCmd.PersistentFlags().String("expected-days", "", "Expected dwell time per stage (format: 'Analysis=3,Testing=5')")
	rootCmd.PersistentFlags().Float64("target-leadtime", contract.DefaultTargetLeadTime, "Target lead time in days for the optimal-WIP calculation")
	rootCmd.PersistentFlags().Int("lookback", contract.DefaultLookbackPeriods, "Number of prior periods for the historical baseline")
	rootCmd.PersistentFlags().String("history", "", "Comma-separated prior period labels, most recent first")
	rootCmd.PersistentFlags().Int("min-sample", contract.DefaultMinSampleSize, "Minimum completed items for capacity analysis")
	rootCmd.PersistentFlags().Float64("systemic-miss-pct", contract.DefaultSystemicMissPct, "Commitment miss rate that flags a systemic pattern")
	rootCmd.PersistentFlags().String("severity-leadtime", "", "Lead-time severity bounds in days (format: 'critical,warning,info', e.g. '60,45,30')")
	rootCmd.PersistentFlags().String("severity-efficiency", "", "Flow-efficiency severity bounds in percent (format: 'critical,warning,info', e.g. '30,40,50')")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().String("backend", string(schema.JSONBackend), "Record backend: json or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to a JSON export of lifecycle records (json backend)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
