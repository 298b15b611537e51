// Package core has the flow-analytics engine: flow metrics, bottleneck
// detection and the Little's-Law capacity model. Everything in this package
// is synchronous, stateless and side-effect-free given its inputs; all
// entry points are safe for concurrent use as long as callers do not mutate
// the record slice mid-call.
package core

import (
	"context"
	"time"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/internal/outwriter"
	"github.com/flowlens/flowlens/schema"
)

// GetFlowSnapshot fetches the configured scope/period records and computes
// the flow snapshot. Exposed for the CLI and the MCP surface.
func GetFlowSnapshot(ctx context.Context, cfg *contract.Config, source contract.RecordSource) (*schema.FlowSnapshot, error) {
	records, err := source.FetchRecords(ctx, cfg.Scope, cfg.Period)
	if err != nil {
		return nil, err
	}
	return CalculateFlow(records, cfg.Window, cfg)
}

// GetCapacityMetrics fetches records and computes the Little's-Law capacity
// model, including the historical baseline lookback through source.
func GetCapacityMetrics(ctx context.Context, cfg *contract.Config, source contract.RecordSource) (*schema.LittlesLawMetrics, error) {
	records, err := source.FetchRecords(ctx, cfg.Scope, cfg.Period)
	if err != nil {
		return nil, err
	}
	return CalculateCapacity(ctx, records, cfg, source)
}

// GetBottlenecks fetches records and computes stage scores, stuck items and
// the multi-stage stuck grouping in one pass.
func GetBottlenecks(ctx context.Context, cfg *contract.Config, source contract.RecordSource) ([]schema.BottleneckScore, []schema.StuckItemRecord, []schema.MultiStageStuckItem, error) {
	records, err := source.FetchRecords(ctx, cfg.Scope, cfg.Period)
	if err != nil {
		return nil, nil, nil, err
	}
	scores := ScoreStages(records, cfg)
	if len(scores) > cfg.ResultLimit {
		scores = scores[:cfg.ResultLimit]
	}
	stuck := FindStuckItems(records, cfg)
	return scores, stuck, GroupMultiStageStuck(stuck), nil
}

// ExecuteFlow runs the flow analysis and writes results in the configured
// output format. It serves as the main entry point for the 'flow' command.
func ExecuteFlow(ctx context.Context, cfg *contract.Config, source contract.RecordSource) error {
	start := time.Now()
	snapshot, err := GetFlowSnapshot(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteFlowSnapshot(snapshot, cfg, time.Since(start))
}

// ExecuteCapacity runs the capacity analysis and writes results. It serves
// as the main entry point for the 'capacity' command.
func ExecuteCapacity(ctx context.Context, cfg *contract.Config, source contract.RecordSource) error {
	start := time.Now()
	metrics, err := GetCapacityMetrics(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteCapacityMetrics(metrics, cfg, time.Since(start))
}

// ExecuteBottlenecks runs the bottleneck analysis and writes stage scores.
// It serves as the main entry point for the 'bottlenecks' command.
func ExecuteBottlenecks(ctx context.Context, cfg *contract.Config, source contract.RecordSource) error {
	start := time.Now()
	scores, _, _, err := GetBottlenecks(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteBottleneckScores(scores, cfg, time.Since(start))
}

// ExecuteStuck runs the stuck-item scan and writes per-stage stuck records
// together with the multi-stage grouping. It serves as the main entry point
// for the 'stuck' command.
func ExecuteStuck(ctx context.Context, cfg *contract.Config, source contract.RecordSource) error {
	start := time.Now()
	_, stuck, multi, err := GetBottlenecks(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteStuckItems(stuck, multi, cfg, time.Since(start))
}
