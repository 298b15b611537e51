// Package parquet provides data structures and functions for exporting
// flowlens results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/flowlens/flowlens/schema"
)

// FlowSnapshotRow is the flat Parquet projection of a flow snapshot.
type FlowSnapshotRow struct {
	Scope          string    `parquet:"scope,snappy"`
	WindowStart    time.Time `parquet:"window_start,snappy"`
	WindowEnd      time.Time `parquet:"window_end,snappy"`
	CompletedCount int32     `parquet:"completed_count,snappy"`
	Throughput     float64   `parquet:"throughput_per_day,snappy"`
	AvgWIP         float64   `parquet:"avg_wip,snappy"`
	LeadMean       *float64  `parquet:"lead_mean_days,optional,snappy"`
	LeadP85        *float64  `parquet:"lead_p85_days,optional,snappy"`
	LeadP95        *float64  `parquet:"lead_p95_days,optional,snappy"`
	CycleMean      *float64  `parquet:"cycle_mean_days,optional,snappy"`
}

// StageMetricRow is one stage of the capacity model.
type StageMetricRow struct {
	Scope            string  `parquet:"scope,snappy"`
	Period           string  `parquet:"period,snappy"`
	Stage            string  `parquet:"stage,snappy"`
	AvgDays          float64 `parquet:"avg_days,snappy"`
	Observations     int32   `parquet:"observations,snappy"`
	WIP              float64 `parquet:"wip,snappy"`
	RecommendedLimit int32   `parquet:"recommended_limit,snappy"`
}

// BottleneckScoreRow is one scored stage.
type BottleneckScoreRow struct {
	Stage          string  `parquet:"stage,snappy"`
	Score          float64 `parquet:"score,snappy"`
	MeanDays       float64 `parquet:"mean_days,snappy"`
	MaxDays        float64 `parquet:"max_days,snappy"`
	ItemsExceeding int32   `parquet:"items_exceeding,snappy"`
	TotalItems     int32   `parquet:"total_items,snappy"`
}

// ConvertFlowSnapshot flattens a snapshot into a single Parquet row.
func ConvertFlowSnapshot(s *schema.FlowSnapshot) FlowSnapshotRow {
	row := FlowSnapshotRow{
		Scope:          s.Scope,
		WindowStart:    s.Window.Start,
		WindowEnd:      s.Window.End,
		CompletedCount: int32(s.CompletedCount),
		Throughput:     s.Throughput,
		AvgWIP:         s.AvgWIP,
	}
	if s.LeadTime != nil {
		row.LeadMean = &s.LeadTime.Mean
		row.LeadP85 = &s.LeadTime.P85
		row.LeadP95 = &s.LeadTime.P95
	}
	if s.CycleTime != nil {
		row.CycleMean = &s.CycleTime.Mean
	}
	return row
}

// ConvertStageMetrics flattens the capacity model's stage table.
func ConvertStageMetrics(m *schema.LittlesLawMetrics) []StageMetricRow {
	rows := make([]StageMetricRow, len(m.StageMetrics))
	for i, sm := range m.StageMetrics {
		rows[i] = StageMetricRow{
			Scope:            m.Scope,
			Period:           m.Period,
			Stage:            sm.Stage,
			AvgDays:          sm.AvgDays,
			Observations:     int32(sm.Observations),
			WIP:              sm.WIP,
			RecommendedLimit: int32(sm.RecommendedLimit),
		}
	}
	return rows
}

// ConvertBottleneckScores flattens the scored stages.
func ConvertBottleneckScores(scores []schema.BottleneckScore) []BottleneckScoreRow {
	rows := make([]BottleneckScoreRow, len(scores))
	for i, s := range scores {
		rows[i] = BottleneckScoreRow{
			Stage:          s.Stage,
			Score:          s.Score,
			MeanDays:       s.MeanDays,
			MaxDays:        s.MaxDays,
			ItemsExceeding: int32(s.ItemsExceeding),
			TotalItems:     int32(s.TotalItems),
		}
	}
	return rows
}

// WriteFlowSnapshotParquet writes a snapshot row to a Parquet file.
func WriteFlowSnapshotParquet(row FlowSnapshotRow, outputPath string) error {
	return writeParquet([]FlowSnapshotRow{row}, outputPath)
}

// WriteStageMetricsParquet writes the stage table to a Parquet file.
func WriteStageMetricsParquet(rows []StageMetricRow, outputPath string) error {
	return writeParquet(rows, outputPath)
}

// WriteBottleneckScoresParquet writes scored stages to a Parquet file.
func WriteBottleneckScoresParquet(rows []BottleneckScoreRow, outputPath string) error {
	return writeParquet(rows, outputPath)
}

// writeParquet writes any row slice using struct schema inference; the
// schema is derived from the struct tags.
func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
