package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/internal/parquet"
	"github.com/flowlens/flowlens/schema"
)

// WriteBottleneckScores outputs per-stage congestion scores, dispatching
// based on the output format configured.
func WriteBottleneckScores(scores []schema.BottleneckScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBottlenecks(w, scores)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBottleneckCSV(w, scores, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return parquet.WriteBottleneckScoresParquet(parquet.ConvertBottleneckScores(scores), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBottleneckTable(w, scores, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeBottleneckTable writes the ranked stage table.
func writeBottleneckTable(w io.Writer, scores []schema.BottleneckScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Stage", "Score", "Label", "Mean", "Max", "Over", "Items"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxStageWidth(cfg)
	var data [][]string
	for i, s := range scores {
		label := contract.GetPlainLabel(s.Score)
		if cfg.UseColors {
			label = contract.GetColorLabel(s.Score)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateLabel(s.Stage, maxWidth),
			fmtFloat(s.Score),
			label,
			fmtFloat(s.MeanDays),
			fmtFloat(s.MaxDays),
			strconv.Itoa(s.ItemsExceeding),
			strconv.Itoa(s.TotalItems),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scored %d stages in %v\n", len(scores), duration)
	return err
}

// writeBottleneckCSV writes the scores in CSV format.
func writeBottleneckCSV(w io.Writer, scores []schema.BottleneckScore, fmtFloat func(float64) string) error {
	header := []string{"rank", "stage", "score", "label", "mean_days", "max_days", "items_exceeding", "total_items", "expected_days"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range scores {
			rec := []string{
				strconv.Itoa(i + 1),
				s.Stage,
				fmtFloat(s.Score),
				contract.GetPlainLabel(s.Score),
				fmtFloat(s.MeanDays),
				fmtFloat(s.MaxDays),
				strconv.Itoa(s.ItemsExceeding),
				strconv.Itoa(s.TotalItems),
				fmtFloat(s.ExpectedDays),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONBottlenecks adds rank and label, then defers to the generic
// JSON writer.
func writeJSONBottlenecks(w io.Writer, scores []schema.BottleneckScore) error {
	type jsonScore struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.BottleneckScore
	}
	output := make([]jsonScore, len(scores))
	for i, s := range scores {
		output[i] = jsonScore{
			Rank:            i + 1,
			Label:           contract.GetPlainLabel(s.Score),
			BottleneckScore: s,
		}
	}
	return writeJSON(w, output)
}

// WriteStuckItems outputs stuck-item records and the multi-stage grouping,
// dispatching based on the output format configured.
func WriteStuckItems(stuck []schema.StuckItemRecord, multi []schema.MultiStageStuckItem, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"stuck_items": stuck,
				"multi_stage": multi,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStuckCSV(w, stuck, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStuckTable(w, stuck, multi, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeStuckTable writes the per-stage stuck records followed by the
// cross-stage signals.
func writeStuckTable(w io.Writer, stuck []schema.StuckItemRecord, multi []schema.MultiStageStuckItem, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Stage", "Days", "Current"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxStageWidth(cfg)
	var data [][]string
	for _, s := range stuck {
		current := ""
		if s.CurrentStage {
			current = "yes"
		}
		data = append(data, []string{
			truncateLabel(s.Key, maxWidth),
			truncateLabel(s.Stage, maxWidth),
			fmtFloat(s.DaysInStage),
			current,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, m := range multi {
		fmt.Fprintf(w, "Cross-stage: %s stuck in %d stages (%s) for %s total days\n",
			m.Key, m.StageCount, strings.Join(m.Stages, ", "), fmtFloat(m.TotalDays))
	}
	_, err := fmt.Fprintf(w, "Found %d stuck records (%d cross-stage) in %v\n", len(stuck), len(multi), duration)
	return err
}

// writeStuckCSV writes stuck records in CSV format.
func writeStuckCSV(w io.Writer, stuck []schema.StuckItemRecord, fmtFloat func(float64) string) error {
	header := []string{"key", "stage", "days_in_stage", "current_stage"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range stuck {
			rec := []string{
				s.Key,
				s.Stage,
				fmtFloat(s.DaysInStage),
				strconv.FormatBool(s.CurrentStage),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
