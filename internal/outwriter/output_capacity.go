package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/internal/parquet"
	"github.com/flowlens/flowlens/schema"
)

// WriteCapacityMetrics outputs the Little's-Law capacity model, dispatching
// based on the output format configured.
func WriteCapacityMetrics(metrics *schema.LittlesLawMetrics, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, metrics)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStageMetricsCSV(w, metrics, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return parquet.WriteStageMetricsParquet(parquet.ConvertStageMetrics(metrics), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCapacityTable(w, metrics, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeCapacityTable writes the full capacity report: the core identity,
// stage table, baseline section and planning section.
func writeCapacityTable(w io.Writer, m *schema.LittlesLawMetrics, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	severity := contract.GetSeverityLabel(m.Severity)
	if !cfg.UseColors {
		severity = string(m.Severity)
	}
	fmt.Fprintf(w, "Capacity model for %s period %s [%s]\n", scopeLabel(m.Scope), m.Period, severity)
	fmt.Fprintf(w, "Throughput %s/day * lead time %s days = predicted WIP %s\n",
		fmtFloat(m.ThroughputPerDay), fmtFloat(m.AvgLeadTimeDays), fmtFloat(m.PredictedWIP))
	fmt.Fprintf(w, "Flow efficiency %s%%, optimal WIP %s for a %s-day target lead time (reduction %s)\n",
		fmtFloat(m.FlowEfficiency), fmtFloat(m.OptimalWIP), fmtFloat(m.TargetLeadTimeDays), fmtFloat(m.WIPReduction))

	if len(m.StageMetrics) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Stage", "Avg Days", "Items", "WIP", "Limit"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})
		maxWidth := getMaxStageWidth(cfg)
		var data [][]string
		for _, sm := range m.StageMetrics {
			data = append(data, []string{
				truncateLabel(sm.Stage, maxWidth),
				fmtFloat(sm.AvgDays),
				strconv.Itoa(sm.Observations),
				fmtFloat(sm.WIP),
				strconv.Itoa(sm.RecommendedLimit),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	writeBaselineSection(w, &m.Capacity, fmtFloat)
	writePlanningSection(w, &m.Planning, fmtFloat)

	for _, warning := range m.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// writeBaselineSection prints the historical comparison, or says plainly
// that no baseline was available.
func writeBaselineSection(w io.Writer, b *schema.CapacityBaseline, fmtFloat func(float64) string) {
	if !b.Available {
		fmt.Fprintf(w, "No historical baseline available (%d prior periods requested)\n", b.PeriodsRequested)
		return
	}
	fmt.Fprintf(w, "Baseline over %d/%d periods: %s items/period (min %d, max %d), %s/day, lead %s days\n",
		b.PeriodsWithData, b.PeriodsRequested,
		fmtFloat(b.AvgCompletedPerPd), b.MinCompleted, b.MaxCompleted,
		fmtFloat(b.AvgThroughputPerDay), fmtFloat(b.AvgLeadTimeDays))
	fmt.Fprintf(w, "Capacity utilization %s%%, throughput %s%% vs baseline, lead time %s%% vs baseline\n",
		fmtFloat(b.CapacityUtilization), fmtFloat(b.ThroughputVsBaseline), fmtFloat(b.LeadTimeVsBaseline))
}

// writePlanningSection prints the commitment reconciliation.
func writePlanningSection(w io.Writer, p *schema.PlanningAnalysis, fmtFloat func(float64) string) {
	fmt.Fprintf(w, "Planning: %d committed (%d delivered, %d missed), %d uncommitted, %d post-period; accuracy %s%%\n",
		p.CommittedCount, p.DeliveredCommit, p.MissedCommit,
		p.UncommittedCount, p.PostPeriodCount, fmtFloat(p.PlanningAccuracy))
	if p.SystemicMiss {
		fmt.Fprintf(w, "Systemic miss pattern: %s%% of committed work was not delivered\n", fmtFloat(p.MissRate))
	}
	for _, tm := range p.MissesByTeam {
		fmt.Fprintf(w, "  %s missed %d committed item(s)\n", teamLabel(tm.Team), tm.Missed)
	}
}

// writeStageMetricsCSV exports the stage table, which is the part of the
// capacity model downstream spreadsheets consume.
func writeStageMetricsCSV(w io.Writer, m *schema.LittlesLawMetrics, fmtFloat func(float64) string) error {
	header := []string{"stage", "avg_days", "observations", "wip", "recommended_limit"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, sm := range m.StageMetrics {
			rec := []string{
				sm.Stage,
				fmtFloat(sm.AvgDays),
				strconv.Itoa(sm.Observations),
				fmtFloat(sm.WIP),
				strconv.Itoa(sm.RecommendedLimit),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "(all scopes)"
	}
	return scope
}

func teamLabel(team string) string {
	if team == "" {
		return "(unassigned)"
	}
	return team
}
