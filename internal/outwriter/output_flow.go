package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/internal/parquet"
	"github.com/flowlens/flowlens/schema"
)

// WriteFlowSnapshot outputs a flow snapshot, dispatching based on the
// output format configured.
func WriteFlowSnapshot(snapshot *schema.FlowSnapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snapshot)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFlowCSV(w, snapshot, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return parquet.WriteFlowSnapshotParquet(parquet.ConvertFlowSnapshot(snapshot), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFlowTable(w, snapshot, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeFlowTable writes the human-readable snapshot summary.
func writeFlowTable(w io.Writer, snapshot *schema.FlowSnapshot, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Fprintf(w, "Flow snapshot %s (%s to %s)\n",
		windowLabel(snapshot),
		snapshot.Window.Start.Format(contract.DateOnlyFormat),
		snapshot.Window.End.Format(contract.DateOnlyFormat))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Completed", fmt.Sprintf("%d", snapshot.CompletedCount)},
		{"Throughput/day", fmtFloat(snapshot.Throughput)},
		{"Avg WIP", fmtFloat(snapshot.AvgWIP)},
	}
	data = append(data, durationStatRows("Lead time", snapshot.LeadTime, fmtFloat)...)
	data = append(data, durationStatRows("Cycle time", snapshot.CycleTime, fmtFloat)...)
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(snapshot.ByType) > 0 {
		if err := writeTypeBreakdownTable(w, snapshot.ByType, fmtFloat); err != nil {
			return err
		}
	}

	for _, warning := range snapshot.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// writeTypeBreakdownTable renders the per-type throughput/lead breakdown.
func writeTypeBreakdownTable(w io.Writer, byType map[string]schema.TypeBreakdown, fmtFloat func(float64) string) error {
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Type", "Completed", "Throughput/day", "Mean Lead"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, t := range types {
		tb := byType[t]
		data = append(data, []string{
			t,
			fmt.Sprintf("%d", tb.Completed),
			fmtFloat(tb.Throughput),
			fmtFloat(tb.MeanLeadTime),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFlowCSV writes the snapshot as metric,value rows so the export stays
// shaped like the table view.
func writeFlowCSV(w io.Writer, snapshot *schema.FlowSnapshot, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"completed", fmt.Sprintf("%d", snapshot.CompletedCount)},
			{"throughput_per_day", fmtFloat(snapshot.Throughput)},
			{"avg_wip", fmtFloat(snapshot.AvgWIP)},
		}
		rows = append(rows, durationStatCSVRows("lead_time", snapshot.LeadTime, fmtFloat)...)
		rows = append(rows, durationStatCSVRows("cycle_time", snapshot.CycleTime, fmtFloat)...)
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// durationStatRows expands a duration distribution into table rows.
// Absent distributions contribute nothing; absence is visible, not zero.
func durationStatRows(label string, ds *schema.DurationStats, fmtFloat func(float64) string) [][]string {
	if ds == nil {
		return nil
	}
	rows := [][]string{
		{label + " mean", fmtFloat(ds.Mean)},
		{label + " median", fmtFloat(ds.Median)},
		{label + " p85", fmtFloat(ds.P85)},
		{label + " p95", fmtFloat(ds.P95)},
	}
	if ds.StdDev != nil {
		rows = append(rows, []string{label + " stdev", fmtFloat(*ds.StdDev)})
	}
	return rows
}

func durationStatCSVRows(prefix string, ds *schema.DurationStats, fmtFloat func(float64) string) [][]string {
	if ds == nil {
		return nil
	}
	rows := [][]string{
		{prefix + "_mean", fmtFloat(ds.Mean)},
		{prefix + "_median", fmtFloat(ds.Median)},
		{prefix + "_p85", fmtFloat(ds.P85)},
		{prefix + "_p95", fmtFloat(ds.P95)},
	}
	if ds.StdDev != nil {
		rows = append(rows, []string{prefix + "_stdev", fmtFloat(*ds.StdDev)})
	}
	return rows
}

func windowLabel(snapshot *schema.FlowSnapshot) string {
	if snapshot.Scope != "" {
		return snapshot.Scope
	}
	if snapshot.Window.Label != "" {
		return snapshot.Window.Label
	}
	return "(all scopes)"
}
