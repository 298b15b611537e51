package core

import (
	"fmt"
	"time"

	"github.com/flowlens/flowlens/core/stats"
	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// CalculateFlow computes throughput, average WIP and lead/cycle-time
// distributions for one scope and time window. The computation is pure:
// same records and window always yield the same snapshot.
func CalculateFlow(records []schema.LifecycleRecord, window schema.TimeWindow, cfg *contract.Config) (*schema.FlowSnapshot, error) {
	if window.Start.IsZero() || window.End.IsZero() {
		return nil, contract.NewConfigError("window", "start and end are required")
	}

	clean, warnings := partitionRecords(records, cfg)

	completed := make([]schema.LifecycleRecord, 0, len(clean))
	for _, r := range clean {
		if r.Resolved() && window.Contains(*r.ResolvedAt) {
			completed = append(completed, r)
		}
	}

	snapshot := &schema.FlowSnapshot{
		Scope:          cfg.Scope,
		Window:         window,
		CompletedCount: len(completed),
		AvgWIP:         averageDailyWIP(clean, window),
		Warnings:       warnings,
	}

	// A non-positive window length yields zero throughput, not a division
	// error.
	if days := window.DurationDays(); days > 0 {
		snapshot.Throughput = float64(len(completed)) / days
	}

	if len(completed) > 0 {
		leads := make([]float64, 0, len(completed))
		cycles := make([]float64, 0, len(completed))
		for _, r := range completed {
			if lead, ok := r.LeadTimeDays(); ok {
				leads = append(leads, lead)
			}
			if cycle, ok := r.CycleTimeDays(); ok {
				cycles = append(cycles, cycle)
			}
		}
		snapshot.LeadTime = durationStats(leads)
		snapshot.CycleTime = durationStats(cycles)
		snapshot.ByType = breakdownByType(completed, window)
	}

	return snapshot, nil
}

// averageDailyWIP samples WIP once per calendar day across the window and
// averages the counts. Day-granular sampling, not event-based integration,
// is kept deliberately for reproducibility with historical results.
func averageDailyWIP(records []schema.LifecycleRecord, window schema.TimeWindow) float64 {
	var counts []float64
	for day := window.Start; !day.After(window.End); day = day.Add(24 * time.Hour) {
		n := 0
		for i := range records {
			if records[i].InProgressOn(day) {
				n++
			}
		}
		counts = append(counts, float64(n))
	}
	return stats.Mean(counts)
}

// durationStats summarizes a duration sample. Returns nil for an empty
// sample; StdDev stays nil below two samples.
func durationStats(values []float64) *schema.DurationStats {
	if len(values) == 0 {
		return nil
	}
	median, _ := stats.Percentile(values, 0.5)
	p85, _ := stats.Percentile(values, 0.85)
	p95, _ := stats.Percentile(values, 0.95)
	ds := &schema.DurationStats{
		Count:  len(values),
		Mean:   stats.Mean(values),
		Median: median,
		P85:    p85,
		P95:    p95,
	}
	if sd, ok := stats.StdDev(values); ok {
		ds.StdDev = &sd
	}
	return ds
}

// breakdownByType groups throughput and mean lead time by item type.
// Group keys come only from items actually present; absent types are not
// zero-filled.
func breakdownByType(completed []schema.LifecycleRecord, window schema.TimeWindow) map[string]schema.TypeBreakdown {
	leadsByType := make(map[string][]float64)
	for _, r := range completed {
		lead, ok := r.LeadTimeDays()
		if !ok {
			continue
		}
		leadsByType[r.Type] = append(leadsByType[r.Type], lead)
	}

	days := window.DurationDays()
	out := make(map[string]schema.TypeBreakdown, len(leadsByType))
	for typ, leads := range leadsByType {
		tb := schema.TypeBreakdown{
			Completed:    len(leads),
			MeanLeadTime: stats.Mean(leads),
		}
		if days > 0 {
			tb.Throughput = float64(len(leads)) / days
		}
		out[typ] = tb
	}
	return out
}

// partitionRecords drops malformed records (a done status without a
// resolution timestamp) and reports them as warnings. A single bad record
// never aborts the batch.
func partitionRecords(records []schema.LifecycleRecord, cfg *contract.Config) ([]schema.LifecycleRecord, []string) {
	clean := make([]schema.LifecycleRecord, 0, len(records))
	var warnings []string
	for _, r := range records {
		if cfg.IsDoneStatus(r.Status) && !r.Resolved() {
			warnings = append(warnings, fmt.Sprintf("excluded %s: status %q implies completion but no resolution timestamp", r.Key, r.Status))
			continue
		}
		clean = append(clean, r)
	}
	return clean, warnings
}
