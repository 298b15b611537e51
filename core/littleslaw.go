package core

import (
	"context"
	"math"
	"sort"

	"github.com/flowlens/flowlens/core/stats"
	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// CalculateCapacity reconciles throughput, lead time and WIP under Little's
// Law for one scope and period, derives stage-level WIP targets, attaches a
// historical capacity baseline and reconciles planning commitments.
//
// Lambda, W and L are all derived from the same completed-item set, so the
// identity L = lambda * W holds exactly by construction. The records are
// assumed to be scoped to the period by the caller; source is only used for
// the historical-baseline lookback and may be nil to skip it.
func CalculateCapacity(ctx context.Context, records []schema.LifecycleRecord, cfg *contract.Config, source contract.RecordSource) (*schema.LittlesLawMetrics, error) {
	if cfg.PeriodDays <= 0 {
		return nil, contract.NewConfigError("period-days", "must be positive")
	}

	clean, warnings := partitionRecords(records, cfg)

	completed := make([]schema.LifecycleRecord, 0, len(clean))
	for _, r := range clean {
		if r.Resolved() {
			completed = append(completed, r)
		}
	}
	if len(completed) < cfg.MinSampleSize {
		return nil, &contract.InsufficientDataError{Got: len(completed), Need: cfg.MinSampleSize}
	}

	leads := make([]float64, 0, len(completed))
	for _, r := range completed {
		if lead, ok := r.LeadTimeDays(); ok {
			leads = append(leads, lead)
		}
	}

	lambda := float64(len(completed)) / cfg.PeriodDays
	w := stats.Mean(leads)

	m := &schema.LittlesLawMetrics{
		Scope:            cfg.Scope,
		Period:           cfg.Period,
		PeriodDays:       cfg.PeriodDays,
		CompletedCount:   len(completed),
		ThroughputPerDay: lambda,
		AvgLeadTimeDays:  w,
		PredictedWIP:     lambda * w,
		FlowEfficiency:   flowEfficiency(completed, cfg),
		StageMetrics:     stageMetrics(completed, lambda, cfg),

		TargetLeadTimeDays: cfg.TargetLeadTimeDays,
		OptimalWIP:         lambda * cfg.TargetLeadTimeDays,

		Planning: planningAnalysis(clean, cfg),
	}
	// The sign is meaningful: negative means current WIP is already below
	// the optimal target, so no reduction is needed.
	m.WIPReduction = m.PredictedWIP - m.OptimalWIP

	baseline, baselineWarnings := computeBaseline(ctx, cfg, source, len(completed), lambda, w)
	m.Capacity = baseline
	warnings = append(warnings, baselineWarnings...)

	m.Severity = classifySeverity(w, m.FlowEfficiency, cfg.Severity)
	m.Warnings = warnings
	return m, nil
}

// flowEfficiency is the share of total lead time spent in the configured
// active stages, in percent.
func flowEfficiency(completed []schema.LifecycleRecord, cfg *contract.Config) float64 {
	var activeSum, leadSum float64
	for _, r := range completed {
		lead, ok := r.LeadTimeDays()
		if !ok {
			continue
		}
		leadSum += lead
		for stage, days := range r.StageDays {
			if days > 0 && cfg.IsActiveStage(stage) {
				activeSum += days
			}
		}
	}
	if leadSum <= 0 {
		return 0
	}
	return activeSum / leadSum * 100
}

// stageMetrics maps Little's Law onto each stage with observations:
// stage WIP = lambda * stage mean time. The recommended limit adds a 20%
// buffer and rounds up, so a limit is never below the predicted load.
func stageMetrics(completed []schema.LifecycleRecord, lambda float64, cfg *contract.Config) []schema.StageMetric {
	metrics := make([]schema.StageMetric, 0, len(cfg.StageOrder))
	for _, stage := range cfg.StageOrder {
		durations := stageDurations(completed, stage)
		if len(durations) == 0 {
			continue
		}
		mean := stats.Mean(durations)
		wip := lambda * mean
		metrics = append(metrics, schema.StageMetric{
			Stage:            stage,
			AvgDays:          mean,
			Observations:     len(durations),
			WIP:              wip,
			RecommendedLimit: int(math.Ceil(wip * 1.2)),
		})
	}
	return metrics
}

// planningAnalysis classifies items by their planning-time commitment flag
// and reconciles committed work against deliveries. Items without a flag
// count as uncommitted.
func planningAnalysis(records []schema.LifecycleRecord, cfg *contract.Config) schema.PlanningAnalysis {
	var pa schema.PlanningAnalysis
	missedByTeam := make(map[string][]string)

	for _, r := range records {
		switch r.Commitment {
		case schema.Committed:
			pa.CommittedCount++
			if r.Resolved() {
				pa.DeliveredCommit++
			} else {
				pa.MissedCommit++
				missedByTeam[r.Team] = append(missedByTeam[r.Team], r.Key)
			}
		case schema.PostPeriod:
			pa.PostPeriodCount++
		default:
			pa.UncommittedCount++
		}
	}

	// 0, not a division error, when nothing was committed.
	if pa.CommittedCount > 0 {
		pa.PlanningAccuracy = float64(pa.DeliveredCommit) / float64(pa.CommittedCount) * 100
		pa.MissRate = float64(pa.MissedCommit) / float64(pa.CommittedCount) * 100
	}
	pa.SystemicMiss = pa.MissRate > cfg.SystemicMissPct

	for team, keys := range missedByTeam {
		sort.Strings(keys)
		pa.MissesByTeam = append(pa.MissesByTeam, schema.TeamMisses{
			Team:   team,
			Missed: len(keys),
			Keys:   keys,
		})
	}
	sort.Slice(pa.MissesByTeam, func(i, j int) bool {
		if pa.MissesByTeam[i].Missed != pa.MissesByTeam[j].Missed {
			return pa.MissesByTeam[i].Missed > pa.MissesByTeam[j].Missed
		}
		return pa.MissesByTeam[i].Team < pa.MissesByTeam[j].Team
	})
	return pa
}

// classifySeverity walks the threshold ladder over lead time and flow
// efficiency, worst rung first.
func classifySeverity(leadDays, efficiencyPct float64, t contract.SeverityThresholds) schema.Severity {
	switch {
	case leadDays > t.LeadTimeCritical || efficiencyPct < t.EffCritical:
		return schema.CriticalSeverity
	case leadDays > t.LeadTimeWarning || efficiencyPct < t.EffWarning:
		return schema.WarningSeverity
	case leadDays > t.LeadTimeInfo || efficiencyPct < t.EffInfo:
		return schema.InfoSeverity
	default:
		return schema.SuccessSeverity
	}
}
