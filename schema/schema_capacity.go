package schema

// StageMetric is the Little's-Law view of a single workflow stage.
type StageMetric struct {
	Stage            string  `json:"stage"`
	AvgDays          float64 `json:"avg_days"`
	Observations     int     `json:"observations"`
	WIP              float64 `json:"wip"`               // lambda * stage mean time
	RecommendedLimit int     `json:"recommended_limit"` // ceil(WIP * 1.2)
}

// CapacityBaseline is the rolling historical baseline across prior periods.
// Available is false when no prior period had data; all other fields are
// meaningless in that case.
type CapacityBaseline struct {
	Available            bool     `json:"available"`
	PeriodsWithData      int      `json:"periods_with_data"`
	PeriodsRequested     int      `json:"periods_requested"`
	AvgCompletedPerPd    float64  `json:"avg_completed_per_period"`
	AvgThroughputPerDay  float64  `json:"avg_throughput_per_day"`
	MinCompleted         int      `json:"min_completed"`
	MaxCompleted         int      `json:"max_completed"`
	StdDevCompleted      *float64 `json:"stdev_completed,omitempty"`
	AvgLeadTimeDays      float64  `json:"avg_leadtime_days"`
	CapacityUtilization  float64  `json:"capacity_utilization_pct"`
	ThroughputVsBaseline float64  `json:"throughput_vs_baseline_pct"`
	LeadTimeVsBaseline   float64  `json:"leadtime_vs_baseline_pct"`
}

// TeamMisses holds missed committed deliveries for one team.
type TeamMisses struct {
	Team   string   `json:"team"`
	Missed int      `json:"missed"`
	Keys   []string `json:"keys,omitempty"`
}

// PlanningAnalysis reconciles planning commitments against deliveries.
type PlanningAnalysis struct {
	CommittedCount    int          `json:"committed_count"`
	UncommittedCount  int          `json:"uncommitted_count"`
	PostPeriodCount   int          `json:"post_period_count"`
	DeliveredCommit   int          `json:"delivered_committed"`
	MissedCommit      int          `json:"missed_committed"`
	PlanningAccuracy  float64      `json:"planning_accuracy_pct"` // 0 when nothing was committed
	MissRate          float64      `json:"miss_rate_pct"`
	SystemicMiss      bool         `json:"systemic_miss"`
	MissesByTeam      []TeamMisses `json:"misses_by_team,omitempty"`
}

// LittlesLawMetrics is the reconciled capacity model for one scope and period.
// PredictedWIP is derived as ThroughputPerDay * AvgLeadTimeDays by
// construction; it is never measured independently.
type LittlesLawMetrics struct {
	Scope            string  `json:"scope,omitempty"`
	Period           string  `json:"period"`
	PeriodDays       float64 `json:"period_days"`
	CompletedCount   int     `json:"completed_count"`
	ThroughputPerDay float64 `json:"throughput_per_day"` // lambda
	AvgLeadTimeDays  float64 `json:"avg_leadtime_days"`  // W
	PredictedWIP     float64 `json:"predicted_wip"`      // L = lambda * W
	FlowEfficiency   float64 `json:"flow_efficiency_pct"`

	StageMetrics []StageMetric `json:"stage_metrics,omitempty"`

	TargetLeadTimeDays float64 `json:"target_leadtime_days"`
	OptimalWIP         float64 `json:"optimal_wip"`
	WIPReduction       float64 `json:"wip_reduction"` // signed; negative means headroom

	Capacity CapacityBaseline `json:"capacity_analysis"`
	Planning PlanningAnalysis `json:"planning"`

	Severity Severity `json:"severity"`
	Warnings []string `json:"warnings,omitempty"`
}
