package schema

// DurationStats summarizes a distribution of durations in days.
// StdDev is nil when fewer than two samples are available.
type DurationStats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	P85    float64  `json:"p85"`
	P95    float64  `json:"p95"`
	StdDev *float64 `json:"stdev,omitempty"`
}

// TypeBreakdown holds flow metrics for a single item type.
// Keys come only from items actually present in the input.
type TypeBreakdown struct {
	Completed    int     `json:"completed"`
	Throughput   float64 `json:"throughput_per_day"`
	MeanLeadTime float64 `json:"mean_leadtime_days"`
}

// FlowSnapshot is the flow-metrics result for one scope and time window.
// Produced once per calculation and read-only downstream.
type FlowSnapshot struct {
	Scope          string                   `json:"scope,omitempty"`
	Window         TimeWindow               `json:"window"`
	CompletedCount int                      `json:"completed_count"`
	Throughput     float64                  `json:"throughput_per_day"`
	AvgWIP         float64                  `json:"avg_wip"`
	LeadTime       *DurationStats           `json:"lead_time,omitempty"`
	CycleTime      *DurationStats           `json:"cycle_time,omitempty"`
	ByType         map[string]TypeBreakdown `json:"by_type,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
}
