package schema

// BottleneckScore is the congestion signal for one workflow stage.
// Recomputed on every call, never cached.
type BottleneckScore struct {
	Stage              string  `json:"stage"`
	Score              float64 `json:"score"`
	MeanDays           float64 `json:"mean_days"`
	MaxDays            float64 `json:"max_days"`
	ItemsExceeding     int     `json:"items_exceeding_threshold"`
	TotalItems         int     `json:"total_items"`
	ExpectedDays       float64 `json:"expected_days,omitempty"` // 0 when no expectation was configured
	AgainstExpectation bool    `json:"against_expectation"`     // true when Score = mean/expected * 100
}

// StuckItemRecord is one item sitting over threshold in one stage. An item
// produces one record per stage it is or was stuck in.
type StuckItemRecord struct {
	Key          string  `json:"key"`
	Stage        string  `json:"stage"`
	DaysInStage  float64 `json:"days_in_stage"`
	CurrentStage bool    `json:"current_stage"` // true for the stage the item sits in now
}

// MultiStageStuckItem flags an item stuck in two or more distinct stages,
// a hidden-dependency signal independent of the per-stage scores.
type MultiStageStuckItem struct {
	Key        string   `json:"key"`
	StageCount int      `json:"stage_count"`
	TotalDays  float64  `json:"total_days"`
	Stages     []string `json:"stages"`
}
