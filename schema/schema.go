// Package schema has record and result models shared by all parts of flowlens.
package schema

import "time"

// LifecycleRecord is one work item's full stage history as supplied by the
// ingestion side. Records are immutable inputs; the engine never mutates them.
type LifecycleRecord struct {
	Key        string             `json:"key"`                   // Unique issue key, e.g. "PROJ-123"
	Type       string             `json:"type"`                  // Item type, e.g. "Story", "Bug", "Feature"
	Status     string             `json:"status"`                // Current workflow status
	Team       string             `json:"team,omitempty"`        // Owning team label
	Train      string             `json:"train,omitempty"`       // Release train label
	Period     string             `json:"period,omitempty"`      // Planning period (PI) label
	CreatedAt  time.Time          `json:"created_at"`            // Creation timestamp
	StartedAt  *time.Time         `json:"started_at,omitempty"`  // First transition into an active stage
	ResolvedAt *time.Time         `json:"resolved_at,omitempty"` // Resolution timestamp, nil while open
	StageDays  map[string]float64 `json:"stage_days,omitempty"`  // Days spent per workflow stage
	Commitment Commitment         `json:"commitment,omitempty"`  // Planning-time commitment class
}

// Resolved reports whether the item has a terminal resolution timestamp.
func (r *LifecycleRecord) Resolved() bool {
	return r.ResolvedAt != nil && !r.ResolvedAt.IsZero()
}

// LeadTimeDays returns the elapsed days from creation to resolution.
// The second return value is false for unresolved items.
func (r *LifecycleRecord) LeadTimeDays() (float64, bool) {
	if !r.Resolved() {
		return 0, false
	}
	return r.ResolvedAt.Sub(r.CreatedAt).Hours() / 24.0, true
}

// CycleTimeDays returns the elapsed days from the start of active work to
// resolution. The second return value is false when the item is unresolved
// or never entered an active stage.
func (r *LifecycleRecord) CycleTimeDays() (float64, bool) {
	if !r.Resolved() || r.StartedAt == nil || r.StartedAt.IsZero() {
		return 0, false
	}
	return r.ResolvedAt.Sub(*r.StartedAt).Hours() / 24.0, true
}

// CurrentStage returns the stage the item is sitting in right now, using the
// last stage in the canonical ordering that has nonzero recorded duration.
// Transition history is not part of the record, so this duration heuristic
// is the only inference available. Returns "" when no stage has duration.
func (r *LifecycleRecord) CurrentStage(stageOrder []string) string {
	current := ""
	for _, stage := range stageOrder {
		if r.StageDays[stage] > 0 {
			current = stage
		}
	}
	return current
}

// InProgressOn reports whether the item counts as in progress on the given
// day: created on or before d, and either unresolved or resolved on or
// after d.
func (r *LifecycleRecord) InProgressOn(d time.Time) bool {
	if r.CreatedAt.After(d) {
		return false
	}
	return !r.Resolved() || !r.ResolvedAt.Before(d)
}

// TimeWindow is an analysis interval. Constructed by the caller per request.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

// DurationDays returns the window length in days. May be zero or negative
// for degenerate windows; callers decide how to treat those.
func (w TimeWindow) DurationDays() float64 {
	return w.End.Sub(w.Start).Hours() / 24.0
}

// Contains reports whether t falls inside the window, inclusive on both ends.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
