package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

var testEpoch = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// testConfig returns a fully populated config with library defaults.
func testConfig() *contract.Config {
	return &contract.Config{
		Period:             "PI-2026.3",
		PeriodDays:         84,
		StageOrder:         contract.DefaultStageOrder,
		ActiveStages:       contract.DefaultActiveStages,
		DoneStatuses:       contract.DefaultDoneStatuses,
		StuckThresholdDays: contract.DefaultStuckThresholdDays,
		TargetLeadTimeDays: contract.DefaultTargetLeadTime,
		LookbackPeriods:    contract.DefaultLookbackPeriods,
		MinSampleSize:      contract.DefaultMinSampleSize,
		SystemicMissPct:    contract.DefaultSystemicMissPct,
		Severity:           contract.DefaultSeverityThresholds,
		Workers:            4,
		ResultLimit:        contract.DefaultResultLimit,
		Precision:          1,
		Output:             schema.TextOut,
	}
}

// doneRecord builds a resolved record with the given lead time in days.
func doneRecord(key string, leadDays float64, stageDays map[string]float64) schema.LifecycleRecord {
	resolved := testEpoch.Add(time.Duration(leadDays * 24 * float64(time.Hour)))
	return schema.LifecycleRecord{
		Key:        key,
		Type:       "Story",
		Status:     "Done",
		Team:       "Atlas",
		Period:     "PI-2026.3",
		CreatedAt:  testEpoch,
		ResolvedAt: &resolved,
		StageDays:  stageDays,
	}
}

// openRecord builds an unresolved record with the given stage history.
func openRecord(key string, stageDays map[string]float64) schema.LifecycleRecord {
	return schema.LifecycleRecord{
		Key:       key,
		Type:      "Story",
		Status:    "In Progress",
		Team:      "Atlas",
		Period:    "PI-2026.3",
		CreatedAt: testEpoch,
		StageDays: stageDays,
	}
}

// fakeSource serves canned records per period and can simulate failures.
type fakeSource struct {
	byPeriod map[string][]schema.LifecycleRecord
	failing  map[string]bool
}

func (f *fakeSource) FetchRecords(_ context.Context, _, period string) ([]schema.LifecycleRecord, error) {
	if f.failing[period] {
		return nil, fmt.Errorf("backend unavailable")
	}
	return f.byPeriod[period], nil
}

func (f *fakeSource) Close() error { return nil }

// TestGetBottlenecksAppliesLimit tests that the orchestration layer trims the
// score list but never the stuck-item records.
func TestGetBottlenecksAppliesLimit(t *testing.T) {
	cfg := testConfig()
	cfg.ResultLimit = 2

	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"Backlog": 12, "Analysis": 13, "In Progress": 14, "Testing": 15}),
	}
	source := &fakeSource{byPeriod: map[string][]schema.LifecycleRecord{"PI-2026.3": records}}

	scores, stuck, multi, err := GetBottlenecks(context.Background(), cfg, source)
	require.NoError(t, err)
	assert.Len(t, scores, 2, "scores respect the result limit")
	assert.Len(t, stuck, 4, "stuck records are never trimmed")
	require.Len(t, multi, 1)
	assert.Equal(t, 4, multi[0].StageCount)
}
