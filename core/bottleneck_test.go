package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/schema"
)

// TestScoreStagesFallbackFormula tests scoring without configured
// expectations: (mean / 10) + (exceeding / total * 100).
func TestScoreStagesFallbackFormula(t *testing.T) {
	cfg := testConfig()
	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"In Review": 5}),
		openRecord("FL-2", map[string]float64{"In Review": 15}),
	}

	scores := ScoreStages(records, cfg)
	require.Len(t, scores, 1)

	s := scores[0]
	assert.Equal(t, "In Review", s.Stage)
	assert.InDelta(t, 10.0, s.MeanDays, 1e-9)
	assert.InDelta(t, 15.0, s.MaxDays, 1e-9)
	assert.Equal(t, 1, s.ItemsExceeding)
	assert.Equal(t, 2, s.TotalItems)
	// 10/10 + 1/2*100 = 51
	assert.InDelta(t, 51.0, s.Score, 1e-9)
	assert.False(t, s.AgainstExpectation)
}

// TestScoreStagesAgainstExpectation tests the expectation-relative variant:
// (mean / expected) * 100.
func TestScoreStagesAgainstExpectation(t *testing.T) {
	cfg := testConfig()
	cfg.ExpectedStageDays = map[string]float64{"Testing": 2.5}
	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"Testing": 5}),
	}

	scores := ScoreStages(records, cfg)
	require.Len(t, scores, 1)
	assert.InDelta(t, 200.0, scores[0].Score, 1e-9)
	assert.Equal(t, 2.5, scores[0].ExpectedDays)
	assert.True(t, scores[0].AgainstExpectation)
}

// TestScoreStagesSkipsEmptyStages tests that stages without observations
// produce no score at all.
func TestScoreStagesSkipsEmptyStages(t *testing.T) {
	cfg := testConfig()
	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"Analysis": 3}),
	}

	scores := ScoreStages(records, cfg)
	require.Len(t, scores, 1)
	assert.Equal(t, "Analysis", scores[0].Stage)
}

// TestScoreStagesMonotonicity tests that more dwell time never lowers a
// stage's score, for both formula variants.
func TestScoreStagesMonotonicity(t *testing.T) {
	for name, expected := range map[string]map[string]float64{
		"fallback":    nil,
		"expectation": {"Testing": 4},
	} {
		t.Run(name, func(t *testing.T) {
			prev := -1.0
			for _, days := range []float64{2, 6, 12, 30} {
				cfg := testConfig()
				cfg.ExpectedStageDays = expected
				records := []schema.LifecycleRecord{
					openRecord("FL-1", map[string]float64{"Testing": days}),
				}
				scores := ScoreStages(records, cfg)
				require.Len(t, scores, 1)
				assert.Greater(t, scores[0].Score, prev)
				prev = scores[0].Score
			}
		})
	}
}

// TestScoreStagesOrdering tests that output is sorted worst first with
// deterministic tie-breaks.
func TestScoreStagesOrdering(t *testing.T) {
	cfg := testConfig()
	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"Analysis": 2, "In Progress": 20, "Testing": 8}),
		openRecord("FL-2", map[string]float64{"Analysis": 2, "In Progress": 18, "Testing": 8}),
	}

	scores := ScoreStages(records, cfg)
	require.Len(t, scores, 3)
	assert.Equal(t, "In Progress", scores[0].Stage)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
}

// TestFindStuckItems tests threshold strictness, per-stage records and the
// current-stage flag.
func TestFindStuckItems(t *testing.T) {
	cfg := testConfig() // default threshold 10

	t.Run("exactly at threshold is not stuck", func(t *testing.T) {
		records := []schema.LifecycleRecord{
			openRecord("FL-1", map[string]float64{"In Progress": 10}),
		}
		assert.Empty(t, FindStuckItems(records, cfg))
	})

	t.Run("resolved items never count", func(t *testing.T) {
		records := []schema.LifecycleRecord{
			doneRecord("FL-1", 40, map[string]float64{"In Progress": 30}),
		}
		assert.Empty(t, FindStuckItems(records, cfg))
	})

	t.Run("one record per over-threshold stage", func(t *testing.T) {
		records := []schema.LifecycleRecord{
			openRecord("FL-1", map[string]float64{"Analysis": 12, "In Progress": 11, "Testing": 3}),
		}
		stuck := FindStuckItems(records, cfg)
		require.Len(t, stuck, 2)
		// Sorted by days desc.
		assert.Equal(t, "Analysis", stuck[0].Stage)
		assert.False(t, stuck[0].CurrentStage)
		assert.Equal(t, "In Progress", stuck[1].Stage)
		assert.False(t, stuck[1].CurrentStage, "Testing has nonzero duration and is the current stage")
	})

	t.Run("current stage flagged", func(t *testing.T) {
		records := []schema.LifecycleRecord{
			openRecord("FL-1", map[string]float64{"In Review": 14}),
		}
		stuck := FindStuckItems(records, cfg)
		require.Len(t, stuck, 1)
		assert.True(t, stuck[0].CurrentStage)
	})

	t.Run("per-stage threshold override", func(t *testing.T) {
		override := testConfig()
		override.StageThresholds = map[string]float64{"In Review": 3}
		records := []schema.LifecycleRecord{
			openRecord("FL-1", map[string]float64{"In Review": 5, "In Progress": 5}),
		}
		stuck := FindStuckItems(records, override)
		require.Len(t, stuck, 1)
		assert.Equal(t, "In Review", stuck[0].Stage)
	})
}

// TestGroupMultiStageStuck tests the cross-stage grouping.
func TestGroupMultiStageStuck(t *testing.T) {
	cfg := testConfig()
	records := []schema.LifecycleRecord{
		openRecord("FL-1", map[string]float64{"Analysis": 12, "In Review": 11}),
		openRecord("FL-2", map[string]float64{"Testing": 25}),
	}

	stuck := FindStuckItems(records, cfg)
	multi := GroupMultiStageStuck(stuck)

	require.Len(t, multi, 1, "single-stage stuck items are excluded")
	assert.Equal(t, "FL-1", multi[0].Key)
	assert.Equal(t, 2, multi[0].StageCount)
	assert.InDelta(t, 23.0, multi[0].TotalDays, 1e-9)
	assert.ElementsMatch(t, []string{"Analysis", "In Review"}, multi[0].Stages)
}
