package core

import (
	"sort"

	"github.com/flowlens/flowlens/core/stats"
	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// ScoreStages scores each workflow stage for congestion. Higher score means
// a worse bottleneck. Stages with no observations are skipped entirely;
// absence of data is not evidence of health.
//
// When an expected dwell time is configured for a stage the score is
// (mean / expected) * 100. Without an expectation the fallback formula
// (mean / 10) + (exceeding / total * 100) applies. Both variants grow
// strictly with mean dwell time.
func ScoreStages(records []schema.LifecycleRecord, cfg *contract.Config) []schema.BottleneckScore {
	scores := make([]schema.BottleneckScore, 0, len(cfg.StageOrder))

	for _, stage := range cfg.StageOrder {
		durations := stageDurations(records, stage)
		if len(durations) == 0 {
			continue
		}

		threshold := cfg.StageThreshold(stage)
		exceeding := 0
		for _, d := range durations {
			if d > threshold {
				exceeding++
			}
		}

		mean := stats.Mean(durations)
		_, maxDays, _ := stats.MinMax(durations)

		score := schema.BottleneckScore{
			Stage:          stage,
			MeanDays:       mean,
			MaxDays:        maxDays,
			ItemsExceeding: exceeding,
			TotalItems:     len(durations),
		}
		if expected, ok := cfg.ExpectedStageDays[stage]; ok && expected > 0 {
			score.Score = mean / expected * 100
			score.ExpectedDays = expected
			score.AgainstExpectation = true
		} else {
			score.Score = mean/10 + float64(exceeding)/float64(len(durations))*100
		}
		scores = append(scores, score)
	}

	// Worst first; ties broken by more items over threshold, then stage
	// name, so output order is deterministic.
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].ItemsExceeding != scores[j].ItemsExceeding {
			return scores[i].ItemsExceeding > scores[j].ItemsExceeding
		}
		return scores[i].Stage < scores[j].Stage
	})
	return scores
}

// FindStuckItems returns one record per stage in which an open item has sat
// strictly longer than the stage threshold. Exactly-at-threshold is not
// stuck. Resolved items never count; they are no longer sitting anywhere.
func FindStuckItems(records []schema.LifecycleRecord, cfg *contract.Config) []schema.StuckItemRecord {
	var stuck []schema.StuckItemRecord
	for i := range records {
		r := &records[i]
		if r.Resolved() {
			continue
		}
		current := r.CurrentStage(cfg.StageOrder)
		for _, stage := range cfg.StageOrder {
			days := r.StageDays[stage]
			if days > cfg.StageThreshold(stage) {
				stuck = append(stuck, schema.StuckItemRecord{
					Key:          r.Key,
					Stage:        stage,
					DaysInStage:  days,
					CurrentStage: stage == current,
				})
			}
		}
	}

	sort.Slice(stuck, func(i, j int) bool {
		if stuck[i].DaysInStage != stuck[j].DaysInStage {
			return stuck[i].DaysInStage > stuck[j].DaysInStage
		}
		if stuck[i].Key != stuck[j].Key {
			return stuck[i].Key < stuck[j].Key
		}
		return stuck[i].Stage < stuck[j].Stage
	})
	return stuck
}

// GroupMultiStageStuck aggregates stuck records by item and flags items
// stuck in two or more distinct stages. This cross-stage pattern is a
// hidden-dependency signal, independent of the per-stage scores.
func GroupMultiStageStuck(stuck []schema.StuckItemRecord) []schema.MultiStageStuckItem {
	type agg struct {
		stages []string
		seen   map[string]struct{}
		total  float64
	}
	byKey := make(map[string]*agg)
	for _, s := range stuck {
		a := byKey[s.Key]
		if a == nil {
			a = &agg{seen: make(map[string]struct{})}
			byKey[s.Key] = a
		}
		if _, dup := a.seen[s.Stage]; dup {
			continue
		}
		a.seen[s.Stage] = struct{}{}
		a.stages = append(a.stages, s.Stage)
		a.total += s.DaysInStage
	}

	var out []schema.MultiStageStuckItem
	for key, a := range byKey {
		if len(a.stages) < 2 {
			continue
		}
		out = append(out, schema.MultiStageStuckItem{
			Key:        key,
			StageCount: len(a.stages),
			TotalDays:  a.total,
			Stages:     a.stages,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDays != out[j].TotalDays {
			return out[i].TotalDays > out[j].TotalDays
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// stageDurations collects nonzero dwell times for one stage across records.
func stageDurations(records []schema.LifecycleRecord, stage string) []float64 {
	var durations []float64
	for i := range records {
		if d := records[i].StageDays[stage]; d > 0 {
			durations = append(durations, d)
		}
	}
	return durations
}
