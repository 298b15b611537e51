package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowlens/flowlens/core/stats"
	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// periodSample is the per-period aggregate collected during the lookback.
type periodSample struct {
	period    string
	completed int
	perDay    float64
	meanLead  float64
}

// computeBaseline builds the rolling capacity baseline from the N prior
// periods. The per-period fetches are independent, so they fan out across a
// worker pool; the final aggregate only uses order-independent reductions
// (sums, means, min/max), so completion order does not matter.
//
// Periods with no data are skipped, never treated as zero. When not a
// single prior period has data the baseline is reported as unavailable
// rather than computed from nothing, and the overall capacity calculation
// carries on.
func computeBaseline(ctx context.Context, cfg *contract.Config, source contract.RecordSource, currentCompleted int, currentPerDay, currentLead float64) (schema.CapacityBaseline, []string) {
	periods := cfg.HistoricalPeriods
	if len(periods) > cfg.LookbackPeriods {
		periods = periods[:cfg.LookbackPeriods]
	}

	baseline := schema.CapacityBaseline{PeriodsRequested: len(periods)}
	if source == nil || len(periods) == 0 {
		return baseline, nil
	}

	periodCh := make(chan string, len(periods))
	sampleCh := make(chan periodSample, len(periods))
	warnCh := make(chan string, len(periods))

	// A non-positive worker count would start no goroutines and silently
	// report the baseline unavailable.
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(periods) {
		workers = len(periods)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for period := range periodCh {
				sample, warn, ok := fetchPeriodSample(ctx, cfg, source, period)
				if warn != "" {
					warnCh <- warn
				}
				if ok {
					sampleCh <- sample
				}
			}
		})
	}
	for _, p := range periods {
		periodCh <- p
	}
	close(periodCh)
	wg.Wait()
	close(sampleCh)
	close(warnCh)

	var warnings []string
	for w := range warnCh {
		warnings = append(warnings, w)
	}

	var samples []periodSample
	for s := range sampleCh {
		samples = append(samples, s)
	}
	if len(samples) == 0 {
		return baseline, warnings
	}

	counts := make([]float64, len(samples))
	perDays := make([]float64, len(samples))
	leadSamples := make([]float64, 0, len(samples))
	for i, s := range samples {
		counts[i] = float64(s.completed)
		perDays[i] = s.perDay
		if s.meanLead > 0 {
			leadSamples = append(leadSamples, s.meanLead)
		}
	}

	minCount, maxCount, _ := stats.MinMax(counts)
	baseline.Available = true
	baseline.PeriodsWithData = len(samples)
	baseline.AvgCompletedPerPd = stats.Mean(counts)
	baseline.AvgThroughputPerDay = stats.Mean(perDays)
	baseline.MinCompleted = int(minCount)
	baseline.MaxCompleted = int(maxCount)
	baseline.AvgLeadTimeDays = stats.Mean(leadSamples)
	if sd, ok := stats.StdDev(counts); ok {
		baseline.StdDevCompleted = &sd
	}

	if baseline.AvgCompletedPerPd > 0 {
		baseline.CapacityUtilization = float64(currentCompleted) / baseline.AvgCompletedPerPd * 100
	}
	if baseline.AvgThroughputPerDay > 0 {
		baseline.ThroughputVsBaseline = (currentPerDay - baseline.AvgThroughputPerDay) / baseline.AvgThroughputPerDay * 100
	}
	if baseline.AvgLeadTimeDays > 0 {
		baseline.LeadTimeVsBaseline = (currentLead - baseline.AvgLeadTimeDays) / baseline.AvgLeadTimeDays * 100
	}
	return baseline, warnings
}

// fetchPeriodSample fetches and reduces one historical period. A fetch
// error or an empty period is reported as a warning and skipped; retry and
// backoff policy belongs to the RecordSource implementation, not here.
func fetchPeriodSample(ctx context.Context, cfg *contract.Config, source contract.RecordSource, period string) (periodSample, string, bool) {
	records, err := source.FetchRecords(ctx, cfg.Scope, period)
	if err != nil {
		return periodSample{}, fmt.Sprintf("baseline period %s skipped: %v", period, err), false
	}

	var leads []float64
	completed := 0
	for i := range records {
		if lead, ok := records[i].LeadTimeDays(); ok {
			completed++
			leads = append(leads, lead)
		}
	}
	if completed == 0 {
		return periodSample{}, fmt.Sprintf("baseline period %s has no completed items", period), false
	}

	return periodSample{
		period:    period,
		completed: completed,
		perDay:    float64(completed) / cfg.PeriodDays,
		meanLead:  stats.Mean(leads),
	}, "", true
}
