// Package main provides a performance benchmarking tool for the flowlens CLI.
// It generates synthetic lifecycle datasets of increasing size, times each
// analysis command across repeated runs, treats the first run as cold and
// averages the rest as warm, and writes CSV output for tracking.
//
// Prerequisites:
// - flowlens binary installed and available in PATH
//
// Usage: go run benchmark/main.go [output-dir]
//
//	output-dir: Directory for generated datasets and results
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/flowlens/flowlens/schema"
)

// BenchmarkResult holds the timing for one command against one dataset.
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	OutputDir    string
	Timeout      time.Duration
	Runs         int
	DatasetSizes map[string]int
}

var stages = []string{"Backlog", "Analysis", "In Progress", "In Review", "Testing"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [output-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		OutputDir: os.Args[1],
		Timeout:   2 * time.Minute,
		Runs:      4,
		DatasetSizes: map[string]int{
			"small":  1_000,
			"medium": 10_000,
			"large":  100_000,
		},
	}

	if _, err := exec.LookPath("flowlens"); err != nil {
		fmt.Println("flowlens binary not found in PATH")
		os.Exit(1)
	}

	var results []BenchmarkResult
	for name, size := range config.DatasetSizes {
		fmt.Printf("Generating %s dataset (%d records)\n", name, size)
		path, err := generateDataset(config.OutputDir, name, size)
		if err != nil {
			fmt.Printf("Failed to generate dataset: %v\n", err)
			os.Exit(1)
		}

		for _, command := range [][]string{
			{"flow", "--start", "2026-06-01", "--end", "2026-08-24"},
			{"bottlenecks"},
			{"stuck"},
			{"capacity", "--period", "PI-2026.3", "--period-days", "84"},
		} {
			results = append(results, runBenchmarkSuite(config, name, path, command))
		}
	}

	if err := saveResults(config.OutputDir, results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// generateDataset writes a synthetic JSON export with a mix of completed and
// unresolved items spread over a single period.
func generateDataset(dir, name string, size int) (string, error) {
	rng := rand.New(rand.NewSource(42))
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	records := make([]schema.LifecycleRecord, 0, size)
	for i := range size {
		r := schema.LifecycleRecord{
			Key:        fmt.Sprintf("FL-%d", i+1),
			Type:       "Story",
			Status:     "In Progress",
			Team:       fmt.Sprintf("team-%d", i%8),
			Train:      "Orion",
			Period:     "PI-2026.3",
			CreatedAt:  created.AddDate(0, 0, rng.Intn(30)),
			StageDays:  map[string]float64{},
			Commitment: schema.Committed,
		}
		for _, stage := range stages[:1+rng.Intn(len(stages))] {
			r.StageDays[stage] = float64(rng.Intn(20)) + rng.Float64()
		}
		// Roughly 70% of items complete within the period.
		if rng.Float64() < 0.7 {
			resolved := r.CreatedAt.AddDate(0, 0, 5+rng.Intn(40))
			r.Status = "Done"
			r.ResolvedAt = &resolved
		}
		records = append(records, r)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite times one command against one dataset.
func runBenchmarkSuite(config BenchmarkConfig, dataset, inputPath string, command []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command[0], dataset)

	var coldTime float64
	var warmTimes []float64
	for run := range config.Runs {
		args := append(append([]string{}, command...), "--input", inputPath, "--output", "json", "--output-file", os.DevNull)
		cmd := exec.Command("flowlens", args...)

		start := time.Now()
		err := cmd.Run()
		elapsed := time.Since(start).Seconds()
		if err != nil || elapsed > config.Timeout.Seconds() {
			fmt.Printf("  run %d failed or timed out: %v\n", run+1, err)
			continue
		}
		if run == 0 {
			coldTime = elapsed
		} else {
			warmTimes = append(warmTimes, elapsed)
		}
	}

	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}
	coldStr := "TIMEOUT"
	if coldTime > 0 {
		coldStr = fmt.Sprintf("%.3fs", coldTime)
	}
	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command[0],
		ColdTime: coldStr,
		WarmTime: warmAvg,
	}
}

// saveResults writes the benchmark results as CSV.
func saveResults(dir string, results []BenchmarkResult) error {
	file, err := os.Create(filepath.Join(dir, "benchmark_results.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "command", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}

// printSummary prints a readable recap of every benchmark row.
func printSummary(results []BenchmarkResult) {
	fmt.Println("\nBenchmark summary:")
	for _, r := range results {
		fmt.Printf("  %-8s %-12s cold=%-10s warm=%s\n", r.Dataset, r.Command, r.ColdTime, r.WarmTime)
	}
}
