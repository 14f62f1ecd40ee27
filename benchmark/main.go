// Package main provides a performance benchmarking tool for the ragboard CLI.
// It generates synthetic status tables of increasing size, times the show and ingest
// commands on each one (the first successful run is cold, the rest are averaged as warm),
// and writes the results to a CSV file.
//
// Prerequisites:
// - ragboard binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated data files (default: a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one dataset.
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Datasets map[string]int // name -> data rows
	Order    []string
}

var (
	targets = []string{
		"24/7 availability",
		"Competitive customer satisfaction and brand trust",
		"Competitive return on investment capital",
		"Employee engagement",
		"Solid risk management & compliance",
	}
	labels = []string{"On track", "At risk", "Not on track", "Done", "On hold", "TBD", "ontrack", "AtRisk", ""}
)

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	workDir := ""
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "ragboard-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Runs:    5,
		Datasets: map[string]int{
			"small":  1_000,
			"medium": 20_000,
			"large":  200_000,
		},
		Order: []string{"small", "medium", "large"},
	}

	if _, err := exec.LookPath("ragboard"); err != nil {
		fmt.Printf("Prerequisites check failed: ragboard binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}
	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// runBenchmarks generates every dataset and times each command on it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult
	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs\n", len(config.Order), config.Timeout, config.Runs)

	for _, name := range config.Order {
		path := filepath.Join(config.WorkDir, name+".tsv")
		if err := generateDataset(path, config.Datasets[name]); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}
		fmt.Printf("Benchmarking %s (%d rows)\n", name, config.Datasets[name])

		out := filepath.Join(config.WorkDir, name+".json")
		results = append(results,
			runBenchmarkSuite(config, name, "show", []string{"show", path, "--output", "json", "--output-file", out}),
			runBenchmarkSuite(config, name, "ingest", []string{"ingest", path, "--history-backend", "none"}),
		)
	}
	return results, nil
}

// generateDataset writes rows spread over two years and four PI cycles.
// Objectives repeat so the roll-up has several signals to merge.
func generateDataset(path string, n int) error {
	var sb strings.Builder
	sb.WriteString("Year\tPI\tStrategic Target\tObjective\tRAG\n")
	rng := rand.New(rand.NewPCG(42, uint64(n)))
	for i := range n {
		year := 2024 + i%2
		pi := 1 + (i/2)%4
		target := targets[rng.IntN(len(targets))]
		objective := fmt.Sprintf("Objective %d", rng.IntN(n/3+1))
		label := labels[rng.IntN(len(labels))]
		fmt.Fprintf(&sb, "%d\tPI%d\t%s\t%s\t%s\n", year, pi, target, objective, label)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// runBenchmarkSuite times args config.Runs times and summarizes cold and warm runs.
func runBenchmarkSuite(config BenchmarkConfig, dataset, command string, args []string) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", command, config.Runs)
	var times []float64
	for range config.Runs {
		if t, ok := runOnce(config.Timeout, args); ok {
			times = append(times, t)
		}
	}

	result := BenchmarkResult{Dataset: dataset, Command: command, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}
	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runOnce executes ragboard once and reports the elapsed seconds on success.
func runOnce(timeout time.Duration, args []string) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if _, err := exec.CommandContext(ctx, "ragboard", args...).CombinedOutput(); err != nil {
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("ragboard_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"show", "ingest"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s cold %-10s warm %s\n", result.Dataset, result.ColdTime, result.WarmTime)
			}
		}
	}
}
