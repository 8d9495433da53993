// Package main provides a performance benchmarking tool for the opsreport CLI.
// It generates synthetic accessibility reports of increasing size, runs the a11y
// pipeline against each one several times with and without run history,
// and writes the timings to a CSV file.
//
// Prerequisites:
// - opsreport binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic reports and history databases are written
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the averages of one report size for each history backend.
type BenchmarkResult struct {
	Size        int
	NoneTime    string
	SQLiteTime  string
	FirstSQLite string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Runs    int
	Sizes   []int
}

// specTitles cycles through names that hit different recommendation rules.
var specTitles = []string{
	"Color Contrast Check",
	"Keyboard navigation",
	"Form labels",
	"Image alt text",
	"Heading order",
	"ARIA landmarks",
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    4,
		Sizes:   []int{100, 1000, 10000, 100000},
	}

	if _, err := exec.LookPath("opsreport"); err != nil {
		fmt.Printf("Prerequisites check failed: opsreport binary not found in PATH\n")
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

// runBenchmarks generates a report per size and times the a11y command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d runs\n", len(config.Sizes), config.Timeout, config.Runs)

	var results []BenchmarkResult
	for _, size := range config.Sizes {
		dir := filepath.Join(config.WorkDir, fmt.Sprintf("size-%d", size))
		if err := writeSyntheticReport(dir, size); err != nil {
			return nil, err
		}
		fmt.Printf("Benchmarking %d tests\n", size)

		_, noneTimes := runBenchmark(config, dir, "none", "")
		dbPath := filepath.Join(dir, "history.db")
		_ = os.Remove(dbPath)
		first, sqliteTimes := runBenchmark(config, dir, "sqlite", dbPath)

		result := BenchmarkResult{
			Size:        size,
			NoneTime:    average(noneTimes),
			SQLiteTime:  average(sqliteTimes),
			FirstSQLite: "TIMEOUT",
		}
		if first > 0 {
			result.FirstSQLite = fmt.Sprintf("%.3fs", first)
		}
		fmt.Printf("  none: %s, sqlite first: %s, sqlite average: %s\n", result.NoneTime, result.FirstSQLite, result.SQLiteTime)
		results = append(results, result)
	}
	return results, nil
}

// writeSyntheticReport writes a report with size tests spread over nested suites.
func writeSyntheticReport(dir string, size int) error {
	type result struct {
		Status string `json:"status"`
	}
	type test struct {
		Results []result `json:"results"`
	}
	type spec struct {
		Title string `json:"title"`
		Tests []test `json:"tests"`
	}
	type suite struct {
		Title  string  `json:"title"`
		Specs  []spec  `json:"specs"`
		Suites []suite `json:"suites,omitempty"`
	}

	const perSuite = 50
	var root suite
	root.Title = "root"
	for i := 0; i < size; i += perSuite {
		child := suite{Title: fmt.Sprintf("suite-%d", i/perSuite)}
		for j := i; j < min(i+perSuite, size); j++ {
			status := "passed"
			if j%7 == 0 {
				status = "failed"
			}
			child.Specs = append(child.Specs, spec{
				Title: specTitles[j%len(specTitles)],
				Tests: []test{{Results: []result{{Status: status}}}},
			})
		}
		root.Suites = append(root.Suites, child)
	}

	data, err := json.Marshal(map[string][]suite{"suites": {root}})
	if err != nil {
		return err
	}
	reportDir := filepath.Join(dir, "test-results")
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(reportDir, "accessibility-results.json"), data, 0o644)
}

// runBenchmark executes the a11y command numRuns times and returns the first time and the rest.
func runBenchmark(config BenchmarkConfig, dir, backend, connStr string) (first float64, rest []float64) {
	args := []string{"a11y", "--history-backend", backend, "--color", "no"}
	if connStr != "" {
		args = append(args, "--history-db-connect", connStr)
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "opsreport", args...)
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		first = times[0]
		rest = times[1:]
	}
	return first, rest
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Summary completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/opsreport_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"tests", "none_avg", "sqlite_first", "sqlite_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Size), result.NoneTime, result.FirstSQLite, result.SQLiteTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %8d tests: none: %s, sqlite first: %s, sqlite: %s\n", result.Size, result.NoneTime, result.FirstSQLite, result.SQLiteTime)
	}
}
