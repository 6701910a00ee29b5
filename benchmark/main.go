// Package main provides a performance benchmarking tool for the repocensus CLI.
// It measures local census execution times across mirrors of different sizes,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - repocensus binary installed and available in PATH
// - Test mirrors prepared under the specified base directory, one subdirectory per mirror,
//   each containing one or more repository working trees
//
// Usage: go run benchmark/main.go [mirror-base-dir]
//
//	mirror-base-dir: Directory containing test mirrors
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Mirror      string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	MirrorBase  string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [mirror-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	mirrorBase := os.Args[1]

	config := BenchmarkConfig{
		MirrorBase:  mirrorBase,
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	mirrors, err := discoverMirrors(config.MirrorBase)
	if err != nil {
		fmt.Printf("Failed to discover mirrors: %v\n", err)
		os.Exit(1)
	}
	if len(mirrors) == 0 {
		fmt.Printf("No mirrors found under %s\n", config.MirrorBase)
		os.Exit(1)
	}

	var results []BenchmarkResult
	for _, mirror := range mirrors {
		fmt.Printf("Benchmarking mirror %s\n", mirror)
		result, err := benchmarkMirror(config, mirror)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", mirror, err)
			continue
		}
		results = append(results, result)
	}

	if err := writeResultsCSV(results, os.Stdout); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
}

// discoverMirrors lists the immediate subdirectories of the mirror base.
func discoverMirrors(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	var mirrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			mirrors = append(mirrors, filepath.Join(base, entry.Name()))
		}
	}
	return mirrors, nil
}

// benchmarkMirror times repeated census runs against one mirror.
func benchmarkMirror(config BenchmarkConfig, mirror string) (BenchmarkResult, error) {
	workers := fmt.Sprintf("%d", config.Workers)

	// Uncached runs: caching disabled entirely
	var noCacheTotal time.Duration
	for i := 0; i < config.NoCacheRuns; i++ {
		elapsed, err := runOnce(config.Timeout, "local", mirror, "--cache-backend", "none", "--workers", workers)
		if err != nil {
			return BenchmarkResult{}, err
		}
		noCacheTotal += elapsed
	}

	// Clear the cache so the first cached run is genuinely cold
	if _, err := runOnce(config.Timeout, "cache", "clear"); err != nil {
		return BenchmarkResult{}, err
	}

	var coldTime time.Duration
	var warmTotal time.Duration
	for i := 0; i < config.CacheRuns; i++ {
		elapsed, err := runOnce(config.Timeout, "local", mirror, "--workers", workers)
		if err != nil {
			return BenchmarkResult{}, err
		}
		if i == 0 {
			coldTime = elapsed
		} else {
			warmTotal += elapsed
		}
	}

	return BenchmarkResult{
		Mirror:      filepath.Base(mirror),
		NoCacheTime: fmt.Sprintf("%.2fs", noCacheTotal.Seconds()/float64(config.NoCacheRuns)),
		ColdTime:    fmt.Sprintf("%.2fs", coldTime.Seconds()),
		WarmTime:    fmt.Sprintf("%.2fs", warmTotal.Seconds()/float64(config.CacheRuns-1)),
	}, nil
}

// runOnce runs the repocensus binary with the given arguments and returns the elapsed time.
func runOnce(timeout time.Duration, args ...string) (time.Duration, error) {
	cmd := exec.Command("repocensus", args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	start := time.Now()
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return 0, fmt.Errorf("command failed: %w", err)
		}
		return time.Since(start), nil
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return 0, fmt.Errorf("command timed out after %v", timeout)
	}
}

// writeResultsCSV renders the benchmark table as CSV.
func writeResultsCSV(results []BenchmarkResult, out *os.File) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"mirror", "no_cache_avg", "cold", "warm_avg"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{r.Mirror, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}
