package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/repocensus/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of census history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no census history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total census runs: %d\n", status.TotalRuns)
	fmt.Printf("Total repository records: %d\n", status.TableSizes[censusRepoTotalsTable])

	// Retrieve all census runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve census runs: %w", err)
	}

	// Retrieve all per-repository totals
	repoTotals, err := store.GetAllRepoTotals()
	if err != nil {
		return fmt.Errorf("failed to retrieve repo totals: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetRepoTotals := parquet.ConvertRepoTotalRecords(repoTotals)

	// Write census runs to Parquet
	runsFile := outputFile + ".census_runs.parquet"
	if err := parquet.WriteCensusRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write census runs: %w", err)
	}
	fmt.Printf("Exported %d census runs to: %s\n", len(parquetRuns), runsFile)

	// Write per-repository totals to Parquet
	repoTotalsFile := outputFile + ".census_repo_totals.parquet"
	if err := parquet.WriteRepoTotalsParquet(parquetRepoTotals, repoTotalsFile); err != nil {
		return fmt.Errorf("failed to write repo totals: %w", err)
	}
	fmt.Printf("Exported %d repository records to: %s\n", len(parquetRepoTotals), repoTotalsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
