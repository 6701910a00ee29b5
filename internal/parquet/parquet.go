// Package parquet provides data structures and functions for exporting census
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repocensus/schema"
	"github.com/parquet-go/parquet-go"
)

// CensusRun represents a single census run with metadata.
// This struct maps to the census_runs database table.
type CensusRun struct {
	// RunID is the unique identifier for this census run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the census began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the census completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalRepos is the number of repositories included in this run
	TotalRepos int32 `parquet:"total_repos,snappy"`

	// TotalLines is the corpus-wide count of countable lines
	TotalLines int64 `parquet:"total_lines,snappy"`

	// TotalChars is the corpus-wide count of countable characters
	TotalChars int64 `parquet:"total_chars,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RepoTotal represents the totals for a single repository in a census run.
// This struct maps to the census_repo_totals database table.
type RepoTotal struct {
	// RunID references the parent census run
	RunID int64 `parquet:"run_id,snappy"`

	// RepoName is the repository's short name
	RepoName string `parquet:"repo_name,snappy"`

	// TotalLines is the repository's count of countable lines
	TotalLines int64 `parquet:"total_lines,snappy"`

	// TotalChars is the repository's count of countable characters
	TotalChars int64 `parquet:"total_chars,snappy"`
}

// WriteCensusRunsParquet writes a slice of CensusRun structs to a Parquet file.
func WriteCensusRunsParquet(data []CensusRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the CensusRun struct tags
	writer := parquet.NewGenericWriter[CensusRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRepoTotalsParquet writes a slice of RepoTotal structs to a Parquet file.
func WriteRepoTotalsParquet(data []RepoTotal, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RepoTotal struct tags
	writer := parquet.NewGenericWriter[RepoTotal](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to CensusRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []CensusRun {
	result := make([]CensusRun, len(records))
	for i, record := range records {
		result[i] = CensusRun{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			TotalRepos:   record.TotalRepos,
			TotalLines:   record.TotalLines,
			TotalChars:   record.TotalChars,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertRepoTotalRecords converts schema.RepoTotalRecord to RepoTotal for Parquet export.
func ConvertRepoTotalRecords(records []schema.RepoTotalRecord) []RepoTotal {
	result := make([]RepoTotal, len(records))
	for i, record := range records {
		result[i] = RepoTotal{
			RunID:      record.RunID,
			RepoName:   record.RepoName,
			TotalLines: record.TotalLines,
			TotalChars: record.TotalChars,
		}
	}
	return result
}
