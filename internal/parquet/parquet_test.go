package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repocensus/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensusRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(CensusRun))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"total_repos",
		"total_lines",
		"total_chars",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRepoTotalStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(RepoTotal))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"repo_name",
		"total_lines",
		"total_chars",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteCensusRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "census_runs.parquet")

	now := time.Now()
	endTime := now.Add(time.Minute)
	config := `{"user":"octocat"}`

	data := []CensusRun{
		{
			RunID:        1,
			StartTime:    now,
			EndTime:      &endTime,
			TotalRepos:   12,
			TotalLines:   5000,
			TotalChars:   40000,
			ConfigParams: &config,
		},
		// Unfinished run with nil nullable fields
		{
			RunID:     2,
			StartTime: now.Add(time.Hour),
		},
	}

	require.NoError(t, WriteCensusRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[CensusRun](file)
	defer reader.Close()

	readData := make([]CensusRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n, "Should read all records")

	assert.Equal(t, int64(1), readData[0].RunID)
	assert.Equal(t, int32(12), readData[0].TotalRepos)
	assert.Equal(t, int64(5000), readData[0].TotalLines)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, endTime, *readData[0].EndTime, time.Nanosecond)
	require.NotNil(t, readData[0].ConfigParams)
	assert.Equal(t, config, *readData[0].ConfigParams)

	assert.Nil(t, readData[1].EndTime, "Unfinished run should have nil EndTime")
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteRepoTotalsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "repo_totals.parquet")

	data := []RepoTotal{
		{RunID: 1, RepoName: "hello", TotalLines: 120, TotalChars: 960},
		{RunID: 1, RepoName: "world", TotalLines: 30, TotalChars: 240},
	}

	require.NoError(t, WriteRepoTotalsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RepoTotal](file)
	defer reader.Close()

	readData := make([]RepoTotal, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, data, readData)
}

func TestWriteCensusRunsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_census_runs.parquet")

	require.NoError(t, WriteCensusRunsParquet([]CensusRun{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteCensusRunsParquet_InvalidPath(t *testing.T) {
	err := WriteCensusRunsParquet([]CensusRun{}, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertRunRecords(t *testing.T) {
	now := time.Now()
	endTime := now.Add(time.Minute)
	config := `{"top":5}`

	records := []schema.RunRecord{
		{
			RunID:        42,
			StartTime:    now,
			EndTime:      &endTime,
			TotalRepos:   3,
			TotalLines:   100,
			TotalChars:   800,
			ConfigParams: &config,
		},
	}

	converted := ConvertRunRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(42), converted[0].RunID)
	assert.Equal(t, int32(3), converted[0].TotalRepos)
	assert.Equal(t, &endTime, converted[0].EndTime)
	assert.Equal(t, &config, converted[0].ConfigParams)
}

func TestConvertRepoTotalRecords(t *testing.T) {
	records := []schema.RepoTotalRecord{
		{RunID: 42, RepoName: "hello", TotalLines: 100, TotalChars: 800},
	}

	converted := ConvertRepoTotalRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, RepoTotal{RunID: 42, RepoName: "hello", TotalLines: 100, TotalChars: 800}, converted[0])
}
