package schema

import "time"

// CacheStatus represents the status of the scan cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the census history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the census_runs table.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalRepos   int32
	TotalLines   int64
	TotalChars   int64
	ConfigParams *string
}

// RepoTotalRecord represents a row from the census_repo_totals table.
type RepoTotalRecord struct {
	RunID      int64
	RepoName   string
	TotalLines int64
	TotalChars int64
}
