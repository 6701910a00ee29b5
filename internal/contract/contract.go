// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repocensus/schema"
)

// GitClient defines the Git operations needed to acquire repository mirrors.
// This allows the core census logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// Clone clones cloneURL into destPath. A non-empty token is injected into
	// the URL for private repository access and never logged.
	Clone(ctx context.Context, cloneURL, destPath, token string) error

	// Pull refreshes an existing mirror with a fast-forward pull.
	Pull(ctx context.Context, repoPath string) error

	// HeadHash returns the current HEAD commit hash of the repository.
	HeadHash(ctx context.Context, repoPath string) (string, error)
}

// RepoLister lists the remote repositories visible for an account.
type RepoLister interface {
	ListRepositories(ctx context.Context, user string) ([]schema.RemoteRepo, error)
}

// CacheManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetScanStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for scan cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking census runs.
type HistoryStore interface {
	// BeginRun creates a new census run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the census run with completion data.
	EndRun(runID int64, endTime time.Time, totalRepos, totalLines, totalChars int) error

	// RecordRepoTotals stores one repository's totals for a run.
	RecordRepoTotals(runID int64, repoName string, lines, chars int) error

	// GetAllRuns returns every recorded census run.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRepoTotals returns every recorded per-repository total.
	GetAllRepoTotals() ([]schema.RepoTotalRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
