package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/repocensus/core/lang"
	"github.com/huangsam/repocensus/core/scan"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// GetCensusDirectoryResult scans every repository under dir and returns the
// corpus rankings without printing them. This is the data entry point used
// by the MCP server.
func GetCensusDirectoryResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, dir string) (*schema.CensusResult, error) {
	client := contract.NewLocalGitClient()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	var repos []schema.RemoteRepo
	for _, entry := range entries {
		if entry.IsDir() {
			repos = append(repos, schema.RemoteRepo{Name: entry.Name()})
		}
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repositories found under %q", dir)
	}

	return runCensus(ctx, cfg, client, mgr, repos, dir, false)
}

// GetRepositoryStatResult scans a single repository tree and returns its
// totals and per-language breakdown without printing them.
func GetRepositoryStatResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, repoPath string) (*schema.RepoScanOutput, error) {
	client := contract.NewLocalGitClient()
	classifier := lang.NewClassifier(cfg.Languages)
	agg := scan.NewAggregator(classifier, cfg.Excludes, cfg.FileTimeout, nil)
	name := filepath.Base(filepath.Clean(repoPath))
	return cachedAggregateRepo(ctx, agg, client, mgr, cfg, name, repoPath, classifier.Fingerprint())
}
