// Package core has core logic for scanning, aggregation and ranking.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/huangsam/repocensus/core/lang"
	"github.com/huangsam/repocensus/core/scan"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/internal/ghclient"
	"github.com/huangsam/repocensus/internal/outwriter"
	"github.com/huangsam/repocensus/schema"
)

// ExecutorFunc defines the function signature for executing different census modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// repoOutcome pairs one repository with its scan result or failure.
type repoOutcome struct {
	repo   schema.RemoteRepo
	output *schema.RepoScanOutput
	err    error
}

// newRepoLister builds the discovery client. Tests swap this out for a mock.
var newRepoLister = func(cfg *contract.Config) contract.RepoLister {
	return ghclient.NewGitHubLister(cfg.Token, cfg.IncludeForks)
}

// ExecuteScan discovers an account's repositories, brings local mirrors up to
// date, scans them all, and prints the corpus rankings. It serves as the main
// entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	lister := newRepoLister(cfg)

	fmt.Printf("🔎 Discovering repositories for %s...\n", cfg.User)
	repos, err := lister.ListRepositories(ctx, cfg.User)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories found for %q", cfg.User)
	}

	if err := os.MkdirAll(cfg.MirrorDir, 0o755); err != nil {
		return fmt.Errorf("cannot create mirror directory %q: %w", cfg.MirrorDir, err)
	}

	fmt.Printf("🧠 Scanning %d repositories with %d workers...\n", len(repos), cfg.Workers)
	result, err := runCensus(ctx, cfg, client, mgr, repos, cfg.MirrorDir, true)
	if err != nil {
		return err
	}

	return writeOutputs(result, cfg, time.Since(start))
}

// ExecuteLocal scans repositories that already live under a local directory,
// one repository per subdirectory. No network or GitHub account is involved.
// It serves as the main entry point for the 'local' command.
func ExecuteLocal(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()

	entries, err := os.ReadDir(cfg.LocalDir)
	if err != nil {
		return fmt.Errorf("cannot read local directory %q: %w", cfg.LocalDir, err)
	}
	var repos []schema.RemoteRepo
	for _, entry := range entries {
		if entry.IsDir() {
			repos = append(repos, schema.RemoteRepo{Name: entry.Name()})
		}
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories found under %q", cfg.LocalDir)
	}

	fmt.Printf("🧠 Scanning %d repositories with %d workers...\n", len(repos), cfg.Workers)
	result, err := runCensus(ctx, cfg, client, mgr, repos, cfg.LocalDir, false)
	if err != nil {
		return err
	}

	return writeOutputs(result, cfg, time.Since(start))
}

// writeOutputs renders the console report and the full-ranking artifacts.
func writeOutputs(result *schema.CensusResult, cfg *contract.Config, duration time.Duration) error {
	ow := outwriter.NewOutWriter()
	if err := ow.WriteCensus(result, cfg, duration); err != nil {
		return err
	}
	return ow.WriteArtifacts(result, cfg)
}

// runCensus scans every repository with a worker pool and assembles the
// corpus result. Workers write to unique indexes of the outcomes slice, and
// repositories join the corpus afterwards in discovery order, so rankings
// are deterministic regardless of worker scheduling.
func runCensus(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repos []schema.RemoteRepo, rootDir string, acquire bool) (*schema.CensusResult, error) {
	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var historyStore contract.HistoryStore
	if mgr != nil {
		historyStore = mgr.GetHistoryStore()
	}
	if historyStore != nil {
		configParams := map[string]any{
			"user":    cfg.User,
			"workers": cfg.Workers,
			"top":     cfg.TopN,
			"output":  string(cfg.Output),
		}
		var err error
		runID, err = historyStore.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Census tracking initialization failed", err)
			runID = 0
		}
	}

	classifier := lang.NewClassifier(cfg.Languages)
	fingerprint := classifier.Fingerprint()
	warnf := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "⚠️ "+format+"\n", args...)
	}
	agg := scan.NewAggregator(classifier, cfg.Excludes, cfg.FileTimeout, warnf)

	// --- 1. Scan Phase (worker pool, cached per repository) ---
	outcomes := make([]repoOutcome, len(repos))
	repoCh := make(chan int, len(repos))
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Go(func() {
			for idx := range repoCh {
				repo := repos[idx]
				repoPath := filepath.Join(rootDir, repo.Name)
				outcome := repoOutcome{repo: repo}
				if acquire {
					outcome.err = ensureLocalMirror(ctx, client, cfg, repo, repoPath)
				}
				if outcome.err == nil {
					// Each goroutine writes to a *unique* index, which is safe.
					outcome.output, outcome.err = cachedAggregateRepo(ctx, agg, client, mgr, cfg, repo.Name, repoPath, fingerprint)
				}
				outcomes[idx] = outcome
			}
		})
	}
	for idx := range repos {
		repoCh <- idx
	}
	close(repoCh)
	wg.Wait()

	// A canceled run produces no partial report.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 2. Corpus Phase (sequential, discovery order) ---
	builder := NewCorpusBuilder()
	for _, outcome := range outcomes {
		if outcome.err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping repository %s", outcome.repo.Name), outcome.err)
			builder.RecordSkipped(outcome.repo.Name)
			continue
		}
		ignored := make(map[string]struct{}, len(outcome.output.IgnoredSuffixes))
		for _, s := range outcome.output.IgnoredSuffixes {
			ignored[s] = struct{}{}
		}
		if err := builder.AddRepository(outcome.output.Stat, ignored); err != nil {
			return nil, err
		}
	}
	result := builder.Finalize().Result()
	if result.RepoCount == 0 {
		return nil, errors.New("no repositories could be scanned")
	}

	// --- 3. End Run Tracking ---
	if historyStore != nil && runID > 0 {
		for _, outcome := range outcomes {
			if outcome.err != nil {
				continue
			}
			stat := outcome.output.Stat
			if err := historyStore.RecordRepoTotals(runID, stat.Name, stat.TotalLines, stat.TotalChars); err != nil {
				contract.LogWarn(fmt.Sprintf("Census tracking failed for %s", stat.Name), err)
			}
		}
		if err := historyStore.EndRun(runID, time.Now(), result.RepoCount, result.TotalLines, result.TotalChars); err != nil {
			contract.LogWarn("Failed to finalize census tracking", err)
		}
	}

	return result, nil
}

// ensureLocalMirror makes sure a fresh checkout of the repository exists at
// repoPath, cloning on first sight and fast-forwarding afterwards. A failed
// pull is not fatal: the previous checkout is still a usable snapshot.
func ensureLocalMirror(ctx context.Context, client contract.GitClient, cfg *contract.Config, repo schema.RemoteRepo, repoPath string) error {
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		if err := client.Pull(ctx, repoPath); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			contract.LogWarn(fmt.Sprintf("Pull failed for %s, scanning previous checkout", repo.Name), err)
		}
		return nil
	}
	if repo.CloneURL == "" {
		return fmt.Errorf("repository %s has no checkout at %q and no clone URL", repo.Name, repoPath)
	}
	return client.Clone(ctx, repo.CloneURL, repoPath, cfg.Token)
}
