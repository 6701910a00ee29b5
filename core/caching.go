package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/repocensus/core/scan"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedAggregateRepo returns the census output for a single repository,
// consulting the scan cache when one is configured.
func cachedAggregateRepo(ctx context.Context, agg *scan.Aggregator, client contract.GitClient, mgr contract.CacheManager, cfg *contract.Config, name, root, fingerprint string) (*schema.RepoScanOutput, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetScanStore()
	}
	if store == nil {
		// Fallback to direct computation
		return computeRepoOutput(ctx, agg, name, root)
	}

	key := generateRepoCacheKey(ctx, client, cfg, name, root, fingerprint)
	if key == "" {
		// Repository state is unknown, so the result cannot be keyed safely.
		return computeRepoOutput(ctx, agg, name, root)
	}

	// Check for cache hit
	if output := checkRepoCacheHit(store, key); output != nil {
		return output, nil
	}

	// Cache miss: compute and store
	output, err := computeRepoOutput(ctx, agg, name, root)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(output); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return output, nil
}

// computeRepoOutput walks the repository tree and packages the result.
func computeRepoOutput(ctx context.Context, agg *scan.Aggregator, name, root string) (*schema.RepoScanOutput, error) {
	stat, ignored, err := agg.AggregateRepo(ctx, name, root)
	if err != nil {
		return nil, err
	}
	return &schema.RepoScanOutput{
		Stat:            stat,
		IgnoredSuffixes: schema.SortedSuffixes(ignored),
	}, nil
}

// checkRepoCacheHit attempts to retrieve and validate a cached result
func checkRepoCacheHit(store contract.CacheStore, key string) *schema.RepoScanOutput {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= 7*24*time.Hour {
			var output schema.RepoScanOutput
			if err := json.Unmarshal(data, &output); err == nil {
				return &output // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// generateRepoCacheKey creates a unique key from everything that can change
// a repository's census: its HEAD commit, the suffix table, and the exclude
// patterns. Returns "" when HEAD cannot be resolved.
func generateRepoCacheKey(ctx context.Context, client contract.GitClient, cfg *contract.Config, name, root, fingerprint string) string {
	headHash, err := client.HeadHash(ctx, root)
	if err != nil {
		return ""
	}
	key := fmt.Sprintf("%s:%s:%s:%s",
		name,
		headHash,
		fingerprint,
		strings.Join(cfg.Excludes, ","),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
