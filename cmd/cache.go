package cmd

import (
	"fmt"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/internal/iocache"
	"github.com/huangsam/repocensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads just enough configuration for cache subcommands, skipping
// GitHub discovery and the rest of sharedSetup.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// History tracking stays off for cache commands
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd groups the cache management subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the repository scan cache (improves performance)",
	Long: `Manage the scan cache that speeds up repeated censuses.

Repocensus caches per-repository counts keyed by HEAD commit, so repositories
that have not changed since the last run are never re-read from disk. The
cache lives in SQLite by default and can be pointed at MySQL or PostgreSQL
with --cache-backend, or disabled entirely with --cache-backend none.

Examples:
  # Inspect the cache
  repocensus cache status

  # Drop cached counts after changing the language table or excludes
  repocensus cache clear`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached repository scan data",
	Long: `Delete all cached repository counts from the configured backend.

For SQLite this removes the database file; for MySQL and PostgreSQL the cache
table is dropped. Run this whenever cached counts might be stale, such as
after editing exclude patterns, or to reclaim disk space.

Examples:
  repocensus cache clear
  REPOCENSUS_CACHE_BACKEND=mysql REPOCENSUS_CACHE_DB_CONNECT="..." repocensus cache clear`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the cache backend, connection health, entry count, newest and
oldest entry timestamps, and approximate on-disk size. Handy for confirming
the cache is actually being hit between runs.

Examples:
  repocensus cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetScanStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
