package cmd

import (
	"fmt"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/internal/iocache"
	"github.com/huangsam/repocensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig resolves and validates the history backend settings.
// An empty backend means history tracking is off.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads just enough configuration for history subcommands,
// skipping GitHub discovery and the rest of sharedSetup.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// Scan caching stays off for history commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup resolves config without initializing stores, so
// migrations can run against a database whose tables do not exist yet.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd groups the run history subcommands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage census run history and exports",
	Long: `Manage historical census data used for trend tracking and reporting.

When a history backend is configured, Repocensus records every census run
(timestamp, configuration, duration) along with the per-repository line and
character totals it produced. The accumulated runs support longitudinal
analysis and can be exported to Parquet for BI tools.

Examples:
  # Check run history status
  repocensus history status

  # Export for analysis in pandas/DuckDB
  repocensus history export --output-file census-data.parquet`,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all census run history data",
	Long: `Delete every stored census run and all per-repository totals from the
configured backend. There is no undo, so export first if the data matters.

Examples:
  repocensus history export --output-file backup.parquet
  repocensus history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the history backend, connection health, number of stored runs,
newest and oldest run timestamps, and table sizes. Use it to confirm run
tracking is enabled and accumulating data.

Examples:
  repocensus history status`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored census data as Parquet, producing two files next to
the given --output-file base: one with run metadata and one with the
per-repository totals of every run. The columnar files load directly into
DuckDB, Spark, pandas, and most BI tools.

Examples:
  repocensus history export --output-file census-data.parquet
  duckdb -c "SELECT * FROM read_parquet('census-data.parquet.census_runs.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Move the history database schema between versions. Without flags this
upgrades to the latest version; --target-version pins a specific version, and
--target-version 0 rolls everything back.

Examples:
  repocensus history migrate
  repocensus history migrate --target-version 1
  repocensus history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
