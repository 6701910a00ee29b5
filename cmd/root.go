package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/internal/iocache"
	"github.com/huangsam/repocensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Overridden through linker flags by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg holds the validated, final configuration.
var cfg = &contract.Config{}

// input collects the raw values viper resolves from file, env, and flags
// before any validation happens.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repocensus",
	Short:              "Count lines and characters of code across an entire GitHub account.",
	Long:               `Repocensus walks every repository you own and reports where your code actually lives.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configDefaults holds the viper default for every knob a census run reads.
var configDefaults = map[string]any{
	"top":                contract.DefaultTopN,
	"workers":            contract.DefaultWorkers,
	"output":             schema.TextOut,
	"mirror-dir":         contract.DefaultMirrorDir,
	"out-dir":            contract.DefaultOutDir,
	"file-timeout":       "30s",
	"cache-backend":      schema.SQLiteBackend,
	"cache-db-connect":   "",
	"history-backend":    "",
	"history-db-connect": "",
	"color":              "yes",
}

// configureConfigFile points viper at the explicit --config file, or at the
// default .repocensus.yaml search paths otherwise.
func configureConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".repocensus")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureConfigFile()

	viper.SetEnvPrefix("REPOCENSUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	for key, value := range configDefaults {
		viper.SetDefault(key, value)
	}
}

// sharedSetup merges config from file, env, and flags, validates the result
// into cfg, and wires up the persistence layer.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Pull every resolved value out of viper into the raw input struct
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Positional args bypass viper: scan takes a user login, local takes a directory
	if len(args) == 1 {
		switch cmd.Name() {
		case "local":
			input.LocalDirStr = args[0]
		default:
			input.UserStr = args[0]
		}
	}

	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	configureConfigFile()

	// A missing config file is fine, everything has a default
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
