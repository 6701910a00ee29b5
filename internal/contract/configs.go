package contract

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/repocensus/schema"
)

// Default values for configuration.
const (
	DefaultTopN        = 5
	DefaultMirrorDir   = "repos"
	DefaultOutDir      = "out"
	DefaultFileTimeout = 30 * time.Second
	MaxTopN            = 1000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a census run.
// This struct remains the "final, validated" config.
type Config struct {
	User      string // GitHub account to inventory
	Token     string // API token; empty means public repositories only
	LocalDir  string // Root of already-acquired repositories (local mode)
	MirrorDir string // Where clones are kept between runs
	OutDir    string // Where report artifacts are written

	Workers      int
	TopN         int // Console summary size; report files always hold full rankings
	Output       schema.OutputMode
	OutputFile   string
	Excludes     []string
	IncludeForks bool
	FileTimeout  time.Duration

	// Languages extends or overrides the built-in suffix table.
	Languages map[string]string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag.
	UserStr     string
	LocalDirStr string

	Token            string `mapstructure:"token"`
	TokenFile        string `mapstructure:"token-file"`
	MirrorDir        string `mapstructure:"mirror-dir"`
	OutDir           string `mapstructure:"out-dir"`
	Workers          int    `mapstructure:"workers"`
	Top              int    `mapstructure:"top"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Exclude          string `mapstructure:"exclude"`
	IncludeForks     bool   `mapstructure:"include-forks"`
	FileTimeout      string `mapstructure:"file-timeout"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`

	// Custom language table entries from the config file.
	Languages map[string]string `mapstructure:"languages"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Languages != nil {
		clone.Languages = make(map[string]string, len(c.Languages))
		maps.Copy(clone.Languages, c.Languages)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processToken(cfg, input); err != nil {
		return err
	}
	if err := processBackends(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs handles the straightforward scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.User = strings.TrimSpace(input.UserStr)
	cfg.LocalDir = input.LocalDirStr

	cfg.MirrorDir = input.MirrorDir
	if cfg.MirrorDir == "" {
		cfg.MirrorDir = DefaultMirrorDir
	}
	cfg.OutDir = input.OutDir
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}

	cfg.Workers = input.Workers
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", input.Workers)
	}

	cfg.TopN = input.Top
	if cfg.TopN < 1 || cfg.TopN > MaxTopN {
		return fmt.Errorf("top must be between 1 and %d, got %d", MaxTopN, input.Top)
	}

	cfg.Output = schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode %q. Must be text, csv, or json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	cfg.Excludes = nil
	for _, ex := range strings.Split(input.Exclude, ",") {
		if ex = strings.TrimSpace(ex); ex != "" {
			cfg.Excludes = append(cfg.Excludes, ex)
		}
	}
	cfg.IncludeForks = input.IncludeForks

	cfg.FileTimeout = DefaultFileTimeout
	if input.FileTimeout != "" {
		d, err := time.ParseDuration(input.FileTimeout)
		if err != nil {
			return fmt.Errorf("invalid file-timeout %q: %w", input.FileTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("file-timeout must not be negative, got %s", d)
		}
		cfg.FileTimeout = d
	}

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors
	cfg.Width = input.Width

	cfg.Languages = make(map[string]string, len(input.Languages))
	maps.Copy(cfg.Languages, input.Languages)
	return nil
}

// processToken resolves the API token from the flag/env value or a token file.
// An empty token is valid and limits discovery to public repositories.
func processToken(cfg *Config, input *ConfigRawInput) error {
	cfg.Token = strings.TrimSpace(input.Token)
	if cfg.Token != "" || input.TokenFile == "" {
		return nil
	}
	data, err := os.ReadFile(input.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Continuing without a token only skips private repositories.
			return nil
		}
		return fmt.Errorf("cannot read token file %q: %w", input.TokenFile, err)
	}
	cfg.Token = strings.TrimSpace(string(data))
	return nil
}

// processBackends validates cache and history backend configurations.
func processBackends(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(input.CacheBackend)
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend %q. Must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.HistoryBackend = schema.DatabaseBackend(input.HistoryBackend)
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend %q. Must be sqlite, mysql, postgresql, or none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
