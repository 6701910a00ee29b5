package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repocensus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a minimal raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		UserStr: "octocat",
		Workers: 4,
		Top:     10,
		Output:  "text",
		Color:   "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid minimal config",
			mutate:      func(_ *ConfigRawInput) {},
			expectError: false,
		},
		{
			name:        "zero workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "negative top",
			mutate:      func(in *ConfigRawInput) { in.Top = -1 },
			expectError: true,
		},
		{
			name:        "top above maximum",
			mutate:      func(in *ConfigRawInput) { in.Top = MaxTopN + 1 },
			expectError: true,
		},
		{
			name:        "invalid output mode",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "invalid file timeout",
			mutate:      func(in *ConfigRawInput) { in.FileTimeout = "soon" },
			expectError: true,
		},
		{
			name:        "negative file timeout",
			mutate:      func(in *ConfigRawInput) { in.FileTimeout = "-5s" },
			expectError: true,
		},
		{
			name:        "invalid color value",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
			},
			expectError: true,
		},
		{
			name: "mysql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/census"
			},
			expectError: false,
		},
		{
			name: "postgresql history backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.PostgreSQLBackend)
				in.HistoryDBConnect = "host=localhost port=5432 user=census dbname=census"
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "octocat", cfg.User)
	assert.Equal(t, DefaultMirrorDir, cfg.MirrorDir)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, DefaultFileTimeout, cfg.FileTimeout)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateExcludes(t *testing.T) {
	input := validInput()
	input.Exclude = "vendor/, node_modules/ ,,*.min.js"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []string{"vendor/", "node_modules/", "*.min.js"}, cfg.Excludes)
}

func TestProcessAndValidateFileTimeout(t *testing.T) {
	input := validInput()
	input.FileTimeout = "2m"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 2*time.Minute, cfg.FileTimeout)
}

func TestProcessToken(t *testing.T) {
	t.Run("flag value wins over token file", func(t *testing.T) {
		input := validInput()
		input.Token = "from-flag"
		input.TokenFile = "/nonexistent/token"

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, "from-flag", cfg.Token)
	})

	t.Run("token file is read and trimmed", func(t *testing.T) {
		tokenPath := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenPath, []byte("  ghp_secret\n"), 0o600))

		input := validInput()
		input.TokenFile = tokenPath

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, "ghp_secret", cfg.Token)
	})

	t.Run("missing token file continues without token", func(t *testing.T) {
		input := validInput()
		input.TokenFile = filepath.Join(t.TempDir(), "absent")

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Empty(t, cfg.Token)
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		User:      "octocat",
		Excludes:  []string{"vendor/"},
		Languages: map[string]string{"zig": "Zig"},
	}
	clone := cfg.Clone()

	clone.Excludes[0] = "mutated"
	clone.Languages["zig"] = "Mutated"

	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Equal(t, "Zig", cfg.Languages["zig"])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass/db", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=census", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=census", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
