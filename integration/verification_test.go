//go:build integration

// Package integration contains integration tests for repocensus.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// censusReport mirrors the JSON output shape of a census run.
type censusReport struct {
	ReposByLines []struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	} `json:"repos_by_lines"`
	TotalLines int `json:"total_lines"`
	TotalChars int `json:"total_chars"`
	RepoCount  int `json:"repo_count"`
}

// TestLocalCensusVerification generates a randomized mirror of repositories,
// runs the binary against it, and cross-checks the reported totals against an
// independent count of the same files.
func TestLocalCensusVerification(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	mirror := t.TempDir()

	wantLines := 0
	wantChars := 0
	repoCount := 3

	for r := 0; r < repoCount; r++ {
		repoDir := filepath.Join(mirror, fmt.Sprintf("repo%d", r))
		require.NoError(t, os.MkdirAll(repoDir, 0o755))

		for f := 0; f < 5; f++ {
			var sb strings.Builder
			for l := 0; l < rng.Intn(20)+1; l++ {
				switch rng.Intn(4) {
				case 0:
					sb.WriteString("\n") // blank line, not counted
				case 1:
					sb.WriteString("   \t\n") // whitespace-only line, not counted
				default:
					fmt.Fprintf(&sb, "value_%d = %d  # marker\n", l, rng.Intn(1000))
				}
			}
			content := sb.String()
			name := fmt.Sprintf("file%d.py", f)
			require.NoError(t, os.WriteFile(filepath.Join(repoDir, name), []byte(content), 0o644))

			lines, chars := countIndependently(content)
			wantLines += lines
			wantChars += chars
		}
	}

	// Build the binary
	binaryPath, err := filepath.Abs(filepath.Join(t.TempDir(), "repocensus"))
	require.NoError(t, err)
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/repocensus")
	buildCmd.Dir = ".."
	require.NoError(t, buildCmd.Run())

	// Run a census with JSON output routed to a file
	outputFile := filepath.Join(t.TempDir(), "census.json")
	cmd := exec.Command(binaryPath, "local", mirror,
		"--cache-backend", "none", "--output", "json", "--output-file", outputFile)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	err = cmd.Run()
	require.NoError(t, err, "census failed: %s", combined.String())

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var report censusReport
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, repoCount, report.RepoCount)
	assert.Equal(t, wantLines, report.TotalLines, "total lines should match independent count")
	assert.Equal(t, wantChars, report.TotalChars, "total chars should match independent count")

	gotRankSum := 0
	for _, entry := range report.ReposByLines {
		gotRankSum += entry.Value
	}
	assert.Equal(t, wantLines, gotRankSum, "per-repo ranking should sum to total lines")
}

// countIndependently recomputes the line and character metrics with a
// deliberately different implementation than the one under test.
func countIndependently(content string) (int, int) {
	lines := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}

	chars := 0
	for _, r := range content {
		if !unicode.IsSpace(r) {
			chars++
		}
	}
	return lines, chars
}
