package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// Report artifact file names.
const (
	RepoLinesFile = "repos-lines.txt"
	RepoCharsFile = "repos-chars.txt"
	LanguagesFile = "languages.txt"
)

// WriteReportArtifacts writes the full rankings as plain text files in the
// output directory, one entry per line. Unlike the console tables, these
// are never truncated to the top N.
func WriteReportArtifacts(result *schema.CensusResult, cfg *contract.Config) error {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", cfg.OutDir, err)
	}

	artifacts := []struct {
		fileName string
		entries  []schema.RankEntry
		unit     string
	}{
		{RepoLinesFile, result.ReposByLines, "lines of code"},
		{RepoCharsFile, result.ReposByChars, "chars of code"},
		{LanguagesFile, result.LanguagesByLines, "lines of code"},
	}

	for _, artifact := range artifacts {
		path := filepath.Join(cfg.OutDir, artifact.fileName)
		if err := writeRankFile(path, artifact.entries, artifact.unit); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote report to %s\n", path)
	}
	return nil
}

// writeRankFile writes one ranking to a text file.
func writeRankFile(path string, entries []schema.RankEntry, unit string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := writeRankLines(file, entries, unit); err != nil {
		return fmt.Errorf("cannot write report file %q: %w", path, err)
	}
	return nil
}

// writeRankLines renders ranking entries in "name: value unit" form.
func writeRankLines(w io.Writer, entries []schema.RankEntry, unit string) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s: %d %s\n", entry.Name, entry.Value, unit); err != nil {
			return err
		}
	}
	return nil
}
