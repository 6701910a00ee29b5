package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCensusResults outputs the census results, dispatching based on the output format configured.
func WriteCensusResults(result *schema.CensusResult, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeCensusJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCensusCSVResults(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCensusTables(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCensusJSONResults handles opening the file and calling the JSON writer.
func writeCensusJSONResults(result *schema.CensusResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// writeCensusCSVResults handles opening the file and calling the CSV writer.
func writeCensusCSVResults(result *schema.CensusResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForCensus(csvWriter, result)
	}, "Wrote CSV")
}

// writeCensusTables generates and writes the human-readable tables.
// Each ranking is truncated to the configured top N; the report artifacts
// always carry the full rankings.
func writeCensusTables(result *schema.CensusResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	sections := []struct {
		title   string
		header  string
		valueHd string
		entries []schema.RankEntry
		total   int
	}{
		{"Repositories by lines", "Repository", "Lines", result.ReposByLines, result.TotalLines},
		{"Repositories by characters", "Repository", "Chars", result.ReposByChars, result.TotalChars},
		{"Languages by lines", "Language", "Lines", result.LanguagesByLines, result.TotalLines},
	}

	for _, section := range sections {
		if _, err := fmt.Fprintf(writer, "%s\n", section.title); err != nil {
			return err
		}
		if err := writeRankTable(section.entries, section.header, section.valueHd, section.total, cfg, writer); err != nil {
			return err
		}
	}

	// Summary stats
	if _, err := fmt.Fprintf(writer, "Counted %d repositories (total lines: %d, total chars: %d)\n",
		result.RepoCount, result.TotalLines, result.TotalChars); err != nil {
		return err
	}
	if len(result.IgnoredSuffixes) > 0 {
		if _, err := fmt.Fprintf(writer, "Ignored suffixes: %s\n", schema.FormatSuffixes(result.IgnoredSuffixes)); err != nil {
			return err
		}
	}
	for _, name := range result.SkippedRepos {
		if _, err := fmt.Fprintf(writer, "Skipped repository: %s\n", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Census completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeRankTable renders one ranking as a table, limited to the top N entries.
func writeRankTable(entries []schema.RankEntry, nameHeader, valueHeader string, total int, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", nameHeader, valueHeader, "Share"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	limit := min(cfg.TopN, len(entries))
	var data [][]string
	for i := range limit {
		entry := entries[i]
		share := shareOf(entry.Value, total)
		label := contract.GetPlainShareLabel(share)
		if cfg.UseColors {
			label = contract.GetColorShareLabel(share)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(entry.Name, GetMaxTableNameWidth(cfg)),
			strconv.Itoa(entry.Value),
			fmt.Sprintf("%.1f%% %s", share, label),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForCensus writes all three rankings in long form, one row
// per ranking entry. The full rankings are emitted, not just the top N.
func writeCSVResultsForCensus(w *csv.Writer, result *schema.CensusResult) error {
	header := []string{"ranking", "rank", "name", "value"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	rankings := []struct {
		label   string
		entries []schema.RankEntry
	}{
		{"repo_lines", result.ReposByLines},
		{"repo_chars", result.ReposByChars},
		{"language_lines", result.LanguagesByLines},
	}
	for _, ranking := range rankings {
		for i, entry := range ranking.entries {
			row := []string{
				ranking.label,
				strconv.Itoa(i + 1),
				entry.Name,
				strconv.Itoa(entry.Value),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	return nil
}
