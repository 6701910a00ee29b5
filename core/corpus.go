// Package core has core logic for discovery, aggregation and ranking.
package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/huangsam/repocensus/schema"
)

// DuplicateRepositoryError reports a repository name added to the corpus twice.
// Re-aggregation is not a supported flow; discovery yields unique names.
type DuplicateRepositoryError struct {
	Name string
}

func (e *DuplicateRepositoryError) Error() string {
	return fmt.Sprintf("repository %q already aggregated", e.Name)
}

// ErrCorpusFinalized is returned when AddRepository is called after Finalize.
var ErrCorpusFinalized = fmt.Errorf("corpus already finalized")

// CorpusBuilder accumulates finalized repository stats for one census run.
// It is the accumulating half of the corpus state machine: AddRepository is
// safe for concurrent use, and Finalize transitions the corpus into an
// immutable CorpusView. Rankings exist only on the view, so a query before
// all repositories are known is impossible by construction.
type CorpusBuilder struct {
	mu sync.Mutex

	repoOrder []string
	repos     map[string]schema.RepoStat
	langOrder []string
	langLines map[string]int

	totalLines int
	totalChars int
	ignored    map[string]struct{}
	skipped    []string

	finalized bool
}

// NewCorpusBuilder creates an empty corpus accumulator.
func NewCorpusBuilder() *CorpusBuilder {
	return &CorpusBuilder{
		repos:     make(map[string]schema.RepoStat),
		langLines: make(map[string]int),
		ignored:   make(map[string]struct{}),
	}
}

// AddRepository merges one repository's finalized stat into the corpus.
// Per-language totals, grand totals and the repository's (lines, chars) pair
// are all updated together, which keeps the repository-level and
// language-level views consistent. Ranking ties preserve AddRepository order,
// so callers that want deterministic output must add in discovery order.
func (b *CorpusBuilder) AddRepository(stat schema.RepoStat, ignored map[string]struct{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return ErrCorpusFinalized
	}
	if _, exists := b.repos[stat.Name]; exists {
		return &DuplicateRepositoryError{Name: stat.Name}
	}

	b.repoOrder = append(b.repoOrder, stat.Name)
	b.repos[stat.Name] = stat
	b.totalLines += stat.TotalLines
	b.totalChars += stat.TotalChars

	for lang, lines := range stat.LanguageLines {
		if _, seen := b.langLines[lang]; !seen {
			b.langOrder = append(b.langOrder, lang)
		}
		b.langLines[lang] += lines
	}
	for suffix := range ignored {
		b.ignored[suffix] = struct{}{}
	}
	return nil
}

// RecordSkipped notes a repository that contributed nothing because its
// acquisition or enumeration failed.
func (b *CorpusBuilder) RecordSkipped(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skipped = append(b.skipped, name)
}

// Finalize transitions the corpus to its read-only state and computes the
// three rankings. After Finalize, AddRepository fails with ErrCorpusFinalized.
func (b *CorpusBuilder) Finalize() *CorpusView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalized = true

	view := &CorpusView{
		totalLines: b.totalLines,
		totalChars: b.totalChars,
		repoCount:  len(b.repoOrder),
		ignored:    schema.SortedSuffixes(b.ignored),
		skipped:    append([]string(nil), b.skipped...),
	}

	view.reposByLines = rankEntries(b.repoOrder, func(name string) int {
		return b.repos[name].TotalLines
	})
	view.reposByChars = rankEntries(b.repoOrder, func(name string) int {
		return b.repos[name].TotalChars
	})
	view.languagesByLines = rankEntries(b.langOrder, func(lang string) int {
		return b.langLines[lang]
	})
	return view
}

// rankEntries builds a full ordering over names, descending by value.
// The sort is stable, so ties keep their insertion order.
func rankEntries(order []string, value func(string) int) []schema.RankEntry {
	entries := make([]schema.RankEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, schema.RankEntry{Name: name, Value: value(name)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// CorpusView is the finalized half of the corpus state machine: it accepts
// only ranking and total queries, and nothing can be added to it.
type CorpusView struct {
	reposByLines     []schema.RankEntry
	reposByChars     []schema.RankEntry
	languagesByLines []schema.RankEntry

	totalLines int
	totalChars int
	repoCount  int
	ignored    []string
	skipped    []string
}

// RankByRepositoryLines returns the full repository ordering by line count.
func (v *CorpusView) RankByRepositoryLines() []schema.RankEntry { return v.reposByLines }

// RankByRepositoryChars returns the full repository ordering by character count.
func (v *CorpusView) RankByRepositoryChars() []schema.RankEntry { return v.reposByChars }

// RankByLanguageLines returns the full language ordering by line count.
func (v *CorpusView) RankByLanguageLines() []schema.RankEntry { return v.languagesByLines }

// Result assembles the complete census output for the report emitter.
func (v *CorpusView) Result() *schema.CensusResult {
	return &schema.CensusResult{
		ReposByLines:     v.reposByLines,
		ReposByChars:     v.reposByChars,
		LanguagesByLines: v.languagesByLines,
		TotalLines:       v.totalLines,
		TotalChars:       v.totalChars,
		RepoCount:        v.repoCount,
		IgnoredSuffixes:  v.ignored,
		SkippedRepos:     v.skipped,
	}
}
