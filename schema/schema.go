// Package schema has configs, models and shared constants for all parts of repocensus.
package schema

// FileStat holds the counts computed from a single file's content.
// Lines counts lines that are non-empty after whitespace trimming; Chars counts
// every non-whitespace character in the content. The two metrics are
// independent: characters on counted lines are counted again by Chars.
type FileStat struct {
	Lines int `json:"lines"`
	Chars int `json:"chars"`
}

// Add accumulates another file's counts into this one.
func (s *FileStat) Add(other FileStat) {
	s.Lines += other.Lines
	s.Chars += other.Chars
}

// RepoStat is the finalized census of a single repository. It is built up by
// the repository aggregator during the tree walk and handed by value to the
// corpus once the walk completes.
type RepoStat struct {
	Name          string         `json:"name"`
	TotalLines    int            `json:"total_lines"`
	TotalChars    int            `json:"total_chars"`
	LanguageLines map[string]int `json:"language_lines"`
}

// RepoScanOutput pairs a repository census with the unclassified suffixes
// encountered during its tree walk. This is the unit stored by the scan cache.
type RepoScanOutput struct {
	Stat            RepoStat `json:"stat"`
	IgnoredSuffixes []string `json:"ignored_suffixes"`
}

// RankEntry is one row of a ranking: a label (repository or language name)
// and the numeric value it was ranked by.
type RankEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CensusResult is the complete output of one census run, handed to the report
// emitter. Every ranking is a full ordering; truncation to a console top-N is
// a presentation concern.
type CensusResult struct {
	ReposByLines     []RankEntry `json:"repos_by_lines"`
	ReposByChars     []RankEntry `json:"repos_by_chars"`
	LanguagesByLines []RankEntry `json:"languages_by_lines"`

	TotalLines int `json:"total_lines"`
	TotalChars int `json:"total_chars"`
	RepoCount  int `json:"repo_count"`

	// IgnoredSuffixes lists every file suffix seen but not classified,
	// sorted, with the empty suffix excluded.
	IgnoredSuffixes []string `json:"ignored_suffixes"`

	// SkippedRepos lists repositories that failed acquisition or enumeration
	// and therefore contributed nothing to the totals.
	SkippedRepos []string `json:"skipped_repos,omitempty"`
}

// RemoteRepo identifies one repository discovered for an account.
type RemoteRepo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	Fork     bool   `json:"fork"`
}
