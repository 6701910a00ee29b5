package schema

import (
	"sort"
	"strings"
)

// SortedSuffixes converts a suffix set into a sorted slice for deterministic
// reporting. The empty suffix is dropped; files without an extension are not
// tracked as ignored.
func SortedSuffixes(set map[string]struct{}) []string {
	suffixes := make([]string, 0, len(set))
	for s := range set {
		if s == "" {
			continue
		}
		suffixes = append(suffixes, s)
	}
	sort.Strings(suffixes)
	return suffixes
}

// FormatSuffixes renders a sorted suffix list for console display.
func FormatSuffixes(suffixes []string) string {
	return strings.Join(suffixes, ", ")
}

// SumRankValues adds up the values of a ranking. Used to cross-check that a
// ranking is a permutation of its inputs.
func SumRankValues(entries []RankEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	return total
}
