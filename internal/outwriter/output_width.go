// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/repocensus/internal/contract"
	"golang.org/x/term"
)

// Width budget for the fixed table columns (rank, value, share) plus borders,
// separators, and padding.
const fixedColumnsWidth = 45

// Bounds for the name column so narrow terminals stay readable and wide ones
// do not stretch rows absurdly.
const (
	minNameWidth = 15
	maxNameWidth = 70
)

// GetMaxTableNameWidth calculates the maximum width for repository and
// language names in table output based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width // Absolute override from flag/env
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detected
		}
	}

	available := termWidth - fixedColumnsWidth
	switch {
	case available < minNameWidth:
		return minNameWidth
	case available > maxNameWidth:
		return maxNameWidth
	default:
		return available
	}
}
