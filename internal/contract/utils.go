package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Share label constants.
const (
	DominantValue = "Dominant" // Dominant value
	MajorValue    = "Major"    // Major value
	ModerateValue = "Moderate" // Moderate value
	MinorValue    = "Minor"    // Minor value
)

// Color variables for console output.
var (
	DominantColor = color.New(color.FgRed, color.Bold)     // dominantColor marks entries that carry the corpus.
	MajorColor    = color.New(color.FgMagenta, color.Bold) // majorColor marks strong contributors.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents a visible share, not bold.
	MinorColor    = color.New(color.FgCyan)                // minorColor represents informational / low-share signal.
)

// GetPlainShareLabel buckets a percentage share of the corpus total into a
// plain text label. Every output format renders labels from this.
func GetPlainShareLabel(share float64) string {
	switch {
	case share >= 40:
		return DominantValue
	case share >= 15:
		return MajorValue
	case share >= 5:
		return ModerateValue
	default:
		return MinorValue
	}
}

// labelColors maps each share label to its console color.
var labelColors = map[string]*color.Color{
	DominantValue: DominantColor,
	MajorValue:    MajorColor,
	ModerateValue: ModerateColor,
	MinorValue:    MinorColor,
}

// GetColorShareLabel returns a colored text label for console output (table).
// It uses GetPlainShareLabel to determine the string, and then applies the appropriate color.
func GetColorShareLabel(share float64) string {
	text := GetPlainShareLabel(share)
	return labelColors[text].Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore reports whether path matches any exclude pattern. Patterns with
// wildcards go through filepath.Match (against the full path and the base
// name), a trailing '/' makes a pattern a directory prefix, a leading '.'
// makes it an extension match, and anything else is a substring match.
// Typical patterns look like "vendor/", "node_modules/", or "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if pattern = strings.TrimSpace(pattern); pattern != "" && matchesExclude(path, pattern) {
			return true
		}
	}
	return false
}

func matchesExclude(path, pattern string) bool {
	if strings.ContainsAny(pattern, "*?[") {
		// filepath.Match has no '**' support, collapse it to a single star
		glob := strings.ReplaceAll(pattern, "**", "*")
		if ok, _ := filepath.Match(glob, path); ok {
			return true
		}
		ok, _ := filepath.Match(glob, filepath.Base(path))
		return ok
	}

	switch {
	case strings.HasSuffix(pattern, "/"):
		return strings.HasPrefix(path, pattern)
	case strings.HasPrefix(pattern, "."):
		return strings.HasSuffix(path, pattern)
	default:
		return strings.Contains(path, pattern)
	}
}

// LogFatal writes the error to stderr and exits with status 1.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn writes a warning to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// homeDBPath resolves a SQLite file name against the user's home directory,
// falling back to the working directory when home cannot be determined.
func homeDBPath(fileName string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(homeDir, fileName)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for scan cache storage.
func GetCacheDBFilePath() string {
	return homeDBPath(".repocensus_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	return homeDBPath(".repocensus_history.db")
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail behind an
// ellipsis prefix. A maxWidth of 3 or less leaves the path untouched so the
// slice below never goes out of bounds.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses yes/no, true/false, and 1/0 (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
