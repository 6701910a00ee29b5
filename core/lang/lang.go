// Package lang classifies files into programming languages by file extension.
package lang

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// defaultTable is the built-in suffix-to-language mapping. Keys carry the
// leading dot so they line up with Suffix output. Kept as data so config can
// extend it without touching any other component.
var defaultTable = map[string]string{
	".py":   "Python",
	".cpp":  "C++",
	".c":    "C",
	".h":    "C/C++ Header",
	".hpp":  "C++ Header",
	".js":   "JavaScript",
	".html": "HTML",
	".css":  "CSS",
	".java": "Java",
	".go":   "Go",
	".php":  "PHP",
	".rs":   "Rust",
	".ts":   "TypeScript",
	".jsx":  "JavaScript (React)",
	".tsx":  "TypeScript (React)",
	".cmd":  "Batch",
	".bat":  "Batch",
	".mjs":  "JavaScript (ES Modules)",
	".mts":  "TypeScript (ES Modules)",
	".rjs":  "JavaScript (React Native)",
}

// Classifier maps file name suffixes to language labels. Construct with
// NewClassifier; the zero value classifies nothing.
type Classifier struct {
	table map[string]string
}

// NewClassifier returns a classifier over the built-in table, extended or
// overridden by extra. Extra keys may be given with or without the leading dot.
func NewClassifier(extra map[string]string) *Classifier {
	table := make(map[string]string, len(defaultTable)+len(extra))
	for suffix, label := range defaultTable {
		table[suffix] = label
	}
	for suffix, label := range extra {
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		table[suffix] = label
	}
	return &Classifier{table: table}
}

// Suffix returns the classification key for a file name: the substring from
// the final '.' onward, or "" when there is no usable extension. Dotfiles
// like .gitignore and names with a trailing dot yield the empty suffix.
func Suffix(fileName string) string {
	base := filepath.Base(fileName)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return base[i:]
}

// Classify returns the language label for fileName and whether its suffix is
// recognized. Matching is a case-sensitive exact match on the suffix; the
// empty suffix is never mapped.
func (c *Classifier) Classify(fileName string) (string, bool) {
	label, ok := c.table[Suffix(fileName)]
	return label, ok
}

// Table returns a copy of the active suffix-to-language mapping.
func (c *Classifier) Table() map[string]string {
	table := make(map[string]string, len(c.table))
	for suffix, label := range c.table {
		table[suffix] = label
	}
	return table
}

// Fingerprint returns a stable digest of the active table. Cached scan
// results embed it so a table change invalidates them.
func (c *Classifier) Fingerprint() string {
	suffixes := make([]string, 0, len(c.table))
	for suffix := range c.table {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	var sb strings.Builder
	for _, suffix := range suffixes {
		sb.WriteString(suffix)
		sb.WriteByte('=')
		sb.WriteString(c.table[suffix])
		sb.WriteByte(';')
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(sb.String())))
}
