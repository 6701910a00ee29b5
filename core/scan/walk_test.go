package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repocensus/core/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree lays out a repository fixture from relative path to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestAggregateRepo(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":          "print(1)\n\n  \nprint(2)\n",
		"lib/util.go":      "package lib\n\nfunc F() {}\n",
		"README.md":        "# readme\n",
		"data.bin":         "\x00\x01\x02",
		".git/config":      "[core]\n",
		".git/HEAD":        "ref: refs/heads/main\n",
		"vendor/dep.go":    "package dep\n",
		"notes/.gitignore": "*.log\n",
	})

	agg := NewAggregator(lang.NewClassifier(nil), []string{"vendor/"}, 30*time.Second, nil)
	stat, ignored, err := agg.AggregateRepo(context.Background(), "myrepo", root)
	require.NoError(t, err)

	assert.Equal(t, "myrepo", stat.Name)
	// main.py: 2 lines; util.go: 2 lines. Excluded, ignored and .git files
	// contribute nothing.
	assert.Equal(t, 4, stat.TotalLines)
	assert.Equal(t, 2, stat.LanguageLines["Python"])
	assert.Equal(t, 2, stat.LanguageLines["Go"])
	assert.Equal(t, 16+19, stat.TotalChars)

	// Unclassified suffixes are recorded once; dotfiles have no suffix.
	assert.Contains(t, ignored, ".md")
	assert.Contains(t, ignored, ".bin")
	assert.NotContains(t, ignored, ".gitignore")
	assert.NotContains(t, ignored, ".go")
}

func TestAggregateRepoEmpty(t *testing.T) {
	root := t.TempDir()

	agg := NewAggregator(lang.NewClassifier(nil), nil, 30*time.Second, nil)
	stat, ignored, err := agg.AggregateRepo(context.Background(), "barren", root)
	require.NoError(t, err)

	assert.Equal(t, "barren", stat.Name)
	assert.Zero(t, stat.TotalLines)
	assert.Zero(t, stat.TotalChars)
	assert.Empty(t, stat.LanguageLines)
	assert.Empty(t, ignored)
}

func TestAggregateRepoExcludesGlob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":     "let a = 1\n",
		"app.min.js": "let a=1\n",
	})

	agg := NewAggregator(lang.NewClassifier(nil), []string{"*.min.js"}, 0, nil)
	stat, _, err := agg.AggregateRepo(context.Background(), "web", root)
	require.NoError(t, err)

	assert.Equal(t, 1, stat.TotalLines)
	assert.Equal(t, 1, stat.LanguageLines["JavaScript"])
}

func TestAggregateRepoUnreadableFileRecovered(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.py":     "x = 1\n",
		"secret.py": "y = 2\n",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "secret.py"), 0o000))

	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	agg := NewAggregator(lang.NewClassifier(nil), nil, 0, warnf)
	stat, _, err := agg.AggregateRepo(context.Background(), "perm", root)
	require.NoError(t, err)

	// The unreadable file contributes nothing and the walk continues.
	assert.Equal(t, 1, stat.TotalLines)
	assert.NotEmpty(t, warnings)
}

func TestAggregateRepoMissingRoot(t *testing.T) {
	agg := NewAggregator(lang.NewClassifier(nil), nil, 0, nil)
	_, _, err := agg.AggregateRepo(context.Background(), "ghost", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var treeErr *TreeEnumerationError
	assert.ErrorAs(t, err, &treeErr)
}

func TestAggregateRepoCanceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := NewAggregator(lang.NewClassifier(nil), nil, 0, nil)
	_, _, err := agg.AggregateRepo(ctx, "halted", root)
	assert.ErrorIs(t, err, context.Canceled)
}
