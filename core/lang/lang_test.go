package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuffix(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"simple extension", "main.py", ".py"},
		{"nested path", "src/app/main.go", ".go"},
		{"multiple dots", "archive.tar.gz", ".gz"},
		{"dotfile", ".gitignore", ""},
		{"dotfile with path", "repo/.gitignore", ""},
		{"trailing dot", "a.", ""},
		{"no extension", "Makefile", ""},
		{"empty string", "", ""},
		{"hidden file with extension", ".env.local", ".local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suffix(tt.fileName))
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name      string
		fileName  string
		wantLabel string
		wantOK    bool
	}{
		{"python", "main.py", "Python", true},
		{"go", "cmd/root.go", "Go", true},
		{"react tsx", "App.tsx", "TypeScript (React)", true},
		{"uppercase suffix unmatched", "MAIN.PY", "", false},
		{"unknown suffix", "notes.txt", "", false},
		{"dotfile", ".gitignore", "", false},
		{"no extension", "LICENSE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := c.Classify(tt.fileName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestClassifyCustomEntries(t *testing.T) {
	c := NewClassifier(map[string]string{
		"zig": "Zig",    // without leading dot
		".v":  "Vlang",  // with leading dot
		".py": "Snake",  // override built-in
	})

	label, ok := c.Classify("build.zig")
	assert.True(t, ok)
	assert.Equal(t, "Zig", label)

	label, ok = c.Classify("main.v")
	assert.True(t, ok)
	assert.Equal(t, "Vlang", label)

	label, ok = c.Classify("main.py")
	assert.True(t, ok)
	assert.Equal(t, "Snake", label)
}

func TestTableReturnsCopy(t *testing.T) {
	c := NewClassifier(nil)
	table := c.Table()
	table[".py"] = "Mutated"

	label, ok := c.Classify("main.py")
	assert.True(t, ok)
	assert.Equal(t, "Python", label)
}

func TestFingerprint(t *testing.T) {
	base := NewClassifier(nil)
	same := NewClassifier(nil)
	extended := NewClassifier(map[string]string{"zig": "Zig"})

	assert.Equal(t, base.Fingerprint(), same.Fingerprint(), "identical tables must fingerprint identically")
	assert.NotEqual(t, base.Fingerprint(), extended.Fingerprint(), "table changes must change the fingerprint")
	assert.Len(t, base.Fingerprint(), 64)
}
