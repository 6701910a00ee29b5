package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainShareLabel(t *testing.T) {
	tests := []struct {
		name  string
		share float64
		want  string
	}{
		{"dominant at boundary", 40.0, DominantValue},
		{"dominant above", 99.9, DominantValue},
		{"major at boundary", 15.0, MajorValue},
		{"major below dominant", 39.9, MajorValue},
		{"moderate at boundary", 5.0, ModerateValue},
		{"moderate below major", 14.9, ModerateValue},
		{"minor below moderate", 4.9, MinorValue},
		{"minor at zero", 0.0, MinorValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPlainShareLabel(tt.share))
		})
	}
}

func TestGetColorShareLabel(t *testing.T) {
	// Colored output must always contain the plain label text.
	for _, share := range []float64{50, 20, 10, 1} {
		assert.Contains(t, GetColorShareLabel(share), GetPlainShareLabel(share))
	}
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		excludes []string
		want     bool
	}{
		{"no excludes", "main.go", nil, false},
		{"directory prefix", "vendor/lib.go", []string{"vendor/"}, true},
		{"prefix does not match elsewhere", "src/vendor.go", []string{"vendor/"}, false},
		{"extension suffix", "app.min.js", []string{".min.js"}, true},
		{"glob on base name", "static/app.min.js", []string{"*.min.js"}, true},
		{"glob miss", "app.js", []string{"*.min.js"}, false},
		{"substring", "build/output/app.go", []string{"output"}, true},
		{"blank pattern skipped", "main.go", []string{" ", ""}, false},
		{"multiple patterns", "docs/readme.md", []string{"vendor/", ".md"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		want     string
	}{
		{"short path untouched", "main.go", 30, "main.go"},
		{"long path truncated", "internal/iocache/history_store.go", 20, ".../history_store.go"},
		{"tiny width untouched", "abcdefgh", 3, "abcdefgh"},
		{"exact width untouched", "abcd", 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncatePath(tt.path, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"yes", "YES", "true", "True", "1"}
	for _, v := range trueValues {
		got, err := ParseBoolString(v)
		assert.NoError(t, err)
		assert.True(t, got, v)
	}

	falseValues := []string{"no", "NO", "false", "False", "0"}
	for _, v := range falseValues {
		got, err := ParseBoolString(v)
		assert.NoError(t, err)
		assert.False(t, got, v)
	}

	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
