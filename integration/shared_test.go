//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared repocensus binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getRepocensusBinary returns the path to the repocensus binary, building it once if needed.
func getRepocensusBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "repocensus-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "repocensus")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/repocensus")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build repocensus: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeMirrorFixture creates a mirror directory containing a single repository
// with a few countable files and returns the mirror path.
func writeMirrorFixture(t *testing.T) string {
	t.Helper()

	mirror := t.TempDir()
	repo := filepath.Join(mirror, "hello")
	if err := os.MkdirAll(filepath.Join(repo, "lib"), 0o755); err != nil {
		t.Fatalf("failed to create fixture repo: %v", err)
	}

	files := map[string]string{
		"main.py":     "print(1)\n\nprint(2)\n",
		"lib/util.go": "package lib\n\nfunc F() {}\n",
		"README.md":   "# hello\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(repo, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write fixture file %s: %v", name, err)
		}
	}

	return mirror
}
