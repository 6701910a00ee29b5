package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/repocensus/internal/contract"
)

// writeWithFile resolves the output destination, runs render against it, and
// announces the file on stderr. Stdout is never closed.
func writeWithFile(outputFile string, render func(io.Writer) error, successMsg string) error {
	dest, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if dest != os.Stdout {
		defer func() { _ = dest.Close() }()
	}

	if err := render(dest); err != nil {
		return err
	}

	if dest != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data as two-space indented JSON.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// shareOf returns value as a percentage of total. A zero total yields zero.
func shareOf(value, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(value) / float64(total) * 100
}
