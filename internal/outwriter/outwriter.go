// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCensus prints census results using the configured output format.
func (ow *OutWriter) WriteCensus(result *schema.CensusResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCensusResults(result, cfg, duration)
}

// WriteArtifacts writes the full-ranking report files to the output directory.
func (ow *OutWriter) WriteArtifacts(result *schema.CensusResult, cfg *contract.Config) error {
	return WriteReportArtifacts(result, cfg)
}
