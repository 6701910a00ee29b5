package scan

import "fmt"

// FileReadError reports a single file that could not be read or scanned.
// It is recovered locally: the file contributes (0, 0) and the run continues.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// TreeEnumerationError reports a repository root that could not be walked.
// It fails that repository's aggregation only, never the whole run.
type TreeEnumerationError struct {
	Root string
	Err  error
}

func (e *TreeEnumerationError) Error() string {
	return fmt.Sprintf("cannot enumerate repository tree %s: %v", e.Root, e.Err)
}

func (e *TreeEnumerationError) Unwrap() error { return e.Err }
