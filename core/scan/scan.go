// Package scan computes line and character statistics for repository file trees.
package scan

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"
	"unicode"

	"github.com/huangsam/repocensus/schema"
)

// ctxCheckInterval is the number of runes scanned between cancellation checks.
const ctxCheckInterval = 1 << 16

// ScanReader computes the FileStat for one file's content.
//
// A line counts when it contains at least one non-whitespace rune; both '\n'
// and '\r' terminate lines, which is safe because the empty line a CRLF pair
// produces is blank and therefore never counted. Chars counts every
// non-whitespace rune in the content, independent of the line metric. Bytes
// that do not decode as UTF-8 are consumed as replacement runes and counted,
// so malformed encodings never fail the scan.
func ScanReader(ctx context.Context, r io.Reader) (schema.FileStat, error) {
	br := bufio.NewReader(r)
	var stat schema.FileStat
	lineHasContent := false
	scanned := 0

	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return schema.FileStat{}, err
		}

		scanned++
		if scanned%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return schema.FileStat{}, err
			}
		}

		switch {
		case ch == '\n' || ch == '\r':
			if lineHasContent {
				stat.Lines++
			}
			lineHasContent = false
		case !unicode.IsSpace(ch):
			stat.Chars++
			lineHasContent = true
		}
	}
	if lineHasContent {
		stat.Lines++
	}
	return stat, nil
}

// ScanFile opens and scans a single file. Any failure (unreadable file,
// permission error, file vanished mid-walk, scan timeout) is returned as a
// *FileReadError alongside a zero FileStat so the caller can log and move on.
// A timeout of zero disables the per-file deadline.
func ScanFile(ctx context.Context, path string, timeout time.Duration) (schema.FileStat, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	f, err := os.Open(path)
	if err != nil {
		return schema.FileStat{}, &FileReadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	stat, err := ScanReader(ctx, f)
	switch {
	case err == nil:
		return stat, nil
	case errors.Is(err, context.Canceled):
		// Cancellation of the whole run is not a per-file condition.
		return schema.FileStat{}, err
	default:
		return schema.FileStat{}, &FileReadError{Path: path, Err: err}
	}
}
