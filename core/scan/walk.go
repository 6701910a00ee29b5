package scan

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/huangsam/repocensus/core/lang"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// Aggregator walks repository trees and accumulates census totals. Each call
// to AggregateRepo owns its RepoStat exclusively until the walk completes, so
// one Aggregator may serve many repositories concurrently.
type Aggregator struct {
	classifier  *lang.Classifier
	excludes    []string
	fileTimeout time.Duration
	warnf       func(format string, args ...any)
}

// NewAggregator creates an aggregator over the given classifier. Exclude
// patterns follow contract.ShouldIgnore semantics. warnf is the diagnostic
// channel for recovered per-file failures; nil discards diagnostics.
func NewAggregator(classifier *lang.Classifier, excludes []string, fileTimeout time.Duration, warnf func(format string, args ...any)) *Aggregator {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Aggregator{
		classifier:  classifier,
		excludes:    excludes,
		fileTimeout: fileTimeout,
		warnf:       warnf,
	}
}

// AggregateRepo scans every file under root and returns the repository's
// finalized stat plus the set of unclassified suffixes encountered.
//
// Traversal order does not affect the result; every accumulation is a
// commutative sum. Unclassified files are never opened. A file that fails to
// read contributes (0, 0) and is reported through the diagnostic channel. An
// unreadable root returns a *TreeEnumerationError and fails only this
// repository.
func (a *Aggregator) AggregateRepo(ctx context.Context, name, root string) (schema.RepoStat, map[string]struct{}, error) {
	stat := schema.RepoStat{
		Name:          name,
		LanguageLines: make(map[string]int),
	}
	ignored := make(map[string]struct{})

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return &TreeEnumerationError{Root: root, Err: err}
			}
			a.warnf("skipping %s: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if path != root && contract.ShouldIgnore(rel+"/", a.excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if contract.ShouldIgnore(rel, a.excludes) {
			return nil
		}

		label, ok := a.classifier.Classify(d.Name())
		if !ok {
			// Classification failure must not incur the cost of a scan.
			if suffix := lang.Suffix(d.Name()); suffix != "" {
				ignored[suffix] = struct{}{}
			}
			return nil
		}

		fileStat, scanErr := ScanFile(ctx, path, a.fileTimeout)
		if scanErr != nil {
			var readErr *FileReadError
			if errors.As(scanErr, &readErr) {
				a.warnf("%v", readErr)
				return nil
			}
			return scanErr
		}

		stat.LanguageLines[label] += fileStat.Lines
		stat.TotalLines += fileStat.Lines
		stat.TotalChars += fileStat.Chars
		return nil
	})

	if walkErr != nil {
		return schema.RepoStat{}, nil, walkErr
	}
	return stat, ignored, nil
}
