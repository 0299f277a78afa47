package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/headson/headson/internal/ingest"
)

// WalkerConfig holds configuration for the fileset discovery walker.
type WalkerConfig struct {
	// Root is the target directory to walk.
	Root string

	// GitignoreMatcher handles .gitignore pattern matching.
	GitignoreMatcher Ignorer

	// HeadsonignoreMatcher handles .headsonignore pattern matching.
	HeadsonignoreMatcher Ignorer

	// DefaultIgnorer handles built-in default ignore patterns.
	DefaultIgnorer Ignorer

	// PatternFilter applies include/exclude/extension filtering.
	PatternFilter *PatternFilter

	// GitTrackedOnly restricts discovery to git-tracked files when true.
	GitTrackedOnly bool

	// SkipLargeFiles is the file size threshold in bytes. Files exceeding this
	// size are skipped. A value of 0 disables large file skipping.
	SkipLargeFiles int64

	// Concurrency is the maximum number of parallel file-reading workers.
	// Defaults to runtime.NumCPU() if <= 0.
	Concurrency int
}

// Result is the outcome of one walk: the discovered fileset inputs, ready
// to hand to ingest.Merge, plus counters for diagnostics.
type Result struct {
	Inputs       []ingest.Input
	TotalFound   int
	TotalSkipped int
	SkipReasons  map[string]int
}

// Walker is the core file discovery engine that traverses a directory tree,
// applies all filtering criteria, and reads file contents in parallel using
// bounded concurrency via errgroup. It is grounded on the teacher's own
// internal/discovery.Walker (_examples/AbdelazizMoustafa10m-Harvx/internal/discovery/walker.go);
// where the teacher collected pipeline.FileDescriptor values for its own
// context-document pipeline, this walker collects ingest.Input values for
// headson's arena ingest stage.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a new Walker instance.
func NewWalker() *Walker {
	return &Walker{
		logger: slog.Default().With("component", "walker"),
	}
}

// candidate is one discovered, not-yet-read file on disk.
type candidate struct {
	relPath string
	absPath string
}

// Walk discovers files in the directory tree rooted at cfg.Root, applying
// all configured filters, and reads file contents in parallel. The walk
// proceeds in two phases: a sequential filepath.WalkDir pass that applies
// ignore rules, binary detection, size limits and pattern filters; then an
// errgroup-bounded parallel pass that reads surviving files' contents.
// Context cancellation stops both phases promptly.
func (w *Walker) Walk(ctx context.Context, cfg WalkerConfig) (*Result, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", cfg.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	composite := NewCompositeIgnorer(
		cfg.DefaultIgnorer,
		cfg.GitignoreMatcher,
		cfg.HeadsonignoreMatcher,
	)

	var gitTracked map[string]bool
	if cfg.GitTrackedOnly {
		gitTracked, err = GitTrackedFiles(root)
		if err != nil {
			return nil, fmt.Errorf("loading git tracked files: %w", err)
		}
	}

	symResolver := NewSymlinkResolver()

	var candidates []candidate
	skipReasons := make(map[string]int)
	var mu sync.Mutex
	totalFound := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		isDir := d.IsDir()
		if isDir && d.Name() == ".git" {
			return fs.SkipDir
		}

		if composite.IsIgnored(relPath, isDir) {
			if isDir {
				mu.Lock()
				skipReasons["ignored_dir"]++
				mu.Unlock()
				return fs.SkipDir
			}
			mu.Lock()
			totalFound++
			skipReasons["ignored"]++
			mu.Unlock()
			return nil
		}
		if isDir {
			return nil
		}

		mu.Lock()
		totalFound++
		mu.Unlock()

		absPath := path
		if d.Type()&os.ModeSymlink != 0 {
			realPath, isLoop, err := symResolver.Resolve(path)
			if err != nil {
				mu.Lock()
				skipReasons["symlink_error"]++
				mu.Unlock()
				return nil
			}
			if isLoop {
				mu.Lock()
				skipReasons["symlink_loop"]++
				mu.Unlock()
				return nil
			}
			symResolver.MarkVisited(realPath)
			absPath = realPath
		}

		if cfg.GitTrackedOnly && gitTracked != nil && !gitTracked[relPath] {
			mu.Lock()
			skipReasons["not_tracked"]++
			mu.Unlock()
			return nil
		}

		fileInfo, err := os.Stat(absPath)
		if err != nil {
			mu.Lock()
			skipReasons["stat_error"]++
			mu.Unlock()
			return nil
		}
		if cfg.SkipLargeFiles > 0 && fileInfo.Size() > cfg.SkipLargeFiles {
			mu.Lock()
			skipReasons["large_file"]++
			mu.Unlock()
			return nil
		}

		isBin, _ := IsBinary(absPath)
		if isBin {
			mu.Lock()
			skipReasons["binary"]++
			mu.Unlock()
			return nil
		}

		if cfg.PatternFilter != nil && cfg.PatternFilter.HasFilters() && !cfg.PatternFilter.Matches(relPath) {
			mu.Lock()
			skipReasons["pattern_filter"]++
			mu.Unlock()
			return nil
		}

		mu.Lock()
		candidates = append(candidates, candidate{relPath: relPath, absPath: absPath})
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, walkErr)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].relPath < candidates[j].relPath })

	inputs := make([]ingest.Input, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			data, err := readFile(gctx, c.absPath)
			if err != nil {
				w.logger.Debug("file read error", "path", c.relPath, "error", err)
				return nil
			}
			inputs[i] = ingest.Input{Name: c.relPath, Bytes: data, Kind: kindFor(c.relPath)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading file contents: %w", err)
	}

	// Drop the slots of files whose read failed.
	kept := inputs[:0]
	for _, in := range inputs {
		if in.Name != "" {
			kept = append(kept, in)
		}
	}
	inputs = kept

	totalSkipped := 0
	for _, n := range skipReasons {
		totalSkipped += n
	}

	w.logger.Info("discovery complete", "files", len(inputs), "total_found", totalFound, "total_skipped", totalSkipped)

	return &Result{Inputs: inputs, TotalFound: totalFound, TotalSkipped: totalSkipped, SkipReasons: skipReasons}, nil
}

// kindFor maps a discovered file's extension to the ingest.Kind its
// contents should be parsed as (spec.md §4.B: ".json"/".yaml"/".yml" parse
// structured, everything else is text).
func kindFor(relPath string) ingest.Kind {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".json":
		return ingest.KindJSON
	case ".yaml", ".yml":
		return ingest.KindYAML
	default:
		return ingest.KindText
	}
}

// readFile reads the entire content of a file, respecting context
// cancellation before the read begins.
func readFile(ctx context.Context, path string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
