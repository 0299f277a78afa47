package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// HeadsonignoreMatcher loads and evaluates .headsonignore patterns hierarchically.
// It uses the same gitignore pattern syntax and hierarchical model as
// GitignoreMatcher, but searches for .headsonignore files instead of .gitignore.
// This allows users to define tool-specific ignore patterns separate from
// their .gitignore configuration.
//
// Reference: PRD Section 5.1 -- "Respects .headsonignore for tool-specific
// ignore patterns."
type HeadsonignoreMatcher struct {
	root     string
	matchers map[string]*gitignore.GitIgnore
	// dirs stores the sorted list of directory keys for deterministic
	// iteration from root toward the file's parent directory.
	dirs   []string
	logger *slog.Logger
}

// NewHeadsonignoreMatcher creates a new HeadsonignoreMatcher rooted at the given
// directory. It walks rootDir to discover all .headsonignore files and compiles
// their patterns using sabhiram/go-gitignore.
//
// If no .headsonignore files exist, the matcher returns successfully and
// IsIgnored will always return false. Missing or unreadable .headsonignore files
// at individual directory levels are logged and skipped without error.
func NewHeadsonignoreMatcher(rootDir string) (*HeadsonignoreMatcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", rootDir, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root path %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", absRoot)
	}

	logger := slog.Default().With("component", "headsonignore")

	m := &HeadsonignoreMatcher{
		root:     absRoot,
		matchers: make(map[string]*gitignore.GitIgnore),
		logger:   logger,
	}

	if err := m.discoverHeadsonignoreFiles(); err != nil {
		return nil, fmt.Errorf("discovering .headsonignore files in %s: %w", absRoot, err)
	}

	logger.Debug("headsonignore matcher initialized",
		"root", absRoot,
		"headsonignore_count", len(m.matchers),
	)

	return m, nil
}

// discoverHeadsonignoreFiles walks the root directory tree to find all
// .headsonignore files and compiles each one.
func (m *HeadsonignoreMatcher) discoverHeadsonignoreFiles() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}

		// Skip .git directory entirely.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		// We only care about .headsonignore files.
		if d.IsDir() || d.Name() != ".headsonignore" {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			m.logger.Debug("skipping .headsonignore, cannot compute relative path",
				"path", path, "error", err)
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable .headsonignore",
				"path", path, "error", err)
			return nil
		}

		// Normalize to use "." for the root directory.
		if relDir == "" {
			relDir = "."
		}

		m.matchers[relDir] = compiled
		m.logger.Debug("loaded .headsonignore", "dir", relDir, "path", path)

		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory tree: %w", err)
	}

	// Build sorted directory list for deterministic evaluation order.
	m.dirs = make([]string, 0, len(m.matchers))
	for dir := range m.matchers {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)

	return nil
}

// IsIgnored reports whether the given path should be ignored according to
// the loaded .headsonignore rules. The path must be relative to the root
// directory (using forward slashes or OS-native separators). The isDir
// parameter indicates whether the path represents a directory, which is
// needed for directory-only patterns (patterns ending in /).
//
// The matcher evaluates .headsonignore files from the root directory down to
// the file's parent directory. A file is ignored if any ancestor's
// .headsonignore matches it. Negation patterns in a .headsonignore can override
// matches from the same .headsonignore file.
func (m *HeadsonignoreMatcher) IsIgnored(path string, isDir bool) bool {
	normalizedPath := filepath.ToSlash(path)
	normalizedPath = strings.TrimPrefix(normalizedPath, "./")

	if normalizedPath == "" || normalizedPath == "." {
		return false
	}

	matchPath := normalizedPath
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		matcher := m.matchers[dir]

		if dir != "." {
			prefix := dir + "/"
			if !strings.HasPrefix(normalizedPath, prefix) {
				continue
			}
		}

		var relPath string
		if dir == "." {
			relPath = matchPath
		} else {
			relPath = strings.TrimPrefix(matchPath, dir+"/")
		}

		if matcher.MatchesPath(relPath) {
			m.logger.Debug("path matched headsonignore",
				"path", normalizedPath,
				"headsonignore_dir", dir,
				"rel_path", relPath,
			)
			return true
		}
	}

	return false
}

// PatternCount returns the total number of .headsonignore files that were loaded
// and compiled. This is useful for diagnostics and logging.
func (m *HeadsonignoreMatcher) PatternCount() int {
	return len(m.matchers)
}

// Compile-time interface compliance check.
var _ Ignorer = (*HeadsonignoreMatcher)(nil)
