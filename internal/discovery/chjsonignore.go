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

// ChjsonignoreMatcher loads and evaluates .chjsonignore patterns hierarchically.
// It uses the same gitignore pattern syntax and hierarchical model as
// GitignoreMatcher, but searches for .chjsonignore files instead of
// .gitignore. This lets a fixture corpus exclude files from chjson discovery
// (e.g. scratch JSON not meant to be encoded) without touching the repo's
// actual .gitignore.
type ChjsonignoreMatcher struct {
	root     string
	matchers map[string]*gitignore.GitIgnore
	// dirs stores the sorted list of directory keys for deterministic
	// iteration from root toward the file's parent directory.
	dirs   []string
	logger *slog.Logger
}

// NewChjsonignoreMatcher creates a new ChjsonignoreMatcher rooted at the
// given directory. It walks rootDir to discover all .chjsonignore files and
// compiles their patterns using sabhiram/go-gitignore.
//
// If no .chjsonignore files exist, the matcher returns successfully and
// IsIgnored will always return false. Missing or unreadable .chjsonignore
// files at individual directory levels are logged and skipped without error.
func NewChjsonignoreMatcher(rootDir string) (*ChjsonignoreMatcher, error) {
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

	logger := slog.Default().With("component", "chjsonignore")

	m := &ChjsonignoreMatcher{
		root:     absRoot,
		matchers: make(map[string]*gitignore.GitIgnore),
		logger:   logger,
	}

	if err := m.discoverChjsonignoreFiles(); err != nil {
		return nil, fmt.Errorf("discovering .chjsonignore files in %s: %w", absRoot, err)
	}

	logger.Debug("chjsonignore matcher initialized",
		"root", absRoot,
		"chjsonignore_count", len(m.matchers),
	)

	return m, nil
}

// discoverChjsonignoreFiles walks the root directory tree to find all
// .chjsonignore files and compiles each one.
func (m *ChjsonignoreMatcher) discoverChjsonignoreFiles() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}

		// Skip .git directory entirely.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		// We only care about .chjsonignore files.
		if d.IsDir() || d.Name() != ".chjsonignore" {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			m.logger.Debug("skipping .chjsonignore, cannot compute relative path",
				"path", path, "error", err)
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable .chjsonignore",
				"path", path, "error", err)
			return nil
		}

		// Normalize to use "." for the root directory.
		if relDir == "" {
			relDir = "."
		}

		m.matchers[relDir] = compiled
		m.logger.Debug("loaded .chjsonignore", "dir", relDir, "path", path)

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
// the loaded .chjsonignore rules. The path must be relative to the root
// directory (using forward slashes or OS-native separators). The isDir
// parameter indicates whether the path represents a directory, which is
// needed for directory-only patterns (patterns ending in /).
//
// The matcher evaluates .chjsonignore files from the root directory down to
// the file's parent directory. A file is ignored if any ancestor's
// .chjsonignore matches it. Negation patterns in a .chjsonignore can
// override matches from the same .chjsonignore file.
func (m *ChjsonignoreMatcher) IsIgnored(path string, isDir bool) bool {
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
			m.logger.Debug("path matched chjsonignore",
				"path", normalizedPath,
				"chjsonignore_dir", dir,
				"rel_path", relPath,
			)
			return true
		}
	}

	return false
}

// PatternCount returns the total number of .chjsonignore files that were
// loaded and compiled. This is useful for diagnostics and logging.
func (m *ChjsonignoreMatcher) PatternCount() int {
	return len(m.matchers)
}

// Compile-time interface compliance check.
var _ Ignorer = (*ChjsonignoreMatcher)(nil)
