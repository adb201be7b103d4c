// Package discovery implements fixture discovery for `chjson encode`: it
// walks a directory tree, applies layered ignore rules and glob filters,
// probes candidate content, and produces the driver.Fixture entries the
// encoder reads and batches.
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

// GitignoreMatcher evaluates a repository's .gitignore rules against
// candidate fixture paths, so a corpus checked into a working repo shares
// its exclusions with the VCS. .gitignore files nest: one at directory D
// applies only to paths under D, and every ancestor's rules apply as
// well.
//
// Paths passed to IsIgnored must be relative to the root the matcher was
// built from.
type GitignoreMatcher struct {
	root  string
	byDir map[string]*gitignore.GitIgnore
	// dirs holds the byDir keys sorted root-first, for deterministic
	// evaluation order.
	dirs   []string
	logger *slog.Logger
}

// NewGitignoreMatcher walks rootDir, compiles every .gitignore it finds,
// and returns the matcher. A tree with no .gitignore files yields a
// matcher that ignores nothing. An individual .gitignore that cannot be
// read is logged and skipped rather than failing the whole walk.
func NewGitignoreMatcher(rootDir string) (*GitignoreMatcher, error) {
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

	m := &GitignoreMatcher{
		root:   absRoot,
		byDir:  make(map[string]*gitignore.GitIgnore),
		logger: slog.Default().With("component", "gitignore"),
	}

	if err := m.loadTree(); err != nil {
		return nil, fmt.Errorf("discovering .gitignore files in %s: %w", absRoot, err)
	}

	m.logger.Debug("gitignore matcher initialized",
		"root", absRoot,
		"gitignore_count", len(m.byDir),
	)
	return m, nil
}

// loadTree finds and compiles every .gitignore under the root.
func (m *GitignoreMatcher) loadTree() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}

		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() || d.Name() != ".gitignore" {
			return nil
		}

		relDir, err := filepath.Rel(m.root, filepath.Dir(path))
		if err != nil {
			m.logger.Debug("skipping .gitignore, cannot compute relative path",
				"path", path, "error", err)
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable .gitignore", "path", path, "error", err)
			return nil
		}

		if relDir == "" {
			relDir = "."
		}
		m.byDir[relDir] = compiled
		m.logger.Debug("loaded .gitignore", "dir", relDir, "path", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory tree: %w", err)
	}

	m.dirs = make([]string, 0, len(m.byDir))
	for dir := range m.byDir {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)
	return nil
}

// IsIgnored reports whether the root-relative path matches any applicable
// .gitignore rule. isDir selects directory-only patterns ("build/"). A
// path is ignored when any ancestor directory's .gitignore matches it;
// negation patterns only take effect within their own file. Cost is
// proportional to the pattern count of the applicable files, not to the
// tree size.
func (m *GitignoreMatcher) IsIgnored(path string, isDir bool) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if rel == "" || rel == "." {
		return false
	}

	matchPath := rel
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		// A .gitignore at dir applies only to paths under it; the
		// root-level file applies to everything. The library expects
		// paths relative to the .gitignore's own directory.
		subPath := matchPath
		if dir != "." {
			if !strings.HasPrefix(rel, dir+"/") {
				continue
			}
			subPath = strings.TrimPrefix(matchPath, dir+"/")
		}

		if m.byDir[dir].MatchesPath(subPath) {
			m.logger.Debug("path matched gitignore",
				"path", rel,
				"gitignore_dir", dir,
			)
			return true
		}
	}
	return false
}

// PatternCount returns how many .gitignore files were loaded.
func (m *GitignoreMatcher) PatternCount() int {
	return len(m.byDir)
}

// Compile-time interface compliance check.
var _ Ignorer = (*GitignoreMatcher)(nil)
