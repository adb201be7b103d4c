package discovery

import (
	"context"
	"errors"
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

	"github.com/chprotocol/chjson/internal/driver"
)

// errNotJSONContent marks a candidate whose content probe found no JSON
// document behind the .json name.
var errNotJSONContent = errors.New("content is not a JSON document")

// WalkerConfig holds configuration for the fixture discovery walker.
type WalkerConfig struct {
	// Root is the target directory to walk.
	Root string

	// GitignoreMatcher handles .gitignore pattern matching.
	GitignoreMatcher Ignorer

	// ChjsonignoreMatcher handles .chjsonignore pattern matching.
	ChjsonignoreMatcher Ignorer

	// DefaultIgnorer handles built-in default ignore patterns.
	DefaultIgnorer Ignorer

	// PatternFilter applies include/exclude glob filtering on top of the
	// built-in "*.json" extension requirement.
	PatternFilter *PatternFilter

	// GitTrackedOnly restricts discovery to git-tracked files when true.
	GitTrackedOnly bool

	// SkipLargeFiles is the file size threshold in bytes. Files exceeding this
	// size are skipped. A value of 0 disables large file skipping.
	SkipLargeFiles int64

	// Concurrency is the maximum number of parallel content-probe workers.
	// Defaults to runtime.NumCPU() if <= 0.
	Concurrency int
}

// Walker is the fixture discovery engine that traverses a directory tree,
// applies all filtering criteria, and reports the set of JSON fixture files
// ready to be read and encoded. It reads only the first bytes of each
// candidate (the ProbeFixture content probe) -- full content loading and
// parallel JSON unmarshaling is internal/cli/encode.go's job.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a new Walker instance.
func NewWalker() *Walker {
	return &Walker{
		logger: slog.Default().With("component", "walker"),
	}
}

// Walk discovers JSON fixture files in the directory tree rooted at
// cfg.Root, applying all configured filters, and returns a driver.Result
// with the discovered fixtures sorted alphabetically by path. Only files
// with a ".json" extension are considered; everything else is counted
// under the "not_json" skip reason. Surviving candidates then have their
// content probed (ProbeFixture), and a .json file that does not actually
// open a JSON object is counted under "not_json_content".
//
// Context cancellation stops the walk promptly.
func (w *Walker) Walk(ctx context.Context, cfg WalkerConfig) (*driver.Result, error) {
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
		cfg.ChjsonignoreMatcher,
	)

	var gitTracked map[string]struct{}
	if cfg.GitTrackedOnly {
		gitTracked, err = GitTrackedFiles(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("loading git tracked files: %w", err)
		}
		w.logger.Debug("git-tracked-only mode",
			"tracked_files", len(gitTracked),
		)
	}

	symResolver := NewSymlinkResolver()

	var fixtures []*driver.Fixture
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
			w.logger.Debug("walk error", "path", path, "error", walkErr)
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
			w.logger.Debug("skipping .git directory", "path", relPath)
			return fs.SkipDir
		}

		if composite.IsIgnored(relPath, isDir) {
			w.logger.Debug("ignored by pattern", "path", relPath, "is_dir", isDir)
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

		if !strings.EqualFold(filepath.Ext(relPath), ".json") {
			mu.Lock()
			skipReasons["not_json"]++
			mu.Unlock()
			return nil
		}

		isSymlink := d.Type()&os.ModeSymlink != 0
		absPath := path
		if isSymlink {
			realPath, isLoop, err := symResolver.Resolve(path)
			if err != nil {
				w.logger.Debug("symlink error", "path", relPath, "error", err)
				mu.Lock()
				skipReasons["symlink_error"]++
				mu.Unlock()
				return nil
			}
			if isLoop {
				w.logger.Debug("symlink loop", "path", relPath)
				mu.Lock()
				skipReasons["symlink_loop"]++
				mu.Unlock()
				return nil
			}
			symResolver.MarkVisited(realPath)
			absPath = realPath
		}

		if cfg.GitTrackedOnly && gitTracked != nil {
			if _, tracked := gitTracked[relPath]; !tracked {
				w.logger.Debug("not git-tracked", "path", relPath)
				mu.Lock()
				skipReasons["not_tracked"]++
				mu.Unlock()
				return nil
			}
		}

		fileInfo, err := os.Stat(absPath)
		if err != nil {
			w.logger.Debug("stat error", "path", relPath, "error", err)
			mu.Lock()
			skipReasons["stat_error"]++
			mu.Unlock()
			return nil
		}

		if cfg.SkipLargeFiles > 0 && fileInfo.Size() > cfg.SkipLargeFiles {
			w.logger.Debug("large file skipped",
				"path", relPath,
				"size", fileInfo.Size(),
				"threshold", cfg.SkipLargeFiles,
			)
			mu.Lock()
			skipReasons["large_file"]++
			mu.Unlock()
			return nil
		}

		if cfg.PatternFilter != nil && cfg.PatternFilter.HasFilters() {
			if !cfg.PatternFilter.Matches(relPath) {
				w.logger.Debug("pattern filter excluded", "path", relPath)
				mu.Lock()
				skipReasons["pattern_filter"]++
				mu.Unlock()
				return nil
			}
		}

		fx := &driver.Fixture{
			Path:      relPath,
			AbsPath:   absPath,
			Size:      fileInfo.Size(),
			IsSymlink: isSymlink,
		}
		mu.Lock()
		fixtures = append(fixtures, fx)
		mu.Unlock()

		return nil
	})

	if walkErr != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, walkErr)
	}

	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].Path < fixtures[j].Path
	})

	// A bounded errgroup probes each surviving candidate's content before
	// it is handed to the encoder. The probe reads only the file's first
	// bytes; internal/cli/encode.go owns the full parallel JSON-unmarshal
	// fan-out.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, fx := range fixtures {
		fx := fx
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			ok, err := ProbeFixture(fx.AbsPath)
			if err != nil {
				fx.Error = err
				w.logger.Debug("fixture probe error", "path", fx.Path, "error", err)
				return nil
			}
			if !ok {
				fx.Error = errNotJSONContent
				w.logger.Debug("fixture content not a JSON document", "path", fx.Path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("probing fixtures: %w", err)
	}

	resultFixtures := make([]driver.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		switch {
		case errors.Is(fx.Error, errNotJSONContent):
			skipReasons["not_json_content"]++
		case fx.Error != nil:
			skipReasons["unreadable"]++
		default:
			resultFixtures = append(resultFixtures, *fx)
		}
	}

	totalSkipped := 0
	for _, count := range skipReasons {
		totalSkipped += count
	}

	result := &driver.Result{
		Fixtures:     resultFixtures,
		TotalFound:   totalFound,
		TotalSkipped: totalSkipped,
		SkipReasons:  skipReasons,
	}

	w.logger.Info("discovery complete",
		"fixtures", len(resultFixtures),
		"total_found", totalFound,
		"total_skipped", totalSkipped,
	)

	return result, nil
}
