package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SymlinkResolver follows symlinked fixtures to their real paths and
// breaks cycles: a corpus that links a.json -> b.json -> a.json, or links
// back into an already-walked directory, must not feed the same document
// into the batch twice or walk forever.
//
// Resolve deliberately does not mark the path visited; the walker calls
// MarkVisited as soon as Resolve reports no loop, before its git-tracked,
// size and pattern filters run. The resolver is safe for concurrent use.
type SymlinkResolver struct {
	mu      sync.Mutex
	visited map[string]struct{}
	logger  *slog.Logger
}

// NewSymlinkResolver returns a resolver with an empty visited set.
func NewSymlinkResolver() *SymlinkResolver {
	return &SymlinkResolver{
		visited: make(map[string]struct{}),
		logger:  slog.Default().With("component", "symlink"),
	}
}

// Resolve follows path through any symlinks. It returns the real
// filesystem path, whether that real path was already visited (a cycle or
// a duplicate), and an error for dangling links or other filesystem
// failures. On error the caller skips the path.
func (s *SymlinkResolver) Resolve(path string) (realPath string, isLoop bool, err error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, fmt.Errorf("dangling symlink %s: %w", path, err)
		}
		return "", false, fmt.Errorf("resolving symlink %s: %w", path, err)
	}

	s.mu.Lock()
	_, seen := s.visited[resolved]
	s.mu.Unlock()

	if seen {
		s.logger.Debug("symlink target already visited", "path", path, "real_path", resolved)
	}
	return resolved, seen, nil
}

// MarkVisited records a real path, so later links resolving to it report
// isLoop=true from Resolve.
func (s *SymlinkResolver) MarkVisited(realPath string) {
	s.mu.Lock()
	s.visited[realPath] = struct{}{}
	s.mu.Unlock()
}
