package discovery

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns are the rules chjson applies before any
// .gitignore or .chjsonignore file is consulted. The directory patterns
// prune subtrees the walker should never descend into. The file patterns
// matter even though the walker only picks up *.json: a fixture corpus
// usually lives inside a working repository, and that repository is full
// of machine-generated JSON (lockfiles, tool caches) that would otherwise
// be swept into a block, plus secret-bearing files nobody wants encoded.
var DefaultIgnorePatterns = []string{
	// Subtrees that never hold fixture corpora.
	".git/",
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"target/",
	"coverage/",
	"__pycache__/",
	".next/",
	".idea/",
	".vscode/",
	".chjson/",

	// Machine-generated JSON: valid encoder input, never a fixture.
	"package-lock.json",
	"composer.lock",
	".eslintcache",
	"*.tsbuildinfo",

	// Environment and key material.
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*.p12",
	"*.pfx",

	// Secret-bearing naming conventions (secrets.json, credentials.json).
	"*secret*",
	"*credential*",
	"*password*",

	// OS and editor droppings.
	".DS_Store",
	"Thumbs.db",
	"*.swp",
	"*.swo",
}

// SensitivePatterns is the secret-bearing subset of DefaultIgnorePatterns.
// Directory discovery can never select these, but a file named directly
// on the `chjson encode` command line bypasses the ignore rules entirely;
// encode warns when such an argument matches one of these patterns.
var SensitivePatterns = []string{
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*.p12",
	"*.pfx",
	"*secret*",
	"*credential*",
	"*password*",
}

// DefaultIgnoreMatcher compiles DefaultIgnorePatterns into an Ignorer,
// using the same gitignore-syntax engine as the .gitignore and
// .chjsonignore matchers so all three layers evaluate patterns
// identically.
type DefaultIgnoreMatcher struct {
	matcher *gitignore.GitIgnore
	logger  *slog.Logger
}

// NewDefaultIgnoreMatcher compiles the built-in pattern set. The patterns
// are fixed at compile time, so unlike the file-backed matchers there is
// no error path.
func NewDefaultIgnoreMatcher() *DefaultIgnoreMatcher {
	return &DefaultIgnoreMatcher{
		matcher: gitignore.CompileIgnoreLines(DefaultIgnorePatterns...),
		logger:  slog.Default().With("component", "default-ignore"),
	}
}

// IsIgnored reports whether the root-relative path matches a built-in
// ignore pattern. isDir selects directory-only patterns ("build/").
func (d *DefaultIgnoreMatcher) IsIgnored(path string, isDir bool) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if rel == "" || rel == "." {
		return false
	}
	if isDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}

	if d.matcher.MatchesPath(rel) {
		d.logger.Debug("path matched default ignore", "path", rel)
		return true
	}
	return false
}

// sensitiveMatcher compiles SensitivePatterns once, on first use.
var sensitiveMatcher = sync.OnceValue(func() *gitignore.GitIgnore {
	return gitignore.CompileIgnoreLines(SensitivePatterns...)
})

// IsSensitivePath reports whether path looks like secret-bearing material
// per SensitivePatterns. `chjson encode` calls this for every file named
// directly as an argument, since explicit arguments are the one road past
// the default ignore rules; a secrets.json in a batch is usually there by
// accident.
func IsSensitivePath(path string) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if rel == "" {
		return false
	}
	return sensitiveMatcher().MatchesPath(rel)
}

// Compile-time interface compliance check.
var _ Ignorer = (*DefaultIgnoreMatcher)(nil)
