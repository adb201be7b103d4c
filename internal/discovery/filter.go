package discovery

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternFilter narrows the discovered fixture set with the
// --include/--exclude globs of `chjson encode`. The walker already
// enforces its own criterion (a readable *.json file not covered by an
// ignore rule); this filter only layers the caller's globs on top:
//
//   - with no include patterns, every fixture passes;
//   - with include patterns, a fixture must match at least one;
//   - an exclude match always wins, regardless of includes.
//
// Patterns use doublestar syntax and match against root-relative,
// forward-slash paths.
type PatternFilter struct {
	includes []string
	excludes []string
}

// PatternFilterOptions configures a PatternFilter.
type PatternFilterOptions struct {
	// Includes keeps only fixtures matching at least one pattern, when
	// any are given.
	Includes []string

	// Excludes removes fixtures matching any pattern, even ones an
	// include pattern selected.
	Excludes []string
}

// NewPatternFilter validates every glob up front and returns the filter.
// A malformed pattern is a flag-usage error the user should see once at
// startup, not something to silently skip on every candidate path.
func NewPatternFilter(opts PatternFilterOptions) (*PatternFilter, error) {
	for _, pat := range opts.Includes {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid include pattern %q", pat)
		}
	}
	for _, pat := range opts.Excludes {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return &PatternFilter{
		includes: slices.Clone(opts.Includes),
		excludes: slices.Clone(opts.Excludes),
	}, nil
}

// Matches reports whether the fixture at the given root-relative path
// survives the filter.
func (f *PatternFilter) Matches(path string) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if rel == "" {
		return false
	}

	for _, pat := range f.excludes {
		// Patterns were validated at construction, so Match cannot fail.
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}

	if len(f.includes) == 0 {
		return true
	}
	for _, pat := range f.includes {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// HasFilters reports whether any patterns are configured at all; when
// false the filter is a pass-through and the walker skips it.
func (f *PatternFilter) HasFilters() bool {
	return len(f.includes) > 0 || len(f.excludes) > 0
}
