package codec

import (
	"log/slog"
	"sort"
)

// Row is the nested-document shape exposed to callers: string keys,
// values drawn from {int64, float64, string, bool, nil, []any, Row}.
type Row = map[string]any

// Options configures a single ReadItems/WriteItems call. It is the
// codec package's own minimal notion of a profile; internal/config
// translates a resolved Profile into an Options value at the CLI
// boundary so this package stays free of any config/CLI dependency.
type Options struct {
	// StrictMode, when true, makes ReadItems return ErrUnsupportedBranch
	// instead of logging and skipping the shared-paths branch.
	StrictMode bool

	// BaseDynamicTypes/BaseDynamicPaths are the depth-0 inputs to the
	// type-inference engine's dynamic-limit formula
	// (max_dynamic_types=2^(4-d), max_dynamic_paths=4^(4-d)). The
	// canonical values are 16 and 256.
	BaseDynamicTypes int
	BaseDynamicPaths int

	// WarnDeepNesting logs once per WriteItems call the first time a
	// document nests JSON past depth 4, where the dynamic-limit formula
	// degenerates to zero. It never changes encoding behavior.
	WarnDeepNesting bool

	// Logger receives diagnostic lines, notably the shared-paths branch
	// notice. A nil Logger falls back to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the canonical depth-0 dynamic limits used
// throughout the testable-property scenarios.
func DefaultOptions() Options {
	return Options{
		BaseDynamicTypes: 16,
		BaseDynamicPaths: 256,
		WarnDeepNesting:  true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// PathMap is an ordered mapping from dotted path string to a SpecMap.
// Iteration order is always lexicographic on the path string, computed
// on demand by SortedPaths rather than maintained incrementally, since a
// PathMap is built once per block and walked a bounded number of times.
type PathMap struct {
	byPath map[string]*SpecMap
}

// NewPathMap returns an empty PathMap.
func NewPathMap() *PathMap {
	return &PathMap{byPath: make(map[string]*SpecMap)}
}

// Ensure returns the SpecMap for path, creating it if absent.
func (pm *PathMap) Ensure(path string) *SpecMap {
	sm, ok := pm.byPath[path]
	if !ok {
		sm = NewSpecMap()
		pm.byPath[path] = sm
	}
	return sm
}

// Get returns the SpecMap for path, if present.
func (pm *PathMap) Get(path string) (*SpecMap, bool) {
	sm, ok := pm.byPath[path]
	return sm, ok
}

// Len reports the number of distinct paths.
func (pm *PathMap) Len() int {
	return len(pm.byPath)
}

// SortedPaths returns every path in lexicographic order.
func (pm *PathMap) SortedPaths() []string {
	paths := make([]string, 0, len(pm.byPath))
	for p := range pm.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// SpecMap is an ordered mapping from TypeSpec string to a SpecBucket.
// Like PathMap, order is computed on demand via SortedSpecs.
type SpecMap struct {
	bySpec map[string]*SpecBucket
}

// NewSpecMap returns an empty SpecMap.
func NewSpecMap() *SpecMap {
	return &SpecMap{bySpec: make(map[string]*SpecBucket)}
}

// Ensure returns the SpecBucket for spec, creating it if absent.
func (sm *SpecMap) Ensure(spec string) *SpecBucket {
	b, ok := sm.bySpec[spec]
	if !ok {
		b = &SpecBucket{}
		sm.bySpec[spec] = b
	}
	return b
}

// Get returns the SpecBucket for spec, if present.
func (sm *SpecMap) Get(spec string) (*SpecBucket, bool) {
	b, ok := sm.bySpec[spec]
	return b, ok
}

// Len reports the number of distinct specs.
func (sm *SpecMap) Len() int {
	return len(sm.bySpec)
}

// SortedSpecs returns every spec name in lexicographic order.
func (sm *SpecMap) SortedSpecs() []string {
	specs := make([]string, 0, len(sm.bySpec))
	for s := range sm.bySpec {
		specs = append(specs, s)
	}
	sort.Strings(specs)
	return specs
}

// SpecBucket holds every value assigned to one (path, spec) pair across a
// block, along with the row index each value came from. TupleHeader and
// ArrayHeader carry the recursive sub-PathMaps for embedded JSON.
type SpecBucket struct {
	Values    []any
	Positions []int

	// TupleHeader is non-nil only when Spec is a Tuple(...) containing a
	// JSON subspec. It is parallel to the Tuple's subspec list; an entry
	// is nil for a non-JSON subspec or for a JSON subspec whose sub-header
	// was read in the shared-paths form.
	TupleHeader []*PathMap

	// ArrayHeader is non-nil only when Spec is Array(JSON(...)).
	ArrayHeader *PathMap
}

// Append records one value at the given row index.
func (b *SpecBucket) Append(value any, rowIndex int) {
	b.Values = append(b.Values, value)
	b.Positions = append(b.Positions, rowIndex)
}
