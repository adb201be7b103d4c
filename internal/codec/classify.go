package codec

import (
	"fmt"
	"strings"
)

// StabilityClass buckets a path by how many distinct TypeSpecs its values
// took on across one WriteItems batch. This repurposes the pattern-match-
// into-buckets shape of a glob-driven priority tier for a different
// signal entirely: instead of "which glob matched this filename", it asks
// "how many alternative wire types did this JSON path need".
type StabilityClass int

const (
	// Monomorphic paths carry exactly one spec across the whole batch;
	// the common case for a well-typed fixture corpus.
	Monomorphic StabilityClass = iota
	// Polymorphic paths took 2 or 3 distinct specs.
	Polymorphic
	// HighlyPolymorphic paths took 4 or more specs, or needed a
	// Tuple(...)/Array(JSON(...)) spec at all (the encoder had to
	// synthesize a composite to hold a position-dependent element shape).
	HighlyPolymorphic
)

// String returns a human-readable label, matching the short lowercase
// form used elsewhere for diagnostic output.
func (c StabilityClass) String() string {
	switch c {
	case Monomorphic:
		return "monomorphic"
	case Polymorphic:
		return "polymorphic"
	case HighlyPolymorphic:
		return "highly-polymorphic"
	default:
		return fmt.Sprintf("stability%d", int(c))
	}
}

// ClassifyPath reports the StabilityClass of one path's SpecMap.
func ClassifyPath(sm *SpecMap) StabilityClass {
	specs := sm.SortedSpecs()
	for _, s := range specs {
		if strings.HasPrefix(s, "Tuple") || isArrayWithJSON(s) {
			return HighlyPolymorphic
		}
	}
	switch {
	case len(specs) <= 1:
		return Monomorphic
	case len(specs) <= 3:
		return Polymorphic
	default:
		return HighlyPolymorphic
	}
}

// Histogram counts every path in pm by StabilityClass, in the order
// Monomorphic, Polymorphic, HighlyPolymorphic.
type Histogram struct {
	Monomorphic       int
	Polymorphic       int
	HighlyPolymorphic int
}

// ClassifyPathMap builds the histogram for an entire PathMap, as built by
// Unfold/WriteItems for one batch.
func ClassifyPathMap(pm *PathMap) Histogram {
	var h Histogram
	for _, path := range pm.SortedPaths() {
		sm, _ := pm.Get(path)
		switch ClassifyPath(sm) {
		case Monomorphic:
			h.Monomorphic++
		case Polymorphic:
			h.Polymorphic++
		default:
			h.HighlyPolymorphic++
		}
	}
	return h
}
