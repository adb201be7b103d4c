package codec

import (
	"fmt"
	"io"
	"strings"
)

// readPathsHeader reads the 9 bytes of reserved framing (the 0x02 state
// prefix plus 8 reserved zeros), the path count, and (when paths_count
// != 0) that many length-prefixed path names in encounter order. A
// paths_count of 0 signals the shared-paths branch; the caller is
// responsible for reading past it.
func readPathsHeader(r io.Reader) (paths []string, sharedBranch bool, err error) {
	if _, err := readFixed(r, 9); err != nil {
		return nil, false, err
	}
	count, err := readU8(r)
	if err != nil {
		return nil, false, err
	}
	if count == 0 {
		return nil, true, nil
	}
	paths = make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		s, err := readStringPrefixed(r)
		if err != nil {
			return nil, false, err
		}
		paths = append(paths, s)
	}
	return paths, false, nil
}

// writePathsHeader emits the paths header: 8 reserved zero bytes, a u8
// path count, then the path names as length-prefixed strings. Together
// with the 0x02 state prefix the caller emits first, the pre-count
// framing is the 9 reserved bytes readPathsHeader skips.
func writePathsHeader(w io.Writer, paths []string) error {
	if len(paths) > 255 {
		return fmt.Errorf("%w: %d paths exceeds u8 count", ErrMalformedHeader, len(paths))
	}
	if err := writeZeros(w, 8); err != nil {
		return err
	}
	if err := writeU8(w, byte(len(paths))); err != nil {
		return err
	}
	for _, p := range paths {
		if err := writeStringPrefixed(w, p); err != nil {
			return err
		}
	}
	return nil
}

// readSpecsHeaderNames reads one path's specs header: 8 reserved bytes,
// the spec_count/next count-repeat quirk (a second byte equal to
// spec_count is a repeated count, anything else is the first name's
// length; see writeSpecsHeaderNames), the spec names, and a further 8
// reserved bytes. It returns
// the spec names in the order they were read, which by construction of
// writeSpecsHeaderNames is always lexicographic.
func readSpecsHeaderNames(r io.Reader) ([]string, error) {
	if _, err := readFixed(r, 8); err != nil {
		return nil, err
	}
	specCount, err := readU8(r)
	if err != nil {
		return nil, err
	}
	next, err := readU8(r)
	if err != nil {
		return nil, err
	}

	specs := make([]string, 0, specCount)
	start := 0
	if next != specCount {
		s, err := readStringFixedLen(r, int(next))
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, fmt.Errorf("%w: empty spec name", ErrMalformedHeader)
		}
		specs = append(specs, s)
		start = 1
	}
	for i := start; i < int(specCount); i++ {
		s, err := readStringPrefixed(r)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, fmt.Errorf("%w: empty spec name", ErrMalformedHeader)
		}
		specs = append(specs, s)
	}

	if _, err := readFixed(r, 8); err != nil {
		return nil, err
	}
	return specs, nil
}

// writeSpecsHeaderNames emits one path's specs header: 0x02, 7 zeros,
// spec count, the spec names as length-prefixed strings, then 8 zero
// bytes. When the first spec name's length happens to equal the spec
// count, the count byte is emitted twice; readSpecsHeaderNames would
// otherwise mistake the first name's length prefix for a repeated count.
func writeSpecsHeaderNames(w io.Writer, specs []string) error {
	if len(specs) > 255 {
		return fmt.Errorf("%w: %d specs exceeds u8 count", ErrMalformedHeader, len(specs))
	}
	if err := writeU8(w, 0x02); err != nil {
		return err
	}
	if err := writeZeros(w, 7); err != nil {
		return err
	}
	if err := writeU8(w, byte(len(specs))); err != nil {
		return err
	}
	if len(specs) > 0 && len(specs[0]) == len(specs) {
		if err := writeU8(w, byte(len(specs))); err != nil {
			return err
		}
	}
	for _, s := range specs {
		if err := writeStringPrefixed(w, s); err != nil {
			return err
		}
	}
	return writeZeros(w, 8)
}

// isTupleWithJSON / isArrayWithJSON classify a spec string for header and
// value recursion by prefix and substring, not by full parsing.
func isTupleWithJSON(spec string) bool {
	return strings.HasPrefix(spec, "Tuple") && strings.Contains(spec, "JSON")
}

func isArrayWithJSON(spec string) bool {
	return strings.HasPrefix(spec, "Array") && strings.Contains(spec, "JSON")
}

// splitTupleBody splits the element specs out of a Tuple(...) spec
// string: drop the 6-character "Tuple(" prefix and the last 2
// characters, then split on the literal delimiter "), ". This only
// works because the element
// spec grammar this package produces never itself contains that three
// character sequence except at an element boundary; every element but
// the last loses its own closing paren to the delimiter, which is
// harmless because callers only ever use prefix checks or explicitly
// re-append parens, never treat these as complete spec strings.
func splitTupleBody(spec string) []string {
	const prefix = "Tuple("
	if len(spec) < len(prefix)+2 {
		return nil
	}
	body := spec[len(prefix) : len(spec)-2]
	return strings.Split(body, "), ")
}

// readJSONHeader reads one full JSON header (paths + specs, recursing
// into any Tuple(JSON)/Array(JSON) subspecs) and returns the populated
// PathMap skeleton. When the paths count is 0 it consumes the
// shared-paths/shared-values bytes and returns shared=true with a nil
// PathMap; that is also the form writeJSONHeader produces for a batch
// with no paths at all, so callers treat a nil PathMap as "no values
// follow".
func readJSONHeader(r io.Reader, opts Options) (pm *PathMap, shared bool, err error) {
	paths, sharedBranch, err := readPathsHeader(r)
	if err != nil {
		return nil, false, err
	}
	if sharedBranch {
		if err := consumeSharedBranch(r, opts); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	pm = NewPathMap()
	for _, path := range paths {
		sm := pm.Ensure(path)
		specs, err := readSpecsHeaderNames(r)
		if err != nil {
			return nil, false, err
		}
		for _, spec := range specs {
			bucket := sm.Ensure(spec)
			switch {
			case isTupleWithJSON(spec):
				sub, err := readComplexTupleHeader(r, spec, opts)
				if err != nil {
					return nil, false, err
				}
				bucket.TupleHeader = sub
			case isArrayWithJSON(spec):
				sub, err := readComplexArrayHeader(r, opts)
				if err != nil {
					return nil, false, err
				}
				bucket.ArrayHeader = sub
			}
		}
	}
	return pm, false, nil
}

// writeJSONHeader is readJSONHeader's mirror image for a PathMap already
// built by Unfold. A PathMap with no paths (an all-empty batch) is
// written as a paths count of 0 followed by an empty shared-paths
// section, the one form the reader can consume without any values block
// behind it.
func writeJSONHeader(w io.Writer, pm *PathMap, depth int, opts Options) error {
	paths := pm.SortedPaths()
	if err := writePathsHeader(w, paths); err != nil {
		return err
	}
	if len(paths) == 0 {
		if err := writeU8(w, 0); err != nil {
			return err
		}
		return writeZeros(w, 7)
	}
	for _, path := range paths {
		sm, _ := pm.Get(path)
		specs := sm.SortedSpecs()
		if err := writeSpecsHeaderNames(w, specs); err != nil {
			return err
		}
		for _, spec := range specs {
			bucket, _ := sm.Get(spec)
			switch {
			case isTupleWithJSON(spec):
				if err := writeComplexTupleHeader(w, spec, bucket, depth+1, opts); err != nil {
					return err
				}
			case isArrayWithJSON(spec):
				if err := writeComplexArrayHeader(w, bucket, depth+1, opts); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// readComplexTupleHeader reads the per-subspec JSON sub-headers for a
// Tuple(...) spec containing JSON. A JSON subspec whose header is the
// shared-paths form leaves a nil slot; its values block is empty and the
// values codec folds the slot into empty documents.
func readComplexTupleHeader(r io.Reader, spec string, opts Options) ([]*PathMap, error) {
	subspecs := splitTupleBody(spec)
	result := make([]*PathMap, len(subspecs))
	for i, sub := range subspecs {
		if !strings.HasPrefix(sub, "JSON") {
			continue
		}
		pm, shared, err := readJSONHeader(r, opts)
		if err != nil {
			return nil, err
		}
		if shared {
			continue
		}
		result[i] = pm
	}
	return result, nil
}

// writeComplexTupleHeader writes one JSON sub-header for every JSON
// subspec in a Tuple(...) (a tuple can carry more than one, e.g. a list
// with two differently-shaped document elements among other values).
// Nested Array/Tuple subspecs, even ones themselves carrying JSON further
// down, are not recursed into at this level.
func writeComplexTupleHeader(w io.Writer, spec string, bucket *SpecBucket, depth int, opts Options) error {
	subspecs := splitTupleBody(spec)
	for i, sub := range subspecs {
		if !strings.HasPrefix(sub, "JSON") {
			continue
		}
		if err := WriteStatePrefix(w); err != nil {
			return err
		}
		items := make([]Row, 0, len(bucket.Values))
		for _, v := range bucket.Values {
			fields, ok := v.([]any)
			if !ok || i >= len(fields) {
				continue
			}
			doc, ok := fields[i].(Row)
			if !ok {
				doc = Row{}
			}
			items = append(items, doc)
		}
		pm := Unfold(items, depth, opts)
		if err := writeJSONHeader(w, pm, depth, opts); err != nil {
			return err
		}
	}
	return nil
}

// readComplexArrayHeader reads the single JSON header embedded in an
// Array(JSON(...)) spec. A shared-paths form here becomes "no header";
// the values codec still reads the per-row element bounds and folds the
// elements into empty documents.
func readComplexArrayHeader(r io.Reader, opts Options) (*PathMap, error) {
	pm, shared, err := readJSONHeader(r, opts)
	if err != nil {
		return nil, err
	}
	if shared {
		return nil, nil
	}
	return pm, nil
}

// writeComplexArrayHeader writes the single JSON header for an
// Array(JSON(...)) spec, built from every element across every row
// flattened into one batch.
func writeComplexArrayHeader(w io.Writer, bucket *SpecBucket, depth int, opts Options) error {
	if err := WriteStatePrefix(w); err != nil {
		return err
	}
	var items []Row
	for _, v := range bucket.Values {
		elems, ok := v.([]any)
		if !ok {
			continue
		}
		for _, el := range elems {
			doc, ok := el.(Row)
			if !ok {
				doc = Row{}
			}
			items = append(items, doc)
		}
	}
	pm := Unfold(items, depth, opts)
	return writeJSONHeader(w, pm, depth, opts)
}

// consumeSharedBranch reads and discards the shared-paths and
// shared-values sections that follow a paths_count byte of 0, logging a
// single diagnostic line unless StrictMode turns the branch into an
// error.
func consumeSharedBranch(r io.Reader, opts Options) error {
	if opts.StrictMode {
		return fmt.Errorf("%w", ErrUnsupportedBranch)
	}
	sharedCount, err := readU8(r)
	if err != nil {
		return err
	}
	if _, err := readFixed(r, 7); err != nil {
		return err
	}
	paths := make([]string, 0, sharedCount)
	for i := 0; i < int(sharedCount); i++ {
		s, err := readStringPrefixed(r)
		if err != nil {
			return err
		}
		paths = append(paths, s)
	}
	for range paths {
		contentLen, err := readU8(r)
		if err != nil {
			return err
		}
		if _, err := readFixed(r, int(contentLen)); err != nil {
			return err
		}
	}
	opts.logger().Warn("shared path JSON deserialization not implemented, skipping shared paths")
	return nil
}
