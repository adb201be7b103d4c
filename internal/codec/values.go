package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chprotocol/chjson/internal/columns"
)

// computeSkip implements the row-positions skip adjustment: the server
// reserves one position-byte value per spec except those that already
// carry their own internal framing (String and Tuple), so the usable
// index range is len(specs) minus that count. Any position at or past
// skip is read/written one less than its literal byte value.
func computeSkip(specs []string) int {
	framed := 0
	for _, s := range specs {
		if strings.HasPrefix(s, "String") || strings.HasPrefix(s, "Tuple") {
			framed++
		}
	}
	return len(specs) - framed
}

// readPositionsInto reads nItems position bytes and assigns each row index
// to the bucket of the spec it names, in the sorted-spec order specs
// already carries from SortedSpecs. A byte of 255 means the path is
// missing in that row and assigns nothing. The Values slice inside each
// bucket is not touched here, only Positions.
func readPositionsInto(r io.Reader, nItems int, sm *SpecMap) error {
	specs := sm.SortedSpecs()
	skip := computeSkip(specs)
	for i := 0; i < nItems; i++ {
		b, err := readU8(r)
		if err != nil {
			return fmt.Errorf("row positions: row %d: %w", i, err)
		}
		if b == 0xff {
			continue
		}
		idx := int(b)
		if idx > skip {
			idx--
		}
		if idx < 0 || idx >= len(specs) {
			return fmt.Errorf("%w: row position %d out of range for %d specs", ErrMalformedHeader, idx, len(specs))
		}
		bucket := sm.Ensure(specs[idx])
		bucket.Positions = append(bucket.Positions, i)
	}
	return nil
}

// writePositions is readPositionsInto's mirror: for every row, it emits the
// position byte naming which spec that row belongs to, built directly from
// each bucket's already-populated Positions list rather than re-deriving
// membership from the row's value. Rows absent from every bucket keep the
// 255 sentinel, meaning the path is missing in that row.
func writePositions(w io.Writer, nItems int, sm *SpecMap) error {
	specs := sm.SortedSpecs()
	skip := computeSkip(specs)
	out := make([]byte, nItems)
	for i := range out {
		out[i] = 0xff
	}
	for specIdx, spec := range specs {
		bucket, _ := sm.Get(spec)
		b := specIdx
		if b >= skip {
			b++
		}
		for _, row := range bucket.Positions {
			out[row] = byte(b)
		}
	}
	_, err := w.Write(out)
	return err
}

// readValuesBlock reads one full values section for a PathMap already
// populated with Positions (via readPositionsInto, itself driven by a
// header read): for every path, every spec's values, followed by the
// 8*nItems trailing padding. This is the same operation whether called at
// the top level or recursively for an embedded Array(JSON)/Tuple(JSON)
// sub-block. A PathMap with no paths has no values block at all, not
// even the trailing padding, mirroring writeValuesBlock.
func readValuesBlock(r io.Reader, pm *PathMap, nItems int, depth int, opts Options) error {
	if pm.Len() == 0 {
		return nil
	}
	for _, path := range pm.SortedPaths() {
		sm, _ := pm.Get(path)
		if err := readPositionsInto(r, nItems, sm); err != nil {
			return err
		}
		for _, spec := range sm.SortedSpecs() {
			bucket, _ := sm.Get(spec)
			if err := readPathValues(r, spec, bucket, depth, opts); err != nil {
				return fmt.Errorf("path %q spec %q: %w", path, spec, err)
			}
		}
	}
	if _, err := readFixed(r, 8*nItems); err != nil {
		return err
	}
	return nil
}

// writeValuesBlock mirrors readValuesBlock.
func writeValuesBlock(w io.Writer, pm *PathMap, nItems int, depth int, opts Options) error {
	if pm.Len() == 0 {
		return nil
	}
	for _, path := range pm.SortedPaths() {
		sm, _ := pm.Get(path)
		if err := writePositions(w, nItems, sm); err != nil {
			return err
		}
		for _, spec := range sm.SortedSpecs() {
			bucket, _ := sm.Get(spec)
			if err := writePathValues(w, spec, bucket, depth, opts); err != nil {
				return fmt.Errorf("path %q spec %q: %w", path, spec, err)
			}
		}
	}
	return writeZeros(w, 8*nItems)
}

// readPathValues dispatches a single (path, spec) bucket's values read:
// Array(JSON)/Tuple(JSON) recurse, everything else is one
// batched ColumnForSpec(spec).ReadItems call sized to the bucket's own
// position count.
func readPathValues(r io.Reader, spec string, bucket *SpecBucket, depth int, opts Options) error {
	switch {
	case isArrayWithJSON(spec):
		return readArrayJSONValues(r, bucket, depth, opts)
	case isTupleWithJSON(spec):
		return readComplexTupleValues(r, spec, bucket, depth, opts)
	default:
		codec, err := columns.ColumnForSpec(spec)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownSpec, spec)
		}
		vals, err := codec.ReadItems(len(bucket.Positions), r)
		if err != nil {
			return err
		}
		bucket.Values = vals
		return nil
	}
}

// writePathValues mirrors readPathValues. Array(T) values with a
// non-JSON T are run through preprocessArrayForWrite first; every other
// non-JSON spec is written as-is.
func writePathValues(w io.Writer, spec string, bucket *SpecBucket, depth int, opts Options) error {
	switch {
	case isArrayWithJSON(spec):
		return writeArrayJSONValues(w, bucket, depth, opts)
	case isTupleWithJSON(spec):
		return writeComplexTupleValues(w, spec, bucket, depth, opts)
	default:
		codec, err := columns.ColumnForSpec(spec)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnencodableValue, spec)
		}
		values := bucket.Values
		if strings.HasPrefix(spec, "Array") {
			values = preprocessArrayForWrite(arrayElemSpec(spec), values)
		}
		return codec.WriteItems(values, w)
	}
}

// readArrayJSONValues reads an Array(JSON(...)) column's values: one
// cumulative u64LE element-count bound per row, then a single values block
// over the flattened element batch (using the PathMap built while reading
// the header), finally sliced back into per-row element lists by the
// offsets just read.
func readArrayJSONValues(r io.Reader, bucket *SpecBucket, depth int, opts Options) error {
	n := len(bucket.Positions)
	bounds := make([]uint64, n)
	for i := range bounds {
		b, err := readU64(r)
		if err != nil {
			return fmt.Errorf("array json bounds: row %d: %w", i, err)
		}
		if i > 0 && b < bounds[i-1] {
			return fmt.Errorf("%w: array json bounds decrease at row %d", ErrMalformedHeader, i)
		}
		bounds[i] = b
	}

	const maxElements = 1 << 20
	total := 0
	if n > 0 {
		if bounds[n-1] > maxElements {
			return fmt.Errorf("%w: array json element count %d", ErrMalformedHeader, bounds[n-1])
		}
		total = int(bounds[n-1])
	}

	rows := make([][]any, n)
	hdr := bucket.ArrayHeader
	if hdr == nil {
		hdr = NewPathMap()
	}
	if err := readValuesBlock(r, hdr, total, depth+1, opts); err != nil {
		return err
	}
	folded := Fold(total, hdr)

	prev := uint64(0)
	for i, bound := range bounds {
		row := make([]any, 0, bound-prev)
		for j := prev; j < bound; j++ {
			row = append(row, folded[j])
		}
		rows[i] = row
		prev = bound
	}
	bucket.Values = toAnySlice(rows)
	return nil
}

// writeArrayJSONValues mirrors readArrayJSONValues.
func writeArrayJSONValues(w io.Writer, bucket *SpecBucket, depth int, opts Options) error {
	bound := uint64(0)
	var flat []Row
	for _, v := range bucket.Values {
		elems, _ := v.([]any)
		bound += uint64(len(elems))
		if err := writeU64(w, bound); err != nil {
			return err
		}
		for _, el := range elems {
			doc, ok := el.(Row)
			if !ok {
				doc = Row{}
			}
			flat = append(flat, doc)
		}
	}
	pm := Unfold(flat, depth+1, opts)
	return writeValuesBlock(w, pm, len(flat), depth+1, opts)
}

// readComplexTupleValues reads a Tuple(...) spec's values where at least
// one subspec is JSON. Each subspec is handled in full across every row
// before moving to the next: non-composite, non-JSON subspecs discard
// their n-byte null mask (a primitive nested in a Tuple can never actually
// carry nullness on the wire) then read one value per row; Array/Tuple
// subspecs read one value per row via the ordinary column registry; JSON
// subspecs are read once for every row in a single batched values block.
func readComplexTupleValues(r io.Reader, spec string, bucket *SpecBucket, depth int, opts Options) error {
	n := len(bucket.Positions)
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, 0, len(bucket.TupleHeader))
	}

	subspecs := splitTupleBody(spec)
	for i, sub := range subspecs {
		switch {
		case strings.HasPrefix(sub, "JSON"):
			var pm *PathMap
			if i < len(bucket.TupleHeader) {
				pm = bucket.TupleHeader[i]
			}
			if pm == nil {
				pm = NewPathMap()
			}
			if err := readValuesBlock(r, pm, n, depth+1, opts); err != nil {
				return err
			}
			folded := Fold(n, pm)
			for idx, doc := range folded {
				rows[idx] = append(rows[idx], doc)
			}
		case strings.HasPrefix(sub, "Array"):
			codec, err := columns.ColumnForSpec(closeSubspec(sub))
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnknownSpec, sub)
			}
			for idx := 0; idx < n; idx++ {
				v, err := codec.ReadItems(1, r)
				if err != nil {
					return err
				}
				rows[idx] = append(rows[idx], v[0])
			}
		case strings.HasPrefix(sub, "Tuple"):
			codec, err := columns.ColumnForSpec(closeSubspec(sub))
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnknownSpec, sub)
			}
			for idx := 0; idx < n; idx++ {
				v, err := codec.ReadItems(1, r)
				if err != nil {
					return err
				}
				rows[idx] = append(rows[idx], v[0])
			}
		default:
			if _, err := readFixed(r, n); err != nil {
				return err
			}
			bare := bareNullablePrimitive(sub)
			codec, err := columns.ColumnForSpec(bare)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnknownSpec, bare)
			}
			for idx := 0; idx < n; idx++ {
				v, err := codec.ReadItems(1, r)
				if err != nil {
					return err
				}
				rows[idx] = append(rows[idx], v[0])
			}
		}
	}

	bucket.Values = toAnySlice(rows)
	return nil
}

// writeComplexTupleValues mirrors readComplexTupleValues.
func writeComplexTupleValues(w io.Writer, spec string, bucket *SpecBucket, depth int, opts Options) error {
	n := len(bucket.Values)
	subspecs := splitTupleBody(spec)
	for i, sub := range subspecs {
		switch {
		case strings.HasPrefix(sub, "JSON"):
			items := make([]Row, n)
			for idx, v := range bucket.Values {
				fields, _ := v.([]any)
				var doc Row
				if i < len(fields) {
					doc, _ = fields[i].(Row)
				}
				if doc == nil {
					doc = Row{}
				}
				items[idx] = doc
			}
			pm := Unfold(items, depth+1, opts)
			if err := writeValuesBlock(w, pm, n, depth+1, opts); err != nil {
				return err
			}
		case strings.HasPrefix(sub, "Array"):
			codec, err := columns.ColumnForSpec(closeSubspec(sub))
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnencodableValue, sub)
			}
			for _, v := range bucket.Values {
				elem := tupleField(v, i)
				if err := codec.WriteItems([]any{elem}, w); err != nil {
					return err
				}
			}
		case strings.HasPrefix(sub, "Tuple"):
			codec, err := columns.ColumnForSpec(closeSubspec(sub))
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnencodableValue, sub)
			}
			for _, v := range bucket.Values {
				elem := tupleField(v, i)
				if err := codec.WriteItems([]any{elem}, w); err != nil {
					return err
				}
			}
		default:
			if err := writeZeros(w, n); err != nil {
				return err
			}
			bare := bareNullablePrimitive(sub)
			codec, err := columns.ColumnForSpec(bare)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnencodableValue, bare)
			}
			for _, v := range bucket.Values {
				elem := tupleField(v, i)
				if err := codec.WriteItems([]any{elem}, w); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func tupleField(row any, i int) any {
	fields, _ := row.([]any)
	if i >= len(fields) {
		return nil
	}
	return fields[i]
}

// closeSubspec re-appends the single closing paren splitTupleBody strips
// from every element (see its doc comment). Valid for any Array(...) or
// Tuple(...) subspec, first, middle, or last.
func closeSubspec(sub string) string {
	return sub + ")"
}

// bareNullablePrimitive strips the "Nullable(" prefix from a tuple
// subspec already missing its trailing paren (per splitTupleBody),
// leaving the bare primitive type name.
func bareNullablePrimitive(sub string) string {
	return strings.TrimPrefix(sub, "Nullable(")
}

// arrayElemSpec returns the fully-parenthesized element type of a
// top-level "Array(...)" spec string.
func arrayElemSpec(spec string) string {
	const prefix = "Array("
	if len(spec) < len(prefix)+1 {
		return spec
	}
	return spec[len(prefix) : len(spec)-1]
}

// preprocessArrayForWrite coerces a batch of Array(elemSpec) row-lists
// to their element type before handing them to the column registry's
// writer, which itself only knows how to encode already-typed Go values.
// Recurses for nested Array(...) element specs; Bool coercion is the only
// branch that can shrink a row's length (nulls are dropped, not zeroed).
func preprocessArrayForWrite(elemSpec string, values []any) []any {
	out := make([]any, len(values))

	if strings.HasPrefix(elemSpec, "Array") {
		inner := arrayElemSpec(elemSpec)
		for i, v := range values {
			row, _ := v.([]any)
			out[i] = preprocessArrayForWrite(inner, row)
		}
		return out
	}

	switch {
	case strings.Contains(elemSpec, "String"):
		for i, v := range values {
			row, _ := v.([]any)
			arr := make([]any, len(row))
			for j, el := range row {
				switch e := el.(type) {
				case string:
					arr[j] = e
				case bool:
					arr[j] = strconv.FormatBool(e)
				case nil:
					arr[j] = nil
				default:
					arr[j] = fmt.Sprint(e)
				}
			}
			out[i] = arr
		}
	case strings.Contains(elemSpec, "Int64"):
		for i, v := range values {
			row, _ := v.([]any)
			arr := make([]any, len(row))
			for j, el := range row {
				if el == nil {
					arr[j] = int64(0)
					continue
				}
				arr[j] = el
			}
			out[i] = arr
		}
	case strings.Contains(elemSpec, "Float64"):
		for i, v := range values {
			row, _ := v.([]any)
			arr := make([]any, len(row))
			for j, el := range row {
				if el == nil {
					arr[j] = float64(0)
					continue
				}
				arr[j] = el
			}
			out[i] = arr
		}
	case strings.Contains(elemSpec, "Bool"):
		for i, v := range values {
			row, _ := v.([]any)
			arr := make([]any, 0, len(row))
			for _, el := range row {
				if el != nil {
					arr = append(arr, el)
				}
			}
			out[i] = arr
		}
	default:
		copy(out, values)
	}
	return out
}

func toAnySlice(rows [][]any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
