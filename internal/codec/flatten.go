package codec

import "strings"

// Normalize flattens a nested document into a dotted-path -> leaf-value
// map. A leaf is any value that is not itself a nested document:
// primitives, lists, and (normalized away) null. A key whose value is nil
// at any depth is dropped entirely rather than surfacing as a leaf; only
// nulls inside a list survive into the encoded output.
//
// Keys containing a literal "." are not escaped, so a document whose
// keys contain dots can collide with a genuinely nested shape.
func Normalize(doc Row) map[string]any {
	flat := make(map[string]any)
	normalizeInto(doc, "", flat)
	return flat
}

func normalizeInto(doc Row, prefix string, flat map[string]any) {
	for k, v := range doc {
		if v == nil {
			continue
		}
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(Row); ok {
			normalizeInto(nested, key, flat)
			continue
		}
		flat[key] = v
	}
}

// Denormalize reverses Normalize: it splits each dotted key on ".",
// creating intermediate documents as needed, and places the leaf at the
// terminal component. A key with no "." becomes a top-level field.
func Denormalize(flat map[string]any) Row {
	out := Row{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		cur := out
		for i, part := range parts {
			if i == len(parts)-1 {
				cur[part] = v
				continue
			}
			next, ok := cur[part].(Row)
			if !ok {
				next = Row{}
				cur[part] = next
			}
			cur = next
		}
	}
	return out
}

// Unfold builds the intermediary PathMap for a batch of documents at the
// given recursion depth: every row is flattened, every leaf's spec is
// inferred, and the leaf value is appended to the (path, spec) bucket
// along with its row index. Both PathMap and SpecMap produce their
// lexicographic order on demand (SortedPaths/SortedSpecs), so no explicit
// sort-and-strip pass is needed here.
func Unfold(items []Row, depth int, opts Options) *PathMap {
	pm := NewPathMap()
	for rowIdx, doc := range items {
		flat := Normalize(doc)
		for path, val := range flat {
			spec := InferSpec(val, depth, opts)
			bucket := pm.Ensure(path).Ensure(spec)
			bucket.Append(val, rowIdx)
		}
	}
	return pm
}

// Fold reverses Unfold: it scatters every (path, spec) bucket's values
// into n_items flat per-row maps by row index, then denormalizes each row
// back into a nested document.
func Fold(nItems int, pm *PathMap) []Row {
	flatRows := make([]map[string]any, nItems)
	for i := range flatRows {
		flatRows[i] = make(map[string]any)
	}

	for _, path := range pm.SortedPaths() {
		sm, _ := pm.Get(path)
		for _, spec := range sm.SortedSpecs() {
			bucket, _ := sm.Get(spec)
			for i, val := range bucket.Values {
				row := bucket.Positions[i]
				flatRows[row][path] = val
			}
		}
	}

	rows := make([]Row, nItems)
	for i, flat := range flatRows {
		rows[i] = Denormalize(flat)
	}
	return rows
}
