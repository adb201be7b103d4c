// Package codec implements the bidirectional wire codec for ClickHouse's
// "new JSON" column type: on read it turns the header + positions +
// values sub-stream of a native block into a slice of nested documents;
// on write it infers a per-path type schema from a batch of documents and
// serializes the header, positions, and values back out. Every other
// piece of the native protocol (handshake, block framing, ordinary
// column codecs) is an external collaborator this package only calls
// into through internal/columns and the caller-supplied io.Reader/Writer.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteStatePrefix emits the single byte that announces "binary-in,
// text-out" framing to the peer ahead of a JSON column's own bytes, and
// ahead of every recursive JSON sub-header embedded in a Tuple or Array.
func WriteStatePrefix(w io.Writer) error {
	return writeU8(w, 0x02)
}

// ReadItems decodes one JSON column's worth of a native block into
// nItems nested documents. A row with no paths recorded against it comes
// back as an empty, non-nil Row; a block that hits the top-level
// shared-paths branch (no server-resolved dynamic schema at all) comes
// back as nItems empty Rows.
func ReadItems(nItems int, r io.Reader, opts Options) ([]Row, error) {
	pm, shared, err := readJSONHeader(r, opts)
	if err != nil {
		return nil, err
	}
	if shared {
		return emptyRows(nItems), nil
	}

	if err := readValuesBlock(r, pm, nItems, 0, opts); err != nil {
		return nil, err
	}

	return Fold(nItems, pm), nil
}

// WriteItems encodes a batch of rows as one JSON column's worth of a
// native block. A string item is treated as raw JSON text and decoded
// into a document before inference, a convenience for callers that
// already hold serialized JSON.
func WriteItems(items []any, w io.Writer, opts Options) error {
	rows := make([]Row, len(items))
	for i, it := range items {
		row, err := coerceRow(it)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		rows[i] = row
	}

	pm := Unfold(rows, 0, opts)
	warnIfDeepNesting(pm, opts)

	if err := writeJSONHeader(w, pm, 0, opts); err != nil {
		return err
	}
	return writeValuesBlock(w, pm, len(rows), 0, opts)
}

func coerceRow(v any) (Row, error) {
	switch val := v.(type) {
	case nil:
		return Row{}, nil
	case Row:
		return val, nil
	case string:
		var row Row
		if err := json.Unmarshal([]byte(val), &row); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnencodableValue, err)
		}
		return row, nil
	default:
		return nil, fmt.Errorf("%w: item of type %T is not a document", ErrUnencodableValue, v)
	}
}

func emptyRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{}
	}
	return rows
}

// warnIfDeepNesting logs once, at WriteItems's top level, when any path
// in the freshly-unfolded PathMap carries a JSON(...) spec whose dynamic
// limits have already degenerated to zero, a sign the caller's documents
// nest past the depth the inference formula was designed for. It never
// changes what gets written.
func warnIfDeepNesting(pm *PathMap, opts Options) {
	if !opts.WarnDeepNesting {
		return
	}
	for _, path := range pm.SortedPaths() {
		sm, _ := pm.Get(path)
		for _, spec := range sm.SortedSpecs() {
			if isDegenerateJSONSpec(spec) {
				opts.logger().Warn("json nesting exceeds dynamic-limit formula, further nesting collapses",
					"path", path, "spec", spec)
				return
			}
		}
	}
}

func isDegenerateJSONSpec(spec string) bool {
	return spec == "JSON(max_dynamic_types=0, max_dynamic_paths=0)"
}
