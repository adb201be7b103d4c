package columns

import (
	"fmt"
	"io"

	"github.com/chprotocol/chjson/internal/wire"
)

// arrayColumn codes Array(T): each row is a u64LE element count followed
// by that many T values, read and written one row at a time. Real
// ClickHouse native arrays instead carry a single offsets column for the
// whole block plus one flattened nested-data column; the per-row framing
// here is simpler and sufficient for a column registry whose only
// consumer is the JSON codec's own Array(T)/Array(JSON) synthesis, which
// already materializes a Go []any per row before handing it to WriteItems.
type arrayColumn struct {
	elem ColumnCodec
}

func (c *arrayColumn) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		count, err := wire.ReadU64LE(r)
		if err != nil {
			return nil, fmt.Errorf("array column: row %d: length: %w", i, err)
		}
		elems, err := c.elem.ReadItems(int(count), r)
		if err != nil {
			return nil, fmt.Errorf("array column: row %d: %w", i, err)
		}
		out = append(out, elems)
	}
	return out, nil
}

func (c *arrayColumn) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		elems, err := toSlice(it)
		if err != nil {
			return fmt.Errorf("array column: row %d: %w", i, err)
		}
		if err := wire.WriteU64LE(w, uint64(len(elems))); err != nil {
			return fmt.Errorf("array column: row %d: length: %w", i, err)
		}
		if err := c.elem.WriteItems(elems, w); err != nil {
			return fmt.Errorf("array column: row %d: %w", i, err)
		}
	}
	return nil
}

func toSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as Array element list", v)
	}
}

// tupleColumn codes Tuple(T1, ..., Tn): each row is a fixed-size sequence
// of one value per element type, written back to back with no framing
// (tuple arity is fixed by the spec string, not carried on the wire).
type tupleColumn struct {
	elems []ColumnCodec
}

func (c *tupleColumn) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		row := make([]any, len(c.elems))
		for j, elemCodec := range c.elems {
			v, err := elemCodec.ReadItems(1, r)
			if err != nil {
				return nil, fmt.Errorf("tuple column: row %d field %d: %w", i, j, err)
			}
			row[j] = v[0]
		}
		out = append(out, row)
	}
	return out, nil
}

func (c *tupleColumn) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		fields, err := toTupleFields(it, len(c.elems))
		if err != nil {
			return fmt.Errorf("tuple column: row %d: %w", i, err)
		}
		for j, elemCodec := range c.elems {
			if err := elemCodec.WriteItems(fields[j:j+1], w); err != nil {
				return fmt.Errorf("tuple column: row %d field %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func toTupleFields(v any, arity int) ([]any, error) {
	fields, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as Tuple row", v)
	}
	if len(fields) != arity {
		return nil, fmt.Errorf("tuple row has %d fields, expected %d", len(fields), arity)
	}
	return fields, nil
}

// nullableColumn codes Nullable(T) the way ClickHouse's native protocol
// actually lays out a nullable column: a full n-byte null bitmap first,
// then the nested column's n values in one contiguous run, with whatever
// placeholder value the nested codec already substitutes for a nil item
// at a null position (int64Column/float64Column/boolColumn/stringColumn
// all accept nil directly). The null bitmap, not the placeholder, decides
// nil-ness on read.
type nullableColumn struct {
	inner ColumnCodec
}

func (c *nullableColumn) ReadItems(n int, r io.Reader) ([]any, error) {
	mask := make([]byte, 0, allocHint(n))
	for i := 0; i < n; i++ {
		b, err := wire.ReadU8(r)
		if err != nil {
			return nil, fmt.Errorf("nullable column: null bitmap: row %d: %w", i, err)
		}
		mask = append(mask, b)
	}

	data, err := c.inner.ReadItems(n, r)
	if err != nil {
		return nil, fmt.Errorf("nullable column: %w", err)
	}

	out := make([]any, n)
	for i := range out {
		if mask[i] != 0 {
			out[i] = nil
			continue
		}
		out[i] = data[i]
	}
	return out, nil
}

func (c *nullableColumn) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		var b byte
		if it == nil {
			b = 1
		}
		if err := wire.WriteU8(w, b); err != nil {
			return fmt.Errorf("nullable column: null bitmap: row %d: %w", i, err)
		}
	}
	if err := c.inner.WriteItems(items, w); err != nil {
		return fmt.Errorf("nullable column: %w", err)
	}
	return nil
}
