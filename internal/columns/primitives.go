package columns

import (
	"fmt"
	"io"
	"math"

	"github.com/chprotocol/chjson/internal/wire"
)

// int64Column codes Int64 as a fixed-width 8-byte little-endian value.
type int64Column struct{}

func (int64Column) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		v, err := wire.ReadU64LE(r)
		if err != nil {
			return nil, fmt.Errorf("int64 column: item %d: %w", i, err)
		}
		out = append(out, int64(v))
	}
	return out, nil
}

// allocHint caps the capacity preallocated for an item count read off the
// wire, so a corrupt length cannot force a huge allocation before the
// first short read surfaces the truncation.
func allocHint(n int) int {
	const limit = 1024
	if n > limit {
		return limit
	}
	return n
}

func (int64Column) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		n, err := toInt64(it)
		if err != nil {
			return fmt.Errorf("int64 column: item %d: %w", i, err)
		}
		if err := wire.WriteU64LE(w, uint64(n)); err != nil {
			return fmt.Errorf("int64 column: item %d: %w", i, err)
		}
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot encode %T as Int64", v)
	}
}

// float64Column codes Float64 as a fixed-width 8-byte little-endian IEEE754 value.
type float64Column struct{}

func (float64Column) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		bits, err := wire.ReadU64LE(r)
		if err != nil {
			return nil, fmt.Errorf("float64 column: item %d: %w", i, err)
		}
		out = append(out, math.Float64frombits(bits))
	}
	return out, nil
}

func (float64Column) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return fmt.Errorf("float64 column: item %d: %w", i, err)
		}
		if err := wire.WriteU64LE(w, math.Float64bits(f)); err != nil {
			return fmt.Errorf("float64 column: item %d: %w", i, err)
		}
	}
	return nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot encode %T as Float64", v)
	}
}

// boolColumn codes Bool as a single byte, 0 or 1.
type boolColumn struct{}

func (boolColumn) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		b, err := wire.ReadU8(r)
		if err != nil {
			return nil, fmt.Errorf("bool column: item %d: %w", i, err)
		}
		out = append(out, b != 0)
	}
	return out, nil
}

func (boolColumn) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		var b byte
		switch v := it.(type) {
		case bool:
			if v {
				b = 1
			}
		case nil:
			b = 0
		default:
			return fmt.Errorf("bool column: item %d: cannot encode %T as Bool", i, it)
		}
		if err := wire.WriteU8(w, b); err != nil {
			return fmt.Errorf("bool column: item %d: %w", i, err)
		}
	}
	return nil
}

// stringColumn codes String as a one-byte-length-prefixed string for
// payloads under 256 bytes, matching the rest of this protocol subset.
// Longer payloads are rejected at write time rather than silently
// truncated; an extended length encoding is out of scope for the spec
// strings and leaf values this registry serves.
type stringColumn struct{}

func (stringColumn) ReadItems(n int, r io.Reader) ([]any, error) {
	out := make([]any, 0, allocHint(n))
	for i := 0; i < n; i++ {
		s, err := wire.ReadStringU8Prefixed(r)
		if err != nil {
			return nil, fmt.Errorf("string column: item %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (stringColumn) WriteItems(items []any, w io.Writer) error {
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			if it == nil {
				s = ""
			} else {
				return fmt.Errorf("string column: item %d: cannot encode %T as String", i, it)
			}
		}
		if err := wire.WriteStringU8Prefixed(w, s); err != nil {
			return fmt.Errorf("string column: item %d: %w", i, err)
		}
	}
	return nil
}
