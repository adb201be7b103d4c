// Package columns is a minimal registry of ClickHouse primitive column
// codecs. The JSON column codec in internal/codec treats column encoding
// for concrete leaf/composite types as an external collaborator; this
// package is that collaborator, built just large enough to cover every
// TypeSpec the inference engine in internal/codec can produce:
// Int64, Float64, Bool, String, Array(T), Tuple(T1, T2, ...), and
// Nullable(T) wrapping any of those.
package columns

import (
	"fmt"
	"io"
	"strings"
)

// ColumnCodec reads and writes a column's values in ClickHouse's
// native block format: a fixed-size "data" section of n values with no
// framing between them (variable-length types such as String and Array
// carry their own internal length prefixes per value).
type ColumnCodec interface {
	// ReadItems reads exactly n values from r.
	ReadItems(n int, r io.Reader) ([]any, error)
	// WriteItems writes items to w.
	WriteItems(items []any, w io.Writer) error
}

// ColumnForSpec parses a ClickHouse TypeSpec string and returns the codec
// responsible for it. It returns ErrUnknownSpec for any spec outside the
// set the JSON codec's type inference can produce.
func ColumnForSpec(spec string) (ColumnCodec, error) {
	spec = strings.TrimSpace(spec)

	if inner, ok := unwrap(spec, "Nullable"); ok {
		base, err := ColumnForSpec(inner)
		if err != nil {
			return nil, err
		}
		return &nullableColumn{inner: base}, nil
	}

	if inner, ok := unwrap(spec, "Array"); ok {
		elem, err := ColumnForSpec(inner)
		if err != nil {
			return nil, err
		}
		return &arrayColumn{elem: elem}, nil
	}

	if inner, ok := unwrap(spec, "Tuple"); ok {
		parts := splitTopLevel(inner)
		elems := make([]ColumnCodec, len(parts))
		for i, p := range parts {
			c, err := ColumnForSpec(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			elems[i] = c
		}
		return &tupleColumn{elems: elems}, nil
	}

	switch spec {
	case "Int64":
		return int64Column{}, nil
	case "Float64":
		return float64Column{}, nil
	case "Bool":
		return boolColumn{}, nil
	case "String":
		return stringColumn{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownSpec, spec)
}

// ErrUnknownSpec is returned by ColumnForSpec for any type string it does
// not recognize.
var ErrUnknownSpec = fmt.Errorf("columns: unknown type spec")

// unwrap reports whether spec is "name(inner)" and returns inner.
func unwrap(spec, name string) (string, bool) {
	prefix := name + "("
	if !strings.HasPrefix(spec, prefix) || !strings.HasSuffix(spec, ")") {
		return "", false
	}
	return spec[len(prefix) : len(spec)-1], true
}

// splitTopLevel splits a comma-separated list of type specs, respecting
// nested parentheses so "Tuple(Array(Int64), String)" splits into
// ["Array(Int64)", " String"].
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
