package codec

import (
	"fmt"
	"math"
	"strings"
)

// InferSpec maps a runtime row value at recursion depth d to a ClickHouse
// TypeSpec string, per the write-side table: integers become Int64,
// floats Float64, bools Bool, strings and nil String, documents a JSON(...)
// spec whose dynamic limits shrink with depth, and lists either an
// Array(...) or Tuple(...) depending on whether any element is itself a
// document or list.
func InferSpec(v any, depth int, opts Options) string {
	switch val := v.(type) {
	case bool:
		return "Bool"
	case int64:
		return "Int64"
	case int:
		return "Int64"
	case float64:
		return "Float64"
	case string:
		return "String"
	case nil:
		return "String"
	case map[string]any:
		return jsonSpec(depth, opts)
	case []any:
		return inferListSpec(val, depth, opts)
	default:
		return "String"
	}
}

// jsonSpec renders the dynamic-limit-bearing JSON(...) spec for a document
// found at depth d. The division truncates toward zero: at d>=5 the
// exponentiated limits fall below 1 and truncate to 0, producing a legal
// but degenerate spec rather than an error.
func jsonSpec(depth int, opts Options) string {
	maxTypes := int(float64(opts.BaseDynamicTypes) / math.Pow(2, float64(depth)))
	maxPaths := int(float64(opts.BaseDynamicPaths) / math.Pow(4, float64(depth)))
	return fmt.Sprintf("JSON(max_dynamic_types=%d, max_dynamic_paths=%d)", maxTypes, maxPaths)
}

// JSONSpecAtDepth exposes jsonSpec's dynamic-limit formula to callers
// outside the package as the rendered spec string, so a profile's effect
// on deep nesting can be shown without re-deriving the formula.
// `chjson profiles explain` uses DynamicLimitsAtDepth for the raw numbers.
func JSONSpecAtDepth(depth int, opts Options) string {
	return jsonSpec(depth, opts)
}

// DynamicLimitsAtDepth reports the raw max_dynamic_types/max_dynamic_paths
// integers the formula produces at depth d, and whether they have both
// truncated to zero. Nesting past depth 4 is outside the formula's
// working range but not an error.
func DynamicLimitsAtDepth(depth int, opts Options) (maxTypes, maxPaths int, degenerate bool) {
	maxTypes = int(float64(opts.BaseDynamicTypes) / math.Pow(2, float64(depth)))
	maxPaths = int(float64(opts.BaseDynamicPaths) / math.Pow(4, float64(depth)))
	return maxTypes, maxPaths, maxTypes == 0 && maxPaths == 0
}

// inferListSpec decides between the Tuple(...) and Array(...) forms for a
// list value.
func inferListSpec(list []any, depth int, opts Options) string {
	if listContainsDocOrList(list) {
		return inferTupleOrArraySpec(list, depth, opts)
	}
	return inferPrimitiveArraySpec(list)
}

func listContainsDocOrList(list []any) bool {
	for _, el := range list {
		switch el.(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

// inferTupleOrArraySpec infers one element spec per list member, wrapping
// primitive element specs in Nullable(...) and leaving composite
// (Array/Tuple/JSON) element specs bare. If every wrapped element spec is
// identical, the result collapses to Array(spec_0); otherwise it is a
// Tuple(...) naming every element's spec positionally.
func inferTupleOrArraySpec(list []any, depth int, opts Options) string {
	wrapped := make([]string, len(list))
	allSame := true
	for i, el := range list {
		raw := InferSpec(el, depth, opts)
		w := wrapElementSpec(raw)
		wrapped[i] = w
		if i > 0 && w != wrapped[0] {
			allSame = false
		}
	}
	if allSame {
		return "Array(" + wrapped[0] + ")"
	}
	return "Tuple(" + strings.Join(wrapped, ", ") + ")"
}

func wrapElementSpec(raw string) string {
	switch raw {
	case "Int64", "Float64", "Bool", "String":
		return "Nullable(" + raw + ")"
	default:
		return raw
	}
}

// inferPrimitiveArraySpec picks Array(Nullable(T)) for a list with no
// document/list elements, where T follows a fixed precedence: any string
// forces String; else any float forces Float64 unless a bool is also
// present (then String); else any int forces Int64; else any bool forces
// Bool; an empty or all-null list defaults to String.
func inferPrimitiveArraySpec(list []any) string {
	var hasString, hasFloat, hasBool, hasInt bool
	for _, el := range list {
		switch el.(type) {
		case string:
			hasString = true
		case nil:
			// null contributes no type signal of its own.
		case float64:
			hasFloat = true
		case bool:
			hasBool = true
		case int64, int:
			hasInt = true
		}
	}

	var elem string
	switch {
	case hasString:
		elem = "String"
	case hasFloat:
		if hasBool {
			elem = "String"
		} else {
			elem = "Float64"
		}
	case hasInt:
		elem = "Int64"
	case hasBool:
		elem = "Bool"
	default:
		elem = "String"
	}
	return "Array(Nullable(" + elem + "))"
}
