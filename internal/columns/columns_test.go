package columns

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, spec string, items []any) []any {
	t.Helper()
	c, err := ColumnForSpec(spec)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteItems(items, &buf))

	got, err := c.ReadItems(len(items), &buf)
	require.NoError(t, err)
	return got
}

func TestColumnForSpec_Unknown(t *testing.T) {
	_, err := ColumnForSpec("FixedString(8)")
	require.ErrorIs(t, err, ErrUnknownSpec)
}

func TestInt64RoundTrip(t *testing.T) {
	got := roundTrip(t, "Int64", []any{int64(1), int64(-7), int64(0)})
	assert.Equal(t, []any{int64(1), int64(-7), int64(0)}, got)
}

func TestFloat64RoundTrip(t *testing.T) {
	got := roundTrip(t, "Float64", []any{1.5, -2.25, 0.0})
	assert.Equal(t, []any{1.5, -2.25, 0.0}, got)
}

func TestBoolRoundTrip(t *testing.T) {
	got := roundTrip(t, "Bool", []any{true, false, true})
	assert.Equal(t, []any{true, false, true}, got)
}

func TestStringRoundTrip(t *testing.T) {
	got := roundTrip(t, "String", []any{"hello", "", "world"})
	assert.Equal(t, []any{"hello", "", "world"}, got)
}

func TestNullableRoundTrip(t *testing.T) {
	got := roundTrip(t, "Nullable(Int64)", []any{int64(5), nil, int64(-1)})
	assert.Equal(t, []any{int64(5), nil, int64(-1)}, got)
}

func TestArrayRoundTrip(t *testing.T) {
	items := []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{},
	}
	got := roundTrip(t, "Array(Int64)", items)
	assert.Equal(t, items, got)
}

func TestTupleRoundTrip(t *testing.T) {
	items := []any{
		[]any{int64(1), "a"},
		[]any{int64(2), "b"},
	}
	got := roundTrip(t, "Tuple(Int64, String)", items)
	assert.Equal(t, items, got)
}

func TestNestedArrayOfTuple(t *testing.T) {
	items := []any{
		[]any{
			[]any{int64(1), "x"},
			[]any{int64(2), "y"},
		},
	}
	got := roundTrip(t, "Array(Tuple(Int64, String))", items)
	assert.Equal(t, items, got)
}

func TestSplitTopLevelRespectsNesting(t *testing.T) {
	c, err := ColumnForSpec("Tuple(Array(Int64), String)")
	require.NoError(t, err)
	tc, ok := c.(*tupleColumn)
	require.True(t, ok)
	require.Len(t, tc.elems, 2)
}
