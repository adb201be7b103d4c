// Package codec unit tests for the positions stream and per-spec value
// dispatch.
package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSkip(t *testing.T) {
	t.Parallel()

	// Float64 and Int64 get a reserved slot each; String and Tuple do not.
	assert.Equal(t, 2, computeSkip([]string{"Float64", "Int64", "String"}))
	assert.Equal(t, 0, computeSkip([]string{"String", "Tuple(Int64, String)"}))
	assert.Equal(t, 1, computeSkip([]string{"Int64"}))
}

func TestPositionsRoundTrip(t *testing.T) {
	t.Parallel()

	pm := NewPathMap()
	sm := pm.Ensure("key")
	b1 := sm.Ensure("Float64")
	b1.Positions = []int{1, 3}
	b2 := sm.Ensure("Int64")
	b2.Positions = []int{0}
	b3 := sm.Ensure("String")
	b3.Positions = []int{2}

	var buf bytes.Buffer
	require.NoError(t, writePositions(&buf, 4, sm))
	assert.Equal(t, 4, buf.Len())

	pm2 := NewPathMap()
	sm2 := pm2.Ensure("key")
	sm2.Ensure("Float64")
	sm2.Ensure("Int64")
	sm2.Ensure("String")
	require.NoError(t, readPositionsInto(&buf, 4, sm2))

	got1, _ := sm2.Get("Float64")
	got2, _ := sm2.Get("Int64")
	got3, _ := sm2.Get("String")
	assert.Equal(t, []int{1, 3}, got1.Positions)
	assert.Equal(t, []int{0}, got2.Positions)
	assert.Equal(t, []int{2}, got3.Positions)
}

func TestPreprocessArrayForWriteBoolDropsNulls(t *testing.T) {
	t.Parallel()

	out := preprocessArrayForWrite("Nullable(Bool)", []any{
		[]any{true, nil, false},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []any{true, false}, out[0])
}

func TestPreprocessArrayForWriteIntNullsToZero(t *testing.T) {
	t.Parallel()

	out := preprocessArrayForWrite("Nullable(Int64)", []any{
		[]any{int64(1), nil, int64(3)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []any{int64(1), int64(0), int64(3)}, out[0])
}

func TestPreprocessArrayForWriteStringRendersBool(t *testing.T) {
	t.Parallel()

	out := preprocessArrayForWrite("Nullable(String)", []any{
		[]any{"x", true, false, nil, int64(5)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, []any{"x", "true", "false", nil, "5"}, out[0])
}

func TestCloseSubspec(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Array(Int64)", closeSubspec("Array(Int64"))
	assert.Equal(t, "Int64", bareNullablePrimitive("Nullable(Int64"))
}
