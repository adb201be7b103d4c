// Package codec unit tests for the paths/specs header codec.
package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	// The state prefix byte is part of the 9 reserved bytes the reader
	// skips; it is written by the caller, not writePathsHeader.
	var buf bytes.Buffer
	require.NoError(t, WriteStatePrefix(&buf))
	require.NoError(t, writePathsHeader(&buf, []string{"alpha", "zeta"}))

	paths, shared, err := readPathsHeader(&buf)
	require.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, []string{"alpha", "zeta"}, paths)
}

func TestPathsHeaderEmptySignalsSharedBranch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteStatePrefix(&buf))
	require.NoError(t, writePathsHeader(&buf, nil))

	paths, shared, err := readPathsHeader(&buf)
	require.NoError(t, err)
	assert.True(t, shared)
	assert.Nil(t, paths)
}

func TestSpecsHeaderNamesRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeSpecsHeaderNames(&buf, []string{"Float64", "Int64", "String"}))

	specs, err := readSpecsHeaderNames(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Float64", "Int64", "String"}, specs)
}

func TestSpecsHeaderCountRepeatQuirk(t *testing.T) {
	t.Parallel()

	// Hand-craft a header where the server repeated spec_count (the
	// "next == spec_count" branch) for a single spec, "Int64" (5 bytes).
	var buf bytes.Buffer
	buf.Write(make([]byte, 8))
	buf.WriteByte(1) // spec_count
	buf.WriteByte(1) // next == spec_count: no quirk, normal length-prefixed read
	buf.WriteByte(5)
	buf.WriteString("Int64")
	buf.Write(make([]byte, 8))

	specs, err := readSpecsHeaderNames(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Int64"}, specs)
}

func TestSpecsHeaderCountRepeatQuirkTriggered(t *testing.T) {
	t.Parallel()

	// next != spec_count: next is itself the length of the first spec name,
	// read without its own separate length-prefix byte.
	var buf bytes.Buffer
	buf.Write(make([]byte, 8))
	buf.WriteByte(1) // spec_count
	buf.WriteByte(5) // next (== length of "Int64", != spec_count 1... wait must differ)
	buf.WriteString("Int64")
	buf.Write(make([]byte, 8))

	specs, err := readSpecsHeaderNames(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Int64"}, specs)
}

func TestSpecsHeaderCountCollisionDuplicatesCount(t *testing.T) {
	t.Parallel()

	// Four specs whose first sorted name, "Bool", is four bytes long: the
	// writer must repeat the count byte so the reader does not take the
	// name's length prefix for a repeated count.
	specs := []string{"Bool", "Float64", "Int64", "String"}

	var buf bytes.Buffer
	require.NoError(t, writeSpecsHeaderNames(&buf, specs))

	got, err := readSpecsHeaderNames(&buf)
	require.NoError(t, err)
	assert.Equal(t, specs, got)
}

func TestIsTupleAndArrayWithJSON(t *testing.T) {
	t.Parallel()

	assert.True(t, isTupleWithJSON("Tuple(Nullable(Int64), JSON(max_dynamic_types=1, max_dynamic_paths=1))"))
	assert.False(t, isTupleWithJSON("Tuple(Nullable(Int64), Nullable(String))"))
	assert.True(t, isArrayWithJSON("Array(JSON(max_dynamic_types=1, max_dynamic_paths=1))"))
	assert.False(t, isArrayWithJSON("Array(Nullable(Int64))"))
}

func TestSplitTupleBodyStripsTrailingParen(t *testing.T) {
	t.Parallel()

	parts := splitTupleBody("Tuple(Nullable(Int64), Array(Int64), Nullable(String))")
	require.Len(t, parts, 3)
	assert.Equal(t, "Nullable(Int64", parts[0])
	assert.Equal(t, "Array(Int64", parts[1])
	assert.Equal(t, "Nullable(String", parts[2])

	assert.Equal(t, "Nullable(Int64)", closeSubspec(parts[0]))
	assert.Equal(t, "Array(Int64)", closeSubspec(parts[1]))
	assert.Equal(t, "Nullable(String)", closeSubspec(parts[2]))
}

func TestComplexArrayHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	rows := []Row{{"a": int64(1)}, {"a": int64(2)}}
	bucket := &SpecBucket{Values: []any{
		[]any{rows[0]},
		[]any{rows[1]},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeComplexArrayHeader(&buf, bucket, 1, opts))

	pm, err := readComplexArrayHeader(&buf, opts)
	require.NoError(t, err)
	require.NotNil(t, pm)
	assert.Equal(t, []string{"a"}, pm.SortedPaths())
}
