package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeProfile_StringScalars(t *testing.T) {
	t.Parallel()

	base := &Profile{Output: "base.bin", Format: "text"}
	override := &Profile{Output: "override.bin"}

	merged := mergeProfile(base, override)
	assert.Equal(t, "override.bin", merged.Output, "non-empty override wins")
	assert.Equal(t, "text", merged.Format, "empty override falls back to base")
}

func TestMergeProfile_IntScalars(t *testing.T) {
	t.Parallel()

	base := &Profile{BaseDynamicTypes: 16, BaseDynamicPaths: 256}
	override := &Profile{BaseDynamicTypes: 64}

	merged := mergeProfile(base, override)
	assert.Equal(t, 64, merged.BaseDynamicTypes, "non-zero override wins")
	assert.Equal(t, 256, merged.BaseDynamicPaths, "zero override falls back to base")
}

func TestMergeProfile_BoolScalars_OverrideAlwaysWins(t *testing.T) {
	t.Parallel()

	base := &Profile{StrictMode: true, WarnDeepNesting: true}
	override := &Profile{StrictMode: false, WarnDeepNesting: false}

	merged := mergeProfile(base, override)
	assert.False(t, merged.StrictMode, "false override must win even though it is the zero value")
	assert.False(t, merged.WarnDeepNesting, "false override must win even though it is the zero value")
}

func TestMergeProfile_ExtendsAlwaysCleared(t *testing.T) {
	t.Parallel()

	parent := "default"
	base := &Profile{}
	override := &Profile{Extends: &parent}

	merged := mergeProfile(base, override)
	assert.Nil(t, merged.Extends, "Extends must always be cleared after merge")
}

func TestMergeProfile_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	base := &Profile{Output: "base.bin"}
	override := &Profile{Output: "override.bin"}

	_ = mergeProfile(base, override)

	assert.Equal(t, "base.bin", base.Output)
	assert.Equal(t, "override.bin", override.Output)
}

func TestMergeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "override", mergeString("base", "override"))
	assert.Equal(t, "base", mergeString("base", ""))
	assert.Equal(t, "", mergeString("", ""))
}

func TestMergeInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 64, mergeInt(16, 64))
	assert.Equal(t, 16, mergeInt(16, 0))
	assert.Equal(t, 0, mergeInt(0, 0))
}
