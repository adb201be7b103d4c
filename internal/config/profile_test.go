package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveProfile_DefaultWithNoProfilesMap verifies that requesting
// "default" with an empty profiles map synthesizes the built-in default.
func TestResolveProfile_DefaultWithNoProfilesMap(t *testing.T) {
	t.Parallel()

	res, err := ResolveProfile("default", map[string]*Profile{})
	require.NoError(t, err)
	require.NotNil(t, res)

	want := DefaultProfile()
	assert.Equal(t, want.BaseDynamicTypes, res.Profile.BaseDynamicTypes)
	assert.Equal(t, want.BaseDynamicPaths, res.Profile.BaseDynamicPaths)
	assert.Equal(t, []string{"default"}, res.Chain)
}

// TestResolveProfile_DefaultOverride verifies that an explicitly defined
// "default" profile in the map overrides the built-in defaults for fields it
// sets, but preserves built-ins for fields it does not set.
func TestResolveProfile_DefaultOverride(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {BaseDynamicTypes: 64},
	}

	res, err := ResolveProfile("default", profiles)
	require.NoError(t, err)

	assert.Equal(t, 64, res.Profile.BaseDynamicTypes)
	assert.Equal(t, DefaultProfile().BaseDynamicPaths, res.Profile.BaseDynamicPaths)
}

// TestResolveProfile_UnknownNonDefault_ImplicitlyExtendsDefault verifies that
// a named profile with no explicit extends still merges on top of the
// resolved "default" profile.
func TestResolveProfile_UnknownNonDefault_ImplicitlyExtendsDefault(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {Format: "text", BaseDynamicTypes: 128},
		"mine":    {BaseDynamicTypes: 64},
	}

	res, err := ResolveProfile("mine", profiles)
	require.NoError(t, err)

	assert.Equal(t, 64, res.Profile.BaseDynamicTypes)
	assert.Equal(t, "text", res.Profile.Format,
		"unset field must inherit from the implicit default base")
}

// TestResolveProfile_ExplicitExtends verifies a two-level explicit chain.
func TestResolveProfile_ExplicitExtends(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {Format: "text", BaseDynamicTypes: 128, BaseDynamicPaths: 2048},
		"base":    {Extends: strPtr("default"), BaseDynamicTypes: 64},
	}

	res, err := ResolveProfile("base", profiles)
	require.NoError(t, err)

	assert.Equal(t, 64, res.Profile.BaseDynamicTypes,
		"child's own value wins over parent")
	assert.Equal(t, "text", res.Profile.Format,
		"unset field inherits from parent")
	assert.Equal(t, []string{"base", "default"}, res.Chain)
}

// TestResolveProfile_ThreeLevelChain verifies a three-level explicit chain
// resolves in ancestor-to-descendant merge order.
func TestResolveProfile_ThreeLevelChain(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {Format: "text", BaseDynamicTypes: 128},
		"base":    {Extends: strPtr("default"), BaseDynamicTypes: 64},
		"leaf":    {Extends: strPtr("base"), Output: "leaf.bin"},
	}

	res, err := ResolveProfile("leaf", profiles)
	require.NoError(t, err)

	assert.Equal(t, "leaf.bin", res.Profile.Output)
	assert.Equal(t, 64, res.Profile.BaseDynamicTypes, "inherited from base")
	assert.Equal(t, "text", res.Profile.Format, "inherited from default")
	assert.Equal(t, []string{"leaf", "base", "default"}, res.Chain)
}

// TestResolveProfile_MyProfileOverridesAllLevels verifies the child wins at
// every field it sets, even across a multi-level chain.
func TestResolveProfile_MyProfileOverridesAllLevels(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {Format: "text", BaseDynamicTypes: 128},
		"myprofile": {
			Extends: strPtr("default"), Format: "json", BaseDynamicTypes: 64,
		},
	}

	res, err := ResolveProfile("myprofile", profiles)
	require.NoError(t, err)

	assert.Equal(t, "json", res.Profile.Format)
	assert.Equal(t, 64, res.Profile.BaseDynamicTypes)
	assert.Equal(t, DefaultProfile().BaseDynamicPaths, res.Profile.BaseDynamicPaths)
}

// TestResolveProfile_NotFound verifies a descriptive error when a named
// profile (other than "default") is absent from the map.
func TestResolveProfile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := ResolveProfile("ghost", map[string]*Profile{
		"default": {},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

// TestResolveProfile_MissingParent verifies an error when extends names an
// undefined profile.
func TestResolveProfile_MissingParent(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"leaf": {Extends: strPtr("ghost")},
	}

	_, err := ResolveProfile("leaf", profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

// TestResolveProfile_SelfReferential verifies a profile that extends itself
// is reported as circular.
func TestResolveProfile_SelfReferential(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"loopy": {Extends: strPtr("loopy")},
	}

	_, err := ResolveProfile("loopy", profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
	assert.Contains(t, err.Error(), "loopy")
}

// TestResolveProfile_CircularChain verifies a multi-hop cycle is detected and
// the full cycle path is included in the error.
func TestResolveProfile_CircularChain(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"a": {Extends: strPtr("b")},
		"b": {Extends: strPtr("c")},
		"c": {Extends: strPtr("a")},
	}

	_, err := ResolveProfile("a", profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

// TestResolveProfile_DeepChainStillResolves verifies that a chain deeper than
// maxInheritanceDepth still resolves successfully (only a warning is logged,
// not an error).
func TestResolveProfile_DeepChainStillResolves(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {BaseDynamicTypes: 16},
		"p1":      {Extends: strPtr("default"), BaseDynamicTypes: 1},
		"p2":      {Extends: strPtr("p1"), BaseDynamicTypes: 2},
		"p3":      {Extends: strPtr("p2"), BaseDynamicTypes: 3},
		"p4":      {Extends: strPtr("p3"), BaseDynamicTypes: 4},
	}

	res, err := ResolveProfile("p4", profiles)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Profile.BaseDynamicTypes)
	assert.Len(t, res.Chain, 5)
}

// TestResolveProfile_ExtendsAlwaysCleared verifies the resolved profile never
// carries a dangling Extends pointer.
func TestResolveProfile_ExtendsAlwaysCleared(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {},
		"base":    {Extends: strPtr("default")},
	}

	res, err := ResolveProfile("base", profiles)
	require.NoError(t, err)
	assert.Nil(t, res.Profile.Extends)
}

// TestResolveProfile_BoolOverrideFalseWins verifies that an explicit false on
// the child always overrides a true on the parent.
func TestResolveProfile_BoolOverrideFalseWins(t *testing.T) {
	t.Parallel()

	profiles := map[string]*Profile{
		"default": {WarnDeepNesting: true, StrictMode: true},
		"relaxed": {
			Extends: strPtr("default"), WarnDeepNesting: false, StrictMode: false,
		},
	}

	res, err := ResolveProfile("relaxed", profiles)
	require.NoError(t, err)
	assert.False(t, res.Profile.WarnDeepNesting)
	assert.False(t, res.Profile.StrictMode)
}

// TestLookupProfile_BuiltinDefaultFallback verifies lookupProfile synthesizes
// DefaultProfile() for "default" when absent from the map.
func TestLookupProfile_BuiltinDefaultFallback(t *testing.T) {
	t.Parallel()

	p := lookupProfile("default", map[string]*Profile{})
	require.NotNil(t, p)
	assert.Equal(t, DefaultProfile().BaseDynamicTypes, p.BaseDynamicTypes)
}

// TestLookupProfile_UnknownReturnsNil verifies lookupProfile returns nil for
// an undefined non-default name.
func TestLookupProfile_UnknownReturnsNil(t *testing.T) {
	t.Parallel()

	p := lookupProfile("ghost", map[string]*Profile{})
	assert.Nil(t, p)
}
