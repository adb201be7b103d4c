package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ──────────────────────────────────────────────────────────────

// writeTomlFile writes content to a temporary TOML file and returns its path.
func writeTomlFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ── Layer 1: defaults ────────────────────────────────────────────────────

// TestResolve_DefaultsOnly verifies that when no config files, env vars, or
// CLI flags are provided, the resolved profile equals DefaultProfile().
func TestResolve_DefaultsOnly(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})

	require.NoError(t, err)
	require.NotNil(t, rc)

	want := DefaultProfile()
	assert.Equal(t, want.Format, rc.Profile.Format)
	assert.Equal(t, want.Output, rc.Profile.Output)
	assert.Equal(t, want.StrictMode, rc.Profile.StrictMode)
	assert.Equal(t, want.WarnDeepNesting, rc.Profile.WarnDeepNesting)
	assert.Equal(t, want.BaseDynamicTypes, rc.Profile.BaseDynamicTypes)
	assert.Equal(t, want.BaseDynamicPaths, rc.Profile.BaseDynamicPaths)

	assert.Equal(t, "default", rc.ProfileName)
}

// TestResolve_DefaultsOnly_SourceTracking verifies that all field sources are
// SourceDefault when no overriding layers are present.
func TestResolve_DefaultsOnly_SourceTracking(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})

	require.NoError(t, err)
	require.NotNil(t, rc)

	for _, field := range []string{"output", "format", "strict_mode", "warn_deep_nesting", "base_dynamic_types", "base_dynamic_paths"} {
		assert.Equal(t, SourceDefault, rc.Sources[field], "field %q must come from defaults", field)
	}
}

// ── Layer 2/3: repo config ───────────────────────────────────────────────

// TestResolve_RepoConfigOverridesDefaults verifies that a chjson.toml in
// TargetDir overrides the built-in defaults for fields it sets.
func TestResolve_RepoConfigOverridesDefaults(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "json"
base_dynamic_types = 64
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.NoError(t, err)

	assert.Equal(t, "json", rc.Profile.Format)
	assert.Equal(t, 64, rc.Profile.BaseDynamicTypes)
	assert.Equal(t, SourceRepo, rc.Sources["format"])
	assert.Equal(t, SourceDefault, rc.Sources["base_dynamic_paths"],
		"unset field must still be attributed to defaults")
}

// TestResolve_NamedProfileFromRepoConfig verifies that a non-default named
// profile resolves its inheritance chain against the repo config file.
func TestResolve_NamedProfileFromRepoConfig(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "text"

[profile.strict]
extends = "default"
strict_mode = true
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		ProfileName:      "strict",
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.NoError(t, err)

	assert.True(t, rc.Profile.StrictMode)
	assert.Equal(t, "strict", rc.ProfileName)
}

// TestResolve_NamedProfileNotFound verifies an error when a requested
// non-default profile does not appear in any config layer.
func TestResolve_NamedProfileNotFound(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	_, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		ProfileName:      "ghost",
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

// TestResolve_ProfileFileBypassesRepoConfig verifies that --profile-file
// loads a standalone TOML file instead of chjson.toml in TargetDir.
func TestResolve_ProfileFileBypassesRepoConfig(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "text"
`)
	standalone := writeTomlFile(t, dir, "standalone.toml", `
[profile.default]
format = "json"
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		ProfileFile:      standalone,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.NoError(t, err)
	assert.Equal(t, "json", rc.Profile.Format)
}

// TestResolve_ProfileFileMissingProfile verifies that an error is returned
// when --profile-file is given but does not contain the requested profile.
func TestResolve_ProfileFileMissingProfile(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	standalone := writeTomlFile(t, dir, "standalone.toml", `
[profile.default]
format = "json"
`)

	_, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		ProfileName:      "ghost",
		ProfileFile:      standalone,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.Error(t, err)
}

// ── Layer 2: global config ───────────────────────────────────────────────

// TestResolve_GlobalConfigBelowRepoConfig verifies that a repo config value
// overrides the same field set in the global config.
func TestResolve_GlobalConfigBelowRepoConfig(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	global := writeTomlFile(t, dir, "global.toml", `
[profile.default]
format = "json"
base_dynamic_types = 99
`)
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "text"
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: global,
	})
	require.NoError(t, err)

	assert.Equal(t, "text", rc.Profile.Format, "repo config must win over global")
	assert.Equal(t, 99, rc.Profile.BaseDynamicTypes, "global value used where repo is silent")
}

// ── Layer 4: environment variables ───────────────────────────────────────

// TestResolve_EnvOverridesFileConfig verifies that CHJSON_* env vars
// override repo config values.
func TestResolve_EnvOverridesFileConfig(t *testing.T) {
	clearChjsonEnv(t)
	t.Setenv(EnvFormat, "json")

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "text"
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.NoError(t, err)

	assert.Equal(t, "json", rc.Profile.Format)
	assert.Equal(t, SourceEnv, rc.Sources["format"])
}

// TestResolve_ProfileNameFromEnv verifies that CHJSON_PROFILE selects the
// active profile when ResolveOptions.ProfileName is empty.
func TestResolve_ProfileNameFromEnv(t *testing.T) {
	clearChjsonEnv(t)
	t.Setenv(EnvProfile, "strict")

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
[profile.strict]
extends = "default"
strict_mode = true
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.NoError(t, err)

	assert.Equal(t, "strict", rc.ProfileName)
	assert.True(t, rc.Profile.StrictMode)
}

// ── Layer 5: CLI flags ────────────────────────────────────────────────────

// TestResolve_CLIFlagsOverrideEverything verifies that CLIFlags has the
// highest precedence over env, repo config, and defaults.
func TestResolve_CLIFlagsOverrideEverything(t *testing.T) {
	clearChjsonEnv(t)
	t.Setenv(EnvFormat, "json")

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", `
[profile.default]
format = "text"
`)

	rc, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
		CLIFlags:         map[string]any{"format": "text"},
	})
	require.NoError(t, err)

	assert.Equal(t, "text", rc.Profile.Format)
	assert.Equal(t, SourceFlag, rc.Sources["format"])
}

// ── misc ──────────────────────────────────────────────────────────────────

// TestResolve_MissingGlobalConfigIsNotAnError verifies that a nonexistent
// global config path does not cause Resolve to fail.
func TestResolve_MissingGlobalConfigIsNotAnError(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	_, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "does-not-exist", "config.toml"),
	})
	require.NoError(t, err)
}

// TestResolve_InvalidRepoConfigReturnsError verifies that a malformed
// chjson.toml surfaces a parse error instead of being silently skipped.
func TestResolve_InvalidRepoConfigReturnsError(t *testing.T) {
	clearChjsonEnv(t)

	dir := t.TempDir()
	writeTomlFile(t, dir, "chjson.toml", "[broken")

	_, err := Resolve(ResolveOptions{
		TargetDir:        dir,
		GlobalConfigPath: filepath.Join(dir, "nonexistent-global.toml"),
	})
	require.Error(t, err)
}

// TestProfileToFlatMap_AllFields verifies every Profile field round-trips
// through the flat-map conversion used for the defaults layer.
func TestProfileToFlatMap_AllFields(t *testing.T) {
	t.Parallel()

	p := &Profile{
		Output: "out.bin", Format: "json",
		StrictMode: true, WarnDeepNesting: false,
		BaseDynamicTypes: 40, BaseDynamicPaths: 900,
	}
	flat := profileToFlatMap(p)

	assert.Equal(t, "out.bin", flat["output"])
	assert.Equal(t, "json", flat["format"])
	assert.Equal(t, true, flat["strict_mode"])
	assert.Equal(t, false, flat["warn_deep_nesting"])
	assert.Equal(t, 40, flat["base_dynamic_types"])
	assert.Equal(t, 900, flat["base_dynamic_paths"])
}
