package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findField(results []ValidationError, field string) *ValidationError {
	for i := range results {
		if results[i].Field == field {
			return &results[i]
		}
	}
	return nil
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Validate(nil))
}

func TestValidate_NoIssues(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": DefaultProfile(),
	}}
	assert.Empty(t, Validate(cfg))
}

func TestValidate_InvalidFormat(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {Format: "xml", BaseDynamicTypes: 16, BaseDynamicPaths: 256},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.default.format")
	require.NotNil(t, e)
	assert.Equal(t, "error", e.Severity)
}

func TestValidate_NegativeBaseDynamicTypes(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {BaseDynamicTypes: -1, BaseDynamicPaths: 256},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.default.base_dynamic_types")
	require.NotNil(t, e)
	assert.Equal(t, "error", e.Severity)
}

func TestValidate_NegativeBaseDynamicPaths(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {BaseDynamicTypes: 16, BaseDynamicPaths: -5},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.default.base_dynamic_paths")
	require.NotNil(t, e)
	assert.Equal(t, "error", e.Severity)
}

func TestValidate_DegenerateLimitsWarning(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {BaseDynamicTypes: 0, BaseDynamicPaths: 0, Format: "text"},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.default.base_dynamic_types")
	require.NotNil(t, e)
	assert.Equal(t, "warning", e.Severity)
}

func TestValidate_MissingExtendsParent(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"child": {Extends: strPtr("ghost")},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.child.extends")
	require.NotNil(t, e)
	assert.Equal(t, "error", e.Severity)
}

func TestValidate_CircularExtends(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"a": {Extends: strPtr("b")},
		"b": {Extends: strPtr("a")},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.a.extends")
	require.NotNil(t, e)
	assert.Contains(t, e.Message, "circular")
}

func TestValidate_DeepInheritanceWarning(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {},
		"p1":      {Extends: strPtr("default")},
		"p2":      {Extends: strPtr("p1")},
		"p3":      {Extends: strPtr("p2")},
		"p4":      {Extends: strPtr("p3")},
	}}

	results := Validate(cfg)
	e := findField(results, "profile.p4.extends")
	require.NotNil(t, e)
	assert.Equal(t, "warning", e.Severity)
}

func TestValidate_ShallowInheritanceNoWarning(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {},
		"child":   {Extends: strPtr("default")},
	}}

	results := Validate(cfg)
	assert.Nil(t, findField(results, "profile.child.extends"))
}

func TestValidate_NilProfileSkipped(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"broken": nil,
	}}

	assert.NotPanics(t, func() {
		Validate(cfg)
	})
}

func TestValidate_MultipleIssuesAccumulated(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {Format: "xml", BaseDynamicTypes: -1},
	}}

	results := Validate(cfg)
	assert.GreaterOrEqual(t, len(results), 2)
}

// ── Lint ─────────────────────────────────────────────────────────────────

func TestLint_NilConfig(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Lint(nil))
}

func TestLint_IncludesValidateResults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {Format: "xml"},
	}}

	results := Lint(cfg)
	found := false
	for _, r := range results {
		if r.Field == "profile.default.format" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLint_WarnDeepNestingDisabled(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {WarnDeepNesting: false, Format: "text"},
	}}

	results := Lint(cfg)
	var found *LintResult
	for i := range results {
		if results[i].Code == "silent-degeneration" {
			found = &results[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "warning", found.Severity)
}

func TestLint_WarnDeepNestingEnabled_NoFinding(t *testing.T) {
	t.Parallel()

	cfg := &Config{Profile: map[string]*Profile{
		"default": {WarnDeepNesting: true, Format: "text"},
	}}

	results := Lint(cfg)
	for _, r := range results {
		assert.NotEqual(t, "silent-degeneration", r.Code)
	}
}
