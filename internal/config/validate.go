package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// validFormats lists the only accepted values for Profile.Format.
// An empty string is valid for profiles that inherit the value from a parent.
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"":     true,
}

// maxInheritanceWarningDepth is the chain length above which validation emits
// a warning about deep inheritance (mirrors the resolver constant).
const maxInheritanceWarningDepth = 3

// Validate inspects every profile in cfg and returns a slice of
// ValidationErrors describing hard errors and warnings found in the
// configuration. It does not stop at the first error; all profiles are
// checked and all findings are accumulated before returning.
//
// The returned slice is nil when no issues are found. Each element carries
// a Severity field of either "error" or "warning".
//
// Validate does not modify cfg.
func Validate(cfg *Config) []ValidationError {
	if cfg == nil {
		return nil
	}

	var results []ValidationError

	for name, profile := range cfg.Profile {
		if profile == nil {
			continue
		}
		errs := validateProfile(name, profile, cfg.Profile)
		results = append(results, errs...)
	}

	if len(results) > 0 {
		slog.Debug("config validation complete",
			"total_issues", len(results),
		)
	}

	return results
}

// validateProfile checks a single named profile and returns all validation
// errors and warnings for that profile.
func validateProfile(name string, p *Profile, allProfiles map[string]*Profile) []ValidationError {
	var results []ValidationError

	field := func(f string) string {
		return fmt.Sprintf("profile.%s.%s", name, f)
	}

	// ── Hard errors ────────────────────────────────────────────────────────

	if !validFormats[p.Format] {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("format"),
			Message:  fmt.Sprintf("format %q is invalid", p.Format),
			Suggest:  "Valid formats: text, json",
		})
	}

	if p.BaseDynamicTypes < 0 {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("base_dynamic_types"),
			Message:  fmt.Sprintf("base_dynamic_types %d is negative", p.BaseDynamicTypes),
			Suggest:  "Set base_dynamic_types to a non-negative integer or remove it to use the default",
		})
	}

	if p.BaseDynamicPaths < 0 {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    field("base_dynamic_paths"),
			Message:  fmt.Sprintf("base_dynamic_paths %d is negative", p.BaseDynamicPaths),
			Suggest:  "Set base_dynamic_paths to a non-negative integer or remove it to use the default",
		})
	}

	if p.Extends != nil && *p.Extends != "" {
		if _, err := ResolveProfile(name, allProfiles); err != nil {
			if strings.Contains(err.Error(), "circular") {
				results = append(results, ValidationError{
					Severity: "error",
					Field:    field("extends"),
					Message:  err.Error(),
					Suggest:  "Remove or restructure the extends chain to eliminate the cycle",
				})
			} else {
				results = append(results, ValidationError{
					Severity: "error",
					Field:    field("extends"),
					Message:  fmt.Sprintf("extends %q: %s", *p.Extends, err.Error()),
					Suggest:  fmt.Sprintf("Define a profile named %q or update the extends value", *p.Extends),
				})
			}
		}
	}

	// ── Warnings ───────────────────────────────────────────────────────────

	if p.BaseDynamicTypes == 0 && p.BaseDynamicPaths == 0 {
		results = append(results, ValidationError{
			Severity: "warning",
			Field:    field("base_dynamic_types"),
			Message:  "base_dynamic_types and base_dynamic_paths are both 0; every freshly inferred JSON column degenerates immediately",
			Suggest:  "Set non-zero base_dynamic_types/base_dynamic_paths unless this is intentional",
		})
	}

	results = append(results, warnDeepInheritance(name, p, allProfiles)...)

	return results
}

// warnDeepInheritance returns a warning when the inheritance chain for the
// profile exceeds maxInheritanceWarningDepth levels.
func warnDeepInheritance(profileName string, p *Profile, allProfiles map[string]*Profile) []ValidationError {
	if p.Extends == nil || *p.Extends == "" {
		return nil
	}

	resolution, err := ResolveProfile(profileName, allProfiles)
	if err != nil {
		// Errors are already reported elsewhere (e.g. circular inheritance).
		return nil
	}

	depth := len(resolution.Chain)
	if depth <= maxInheritanceWarningDepth {
		return nil
	}

	return []ValidationError{
		{
			Severity: "warning",
			Field:    fmt.Sprintf("profile.%s.extends", profileName),
			Message: fmt.Sprintf(
				"inheritance chain is %d levels deep (%s)",
				depth,
				strings.Join(resolution.Chain, " -> "),
			),
			Suggest: "Flatten the inheritance chain to 3 levels or fewer for maintainability",
		},
	}
}

// Lint runs all Validate checks and additionally performs deeper static
// analysis of the configuration. It returns a slice of LintResult values that
// embed ValidationError for unified severity/field/message access.
//
// The returned slice is nil when no issues are found.
func Lint(cfg *Config) []LintResult {
	if cfg == nil {
		return nil
	}

	var results []LintResult

	for _, ve := range Validate(cfg) {
		results = append(results, LintResult{ValidationError: ve})
	}

	for name, profile := range cfg.Profile {
		if profile == nil {
			continue
		}
		results = append(results, lintProfile(name, profile)...)
	}

	return results
}

// lintProfile performs deeper lint-only analysis for a single profile.
func lintProfile(profileName string, p *Profile) []LintResult {
	var results []LintResult

	if !p.WarnDeepNesting {
		results = append(results, LintResult{
			ValidationError: ValidationError{
				Severity: "warning",
				Field:    fmt.Sprintf("profile.%s.warn_deep_nesting", profileName),
				Message:  "warn_deep_nesting is disabled; documents that drive the dynamic-limit formula to zero will collapse silently",
				Suggest:  "Enable warn_deep_nesting unless deeply nested documents are expected and acceptable",
			},
			Code: "silent-degeneration",
		})
	}

	return results
}
