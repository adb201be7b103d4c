package config

// Config is the top-level configuration type parsed from a chjson.toml file.
// It holds a map of named profiles keyed by profile name. Profile names are
// case-sensitive. The special name "default" is the built-in fallback profile.
type Config struct {
	// Profile maps profile names to their configuration. Access via
	// cfg.Profile["default"] or cfg.Profile["strict"].
	Profile map[string]*Profile `toml:"profile"`
}

// Profile defines all settings for a single named profile. Fields with zero
// values are considered unset and will be filled in by the merge/inheritance
// pipeline. The Extends field enables profile inheritance.
type Profile struct {
	// Extends is the name of a parent profile to inherit from. When set,
	// all unset fields in this profile are filled from the named parent.
	// A nil pointer means no inheritance.
	Extends *string `toml:"extends"`

	// StrictMode turns the shared-paths branch from a logged skip into a
	// hard error (ErrUnsupportedBranch) during decode.
	StrictMode bool `toml:"strict_mode"`

	// BaseDynamicTypes is the depth-0 max_dynamic_types value fed into the
	// inference formula for every freshly inferred JSON(...) spec.
	BaseDynamicTypes int `toml:"base_dynamic_types"`

	// BaseDynamicPaths is the depth-0 max_dynamic_paths value fed into the
	// inference formula for every freshly inferred JSON(...) spec.
	BaseDynamicPaths int `toml:"base_dynamic_paths"`

	// WarnDeepNesting enables a one-time warning on encode when a document's
	// nesting depth has driven the dynamic-limit formula to zero.
	WarnDeepNesting bool `toml:"warn_deep_nesting"`

	// Output is the file path written by `chjson encode` when neither
	// --output nor --stdout is given.
	Output string `toml:"output"`

	// Format controls rendering for commands that support more than one
	// presentation. Valid values: "text", "json".
	Format string `toml:"format"`
}
