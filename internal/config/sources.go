package config

// Source identifies which configuration layer provided a value.
// Higher values indicate higher precedence.
type Source int

const (
	// SourceDefault is the built-in fallback (lowest precedence).
	SourceDefault Source = iota
	// SourceGlobal is the user's global config (~/.config/chjson/config.toml).
	SourceGlobal
	// SourceRepo is the project-local chjson.toml in the target directory.
	SourceRepo
	// SourceEnv is a CHJSON_* environment variable override.
	SourceEnv
	// SourceFlag is an explicit CLI flag (highest precedence).
	SourceFlag
)

// String returns the human-readable name of the source.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceGlobal:
		return "global"
	case SourceRepo:
		return "repo"
	case SourceEnv:
		return "env"
	case SourceFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// SourceMap tracks where each Profile field value originated.
// Keys are flat field names like "format", "base_dynamic_types".
type SourceMap map[string]Source
