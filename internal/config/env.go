package config

import (
	"os"
	"strconv"
)

// Environment variable name constants for CHJSON_ prefixed overrides.
const (
	// EnvProfile selects the named profile to activate.
	EnvProfile = "CHJSON_PROFILE"
	// EnvStrictMode overrides the shared-paths strict mode flag.
	EnvStrictMode = "CHJSON_STRICT_MODE"
	// EnvBaseDynamicTypes overrides the depth-0 max_dynamic_types value.
	EnvBaseDynamicTypes = "CHJSON_BASE_DYNAMIC_TYPES"
	// EnvBaseDynamicPaths overrides the depth-0 max_dynamic_paths value.
	EnvBaseDynamicPaths = "CHJSON_BASE_DYNAMIC_PATHS"
	// EnvWarnDeepNesting overrides the deep-nesting warning flag.
	EnvWarnDeepNesting = "CHJSON_WARN_DEEP_NESTING"
	// EnvOutput overrides the output file path.
	EnvOutput = "CHJSON_OUTPUT"
	// EnvFormat overrides the render format.
	EnvFormat = "CHJSON_FORMAT"
	// EnvLogFormat overrides the log output format (not a profile field).
	EnvLogFormat = "CHJSON_LOG_FORMAT"
	// EnvDebug enables debug-level logging (not a profile field).
	EnvDebug = "CHJSON_DEBUG"
)

// buildEnvMap reads CHJSON_* environment variables and returns a flat map
// suitable for use with a koanf confmap provider. Only non-empty env vars that
// parse successfully are included. Invalid numeric/boolean values are silently
// skipped so that a bad env var does not block the entire resolution pipeline.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvOutput); v != "" {
		m["output"] = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		m["format"] = v
	}
	if v := os.Getenv(EnvStrictMode); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["strict_mode"] = b
		}
	}
	if v := os.Getenv(EnvWarnDeepNesting); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["warn_deep_nesting"] = b
		}
	}
	if v := os.Getenv(EnvBaseDynamicTypes); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["base_dynamic_types"] = n
		}
	}
	if v := os.Getenv(EnvBaseDynamicPaths); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["base_dynamic_paths"] = n
		}
	}

	return m
}
