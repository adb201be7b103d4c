package config

import (
	"strings"
	"testing"
)

// FuzzConfigParse feeds arbitrary byte sequences to LoadFromString to verify
// that the parser never panics regardless of input. On valid-looking TOML
// input, it additionally checks that either an error or a non-nil Config is
// returned (never both nil with no error).
func FuzzConfigParse(f *testing.F) {
	// Seed corpus: valid TOMLs covering different schema areas.
	f.Add([]byte(``))
	f.Add([]byte(`[profile.default]`))
	f.Add([]byte(`
[profile.default]
format = "text"
base_dynamic_types = 128000
base_dynamic_paths = 512000
strict_mode = false
warn_deep_nesting = true
output = "chjson-output.bin"
`))
	f.Add([]byte(`
[profile.default]
format = "json"
base_dynamic_types = 200000
strict_mode = true
warn_deep_nesting = false
`))
	f.Add([]byte(`
[profile.base]
format = "text"
base_dynamic_types = 80000

[profile.child]
extends = "base"
format = "json"
`))
	f.Add([]byte(`
[profile.default]
base_dynamic_types = 16
base_dynamic_paths = 256
`))
	// Edge cases: truncated, binary-ish, duplicate keys.
	f.Add([]byte(`[profile`))
	f.Add([]byte(`[profile.`))
	f.Add([]byte(`[[profile]]`))
	f.Add([]byte("format = \"text\"\x00base_dynamic_types = 100"))
	f.Add([]byte(`
[profile.default]
base_dynamic_types = 99999999999999999999999999
`))
	f.Add([]byte(strings.Repeat("[profile.x]\nformat = \"text\"\n", 50)))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic under any input.
		cfg, err := LoadFromString(string(data), "fuzz")

		// Invariant: if err == nil then cfg must be non-nil.
		if err == nil && cfg == nil {
			t.Fatal("LoadFromString returned nil config with nil error")
		}
		// If cfg is non-nil, calling Validate must not panic.
		if cfg != nil {
			_ = Validate(cfg)
		}
	})
}

// FuzzValidate feeds random Config structs (parsed from arbitrary TOML) into
// the Validate function to verify it never panics.
func FuzzValidate(f *testing.F) {
	// Seed corpus: configs with various validation edge cases.
	f.Add([]byte(`
[profile.default]
format = "text"
base_dynamic_types = 128000
`))
	f.Add([]byte(`
[profile.bad]
format = "notaformat"
base_dynamic_types = -1
base_dynamic_paths = -1
`))
	f.Add([]byte(`
[profile.degenerate]
base_dynamic_types = 0
base_dynamic_paths = 0
`))
	f.Add([]byte(`
[profile.a]
extends = "b"

[profile.b]
extends = "a"
`))
	f.Add([]byte(`
[profile.deep1]
extends = "deep2"

[profile.deep2]
extends = "deep3"

[profile.deep3]
extends = "deep4"

[profile.deep4]
extends = "default"
`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, err := LoadFromString(string(data), "fuzz-validate")
		if err != nil || cfg == nil {
			return
		}
		// Must not panic.
		_ = Validate(cfg)
		// Lint also must not panic.
		_ = Lint(cfg)
	})
}
