package config

// DefaultProfile returns a new Profile populated with the built-in defaults.
// This profile is used as the base when no chjson.toml is present or when a
// named profile omits fields.
//
// Callers receive a fresh copy each time; mutating the returned value does not
// affect subsequent calls.
func DefaultProfile() *Profile {
	return &Profile{
		StrictMode:       false,
		BaseDynamicTypes: 16,
		BaseDynamicPaths: 256,
		WarnDeepNesting:  true,
		Output:           "",
		Format:           "text",
	}
}
