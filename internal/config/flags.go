package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// FlagValues collects all parsed global persistent flag values from the CLI.
// This struct is populated by BindFlags; its ProfileName and ProfileFile
// select the profile and profile file handed to config.Resolve. None of its
// fields go into Resolve's CLIFlags layer.
type FlagValues struct {
	ProfileName string
	ProfileFile string
	Verbose     bool
	Quiet       bool
	Yes         bool
}

// BindFlags registers the global persistent flags on the given Cobra command
// and returns a FlagValues pointer that will be populated when the command is
// executed. Callers should access the returned struct after flag parsing.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.ProfileName, "profile", "p", "", "named profile to activate (default: active profile from config)")
	pf.StringVar(&fv.ProfileFile, "profile-file", "", "standalone profile TOML file, bypassing repo chjson.toml")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")
	pf.BoolVar(&fv.Yes, "yes", false, "skip confirmation prompts")

	return fv
}

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion. Call this from PersistentPreRunE after Cobra has parsed the flags.
func ValidateFlags(fv *FlagValues) error {
	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

// CLIOverrides converts a subcommand's explicitly-set flags into a flat map
// suitable for config.Resolve's CLIFlags layer. Only keys the caller includes
// are considered "explicitly set"; BindFlags' own fields are handled by the
// profile-name/profile-file plumbing in encode.go and are not part of this map.
func CLIOverrides(overrides map[string]any) map[string]any {
	if len(overrides) == 0 {
		return nil
	}
	m := make(map[string]any, len(overrides))
	for k, v := range overrides {
		m[k] = v
	}
	return m
}
