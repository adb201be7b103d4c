// Package cli implements the Cobra command hierarchy for the chjson CLI
// tool. The root command defined here is the entry point for all
// subcommands and handles cross-cutting concerns like logging
// initialization and error handling.
package cli

import (
	"errors"
	"log/slog"

	"github.com/chprotocol/chjson/internal/config"
	"github.com/chprotocol/chjson/internal/driver"
	"github.com/spf13/cobra"
)

// flagValues holds the parsed global flag values, populated by config.BindFlags
// during command initialization and validated in PersistentPreRunE.
var flagValues *config.FlagValues

var rootCmd = &cobra.Command{
	Use:   "chjson",
	Short: "Inspect and exercise ClickHouse's native-protocol JSON column codec.",
	Long: `chjson encodes and decodes the columnar sub-stream ClickHouse's
native block protocol uses for a JSON-typed column: header, positions stream,
and per-path/per-type values, round-tripping a batch of nested documents.

Use 'encode' to turn a batch of JSON documents into a wire-format block,
'decode' to turn a block back into documents, and 'inspect' to see the
paths, specs, and path-stability histogram of a block without printing its
documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFlags(flagValues); err != nil {
			return err
		}

		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
}

func init() {
	flagValues = config.BindFlags(rootCmd)
}

// Execute runs the root command and returns an appropriate exit code.
// If the error is a *driver.Error, its Code is used. Generic errors return
// ExitError (1). Nil returns ExitSuccess (0).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return int(driver.ExitSuccess)
}

// extractExitCode determines the process exit code from an error.
// If the error is a *driver.Error, its Code field is used. Otherwise,
// ExitError (1) is returned for any non-nil error.
func extractExitCode(err error) int {
	if err == nil {
		return int(driver.ExitSuccess)
	}
	var de *driver.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return int(driver.ExitError)
}

// RootCmd returns the root cobra.Command for use in testing and subcommand registration.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the parsed global flag values. This is available after
// PersistentPreRunE has run. Subcommands use this to access shared configuration.
func GlobalFlags() *config.FlagValues {
	return flagValues
}
