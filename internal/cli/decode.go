// Package cli implements the Cobra command hierarchy for the chjson CLI
// tool. This file implements the `chjson decode` subcommand.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chprotocol/chjson/internal/codec"
	"github.com/chprotocol/chjson/internal/config"
	"github.com/chprotocol/chjson/internal/driver"
	"github.com/chprotocol/chjson/internal/wire"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a native JSON-column block back into JSON documents",
	Long: `Read the item count, state prefix, and column bytes 'chjson encode' wrote,
and fold them back into one JSON document per row, printed one per line.

Pass --tui to open the same rows in an interactive viewer instead, with a
row list on the left and the folded document for the selected row on the
right.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().Bool("tui", false, "open the decoded rows in an interactive viewer")
	decodeCmd.Flags().Bool("pretty", false, "pretty-print each document instead of one compact line")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	fv := GlobalFlags()
	profile, err := resolveActiveProfile(fv)
	if err != nil {
		return driver.NewError("resolving profile", err)
	}

	rows, err := decodeFile(args[0], profile)
	if err != nil {
		return driver.NewError("decoding block", err)
	}

	tui, _ := cmd.Flags().GetBool("tui")
	if tui {
		return runViewer(rows)
	}

	pretty, _ := cmd.Flags().GetBool("pretty")
	out := cmd.OutOrStdout()
	for _, row := range rows {
		var data []byte
		var marshalErr error
		if pretty {
			data, marshalErr = json.MarshalIndent(row, "", "  ")
		} else {
			data, marshalErr = json.Marshal(row)
		}
		if marshalErr != nil {
			return driver.NewError("marshaling decoded row", marshalErr)
		}
		fmt.Fprintln(out, string(data))
	}
	return nil
}

// decodeFile reads the container 'chjson encode' writes -- an 8-byte
// little-endian item count, then the column's own bytes starting with the
// state prefix -- and folds it back into rows. The prefix byte stays on
// the stream for ReadItems, which consumes it as part of the column's
// reserved framing.
func decodeFile(path string, profile *config.Profile) ([]codec.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)

	nItems, err := wire.ReadU64LE(r)
	if err != nil {
		return nil, fmt.Errorf("reading item count: %w", err)
	}
	const maxItems = 1 << 24
	if nItems > maxItems {
		return nil, fmt.Errorf("item count %d exceeds the %d-row container limit", nItems, maxItems)
	}

	opts := codec.Options{
		StrictMode:       profile.StrictMode,
		BaseDynamicTypes: profile.BaseDynamicTypes,
		BaseDynamicPaths: profile.BaseDynamicPaths,
		WarnDeepNesting:  profile.WarnDeepNesting,
		Logger:           config.NewLogger("codec"),
	}

	return codec.ReadItems(int(nItems), r, opts)
}
