// Package cli implements the Cobra command hierarchy for the chjson CLI
// tool. This file implements the `chjson inspect` subcommand.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/zeebo/xxh3"

	"github.com/chprotocol/chjson/internal/codec"
	"github.com/chprotocol/chjson/internal/driver"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show per-path specs and stability for a block without printing its documents",
	Long: `Decode a block written by 'chjson encode', then print its per-path spec
set, a stability histogram (how many distinct wire types each path needed
across the batch), and a content hash of the file's bytes -- without
printing the folded documents themselves.

Use this to see whether a fixture corpus stays close to one TypeSpec per
path (monomorphic) or forces the encoder into Tuple/Array(JSON(...))
branches (highly-polymorphic), which is the condition 'chjson profiles
explain' and the warn_deep_nesting profile setting are there to surface.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	fv := GlobalFlags()
	profile, err := resolveActiveProfile(fv)
	if err != nil {
		return driver.NewError("resolving profile", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return driver.NewError("reading file", err)
	}

	rows, err := decodeFile(path, profile)
	if err != nil {
		return driver.NewError("decoding block", err)
	}

	opts := codec.Options{
		StrictMode:       profile.StrictMode,
		BaseDynamicTypes: profile.BaseDynamicTypes,
		BaseDynamicPaths: profile.BaseDynamicPaths,
		WarnDeepNesting:  profile.WarnDeepNesting,
	}
	pm := codec.Unfold(rows, 0, opts)
	hist := codec.ClassifyPathMap(pm)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d row(s), %d byte(s), hash=%016x\n\n",
		path, len(rows), len(data), xxh3.Hash(data))

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSTABILITY\tSPECS")
	for _, p := range pm.SortedPaths() {
		sm, _ := pm.Get(p)
		class := codec.ClassifyPath(sm)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, class, specsJoined(sm))
	}
	if err := tw.Flush(); err != nil {
		return driver.NewError("writing table", err)
	}

	fmt.Fprintf(out, "\nstability histogram: monomorphic=%d polymorphic=%d highly-polymorphic=%d\n",
		hist.Monomorphic, hist.Polymorphic, hist.HighlyPolymorphic)
	return nil
}

func specsJoined(sm *codec.SpecMap) string {
	specs := sm.SortedSpecs()
	out := ""
	for i, s := range specs {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
