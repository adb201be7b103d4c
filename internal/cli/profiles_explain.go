package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chprotocol/chjson/internal/codec"
	"github.com/chprotocol/chjson/internal/config"
	"github.com/spf13/cobra"
)

// profilesExplainCmd shows how the active profile's dynamic-limit formula
// behaves as JSON nests deeper, the one piece of profile behavior that
// isn't visible just by reading its resolved fields.
var profilesExplainCmd = &cobra.Command{
	Use:   "explain [profile]",
	Short: "Show how a profile's dynamic-limit formula behaves across nesting depth",
	Long: `Resolve a profile and print, for each recursion depth from 0 to --max-depth,
the JSON(max_dynamic_types=..., max_dynamic_paths=...) spec WriteItems would
infer for a document nested that deep, following the depth-dependent
formula (max_dynamic_types=2^(4-d), max_dynamic_paths=4^(4-d)).

Depths at or past 5 truncate to a degenerate JSON(max_dynamic_types=0,
max_dynamic_paths=0) spec -- legal on the wire but outside the formula's
intended working range. This command exists to make that boundary
visible before it is hit by a real document.

If no profile name is given, the active default profile is explained.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfilesExplain,
	ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeProfileNames(nil, args, toComplete)
	},
}

func init() {
	profilesExplainCmd.Flags().Int("max-depth", 6, "highest nesting depth to print a row for")
	profilesCmd.AddCommand(profilesExplainCmd)
}

// runProfilesExplain implements `chjson profiles explain [profile]`.
func runProfilesExplain(cmd *cobra.Command, args []string) error {
	profileName := "default"
	if len(args) > 0 {
		profileName = args[0]
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	resolved, err := config.Resolve(config.ResolveOptions{
		ProfileName: profileName,
		TargetDir:   ".",
	})
	if err != nil {
		available, listErr := availableProfileNames()
		if listErr == nil && len(available) > 0 {
			return fmt.Errorf("%w\n\nAvailable profiles: %s", err, strings.Join(available, ", "))
		}
		return err
	}

	opts := codec.Options{
		BaseDynamicTypes: resolved.Profile.BaseDynamicTypes,
		BaseDynamicPaths: resolved.Profile.BaseDynamicPaths,
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile %q: base_dynamic_types=%d base_dynamic_paths=%d strict_mode=%v warn_deep_nesting=%v\n\n",
		profileName, opts.BaseDynamicTypes, opts.BaseDynamicPaths,
		resolved.Profile.StrictMode, resolved.Profile.WarnDeepNesting)

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "DEPTH\tMAX_DYNAMIC_TYPES\tMAX_DYNAMIC_PATHS\tNOTE")
	for d := 0; d <= maxDepth; d++ {
		maxTypes, maxPaths, degenerate := codec.DynamicLimitsAtDepth(d, opts)
		note := ""
		if degenerate {
			note = "degenerate (past intended nesting range)"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", d, maxTypes, maxPaths, note)
	}
	return tw.Flush()
}
