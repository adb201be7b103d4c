// Package cli implements the Cobra command hierarchy for the chjson CLI
// tool. This file implements the `chjson encode` subcommand, which turns a
// batch of JSON documents into one JSON column's worth of native-protocol
// bytes.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chprotocol/chjson/internal/codec"
	"github.com/chprotocol/chjson/internal/config"
	"github.com/chprotocol/chjson/internal/discovery"
	"github.com/chprotocol/chjson/internal/driver"
	"github.com/chprotocol/chjson/internal/wire"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file...|dir>",
	Short: "Encode JSON documents into a native JSON-column block",
	Long: `Read one or more JSON documents -- either named directly as arguments or
discovered under a directory argument via .chjsonignore/.gitignore-aware
walking -- batch them into one block, and write the block to --output
(default stdout).

The written file is a small self-contained container around the wire
column: an 8-byte little-endian item count, the WriteStatePrefix byte, then
WriteItems' own bytes. 'chjson decode' and 'chjson inspect' expect this
same container; the item count has no home inside the column bytes
themselves, since in a real native block it travels in the block header
instead.

Each input file holds exactly one JSON document (an object, not an array of
documents); files are read and unmarshaled concurrently before the single,
single-threaded WriteItems call assembles the block.

A per-file read or parse failure is reported and excluded from the batch
rather than aborting the whole run, unless every input fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringP("output", "o", "", "output path for the encoded block (default: stdout, or the resolved profile's output field)")
	encodeCmd.Flags().StringSlice("include", nil, "only encode files matching this doublestar glob (repeatable)")
	encodeCmd.Flags().StringSlice("exclude", nil, "skip files matching this doublestar glob (repeatable)")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	fv := GlobalFlags()
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	profile, err := resolveActiveProfile(fv)
	if err != nil {
		return driver.NewError("resolving profile", err)
	}

	paths, err := encodeInputPaths(cmd.Context(), args, include, exclude)
	if err != nil {
		return driver.NewError("discovering input files", err)
	}
	if len(paths) == 0 {
		return driver.NewError("no JSON fixtures found", nil)
	}

	docs, failed, err := readDocumentsConcurrently(cmd.Context(), paths)
	if err != nil {
		return driver.NewError("reading input files", err)
	}
	if len(docs) == 0 {
		return driver.NewError("every input file failed to parse", nil)
	}

	opts := codec.Options{
		StrictMode:       profile.StrictMode,
		BaseDynamicTypes: profile.BaseDynamicTypes,
		BaseDynamicPaths: profile.BaseDynamicPaths,
		WarnDeepNesting:  profile.WarnDeepNesting,
		Logger:           config.NewLogger("codec"),
	}

	var buf bytes.Buffer
	if err := wire.WriteU64LE(&buf, uint64(len(docs))); err != nil {
		return driver.NewError("writing item count", err)
	}
	if err := codec.WriteStatePrefix(&buf); err != nil {
		return driver.NewError("writing state prefix", err)
	}
	if err := codec.WriteItems(docs, &buf, opts); err != nil {
		return driver.NewError("encoding batch", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = profile.Output
	}
	if outputPath == "" || outputPath == "-" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return driver.NewError("writing output", err)
		}
	} else if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return driver.NewError("writing output file", err)
	}

	if len(failed) > 0 {
		return driver.NewPartialError(
			fmt.Sprintf("encoded %d document(s), %d failed", len(docs), len(failed)), nil)
	}
	return nil
}

// encodeInputPaths resolves the command's positional arguments into a
// concrete list of JSON fixture paths: a directory argument is walked with
// internal/discovery (honoring .chjsonignore/.gitignore and --include/--exclude);
// a file argument is taken as-is. Directly named files are the one road
// past the default ignore rules, so an argument matching a sensitive
// pattern (secrets.json, *.pem) gets a warning before it is encoded.
func encodeInputPaths(ctx context.Context, args []string, include, exclude []string) ([]string, error) {
	filter, err := discovery.NewPatternFilter(discovery.PatternFilterOptions{
		Includes: include,
		Excludes: exclude,
	})
	if err != nil {
		return nil, err
	}

	logger := config.NewLogger("discovery")

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if discovery.IsSensitivePath(arg) {
				logger.Warn("input matches a sensitive default-ignore pattern, encoding anyway because it was named explicitly",
					"path", arg)
			}
			paths = append(paths, arg)
			continue
		}

		gitMatcher, err := discovery.NewGitignoreMatcher(arg)
		if err != nil {
			return nil, fmt.Errorf("loading .gitignore under %s: %w", arg, err)
		}
		chjsonMatcher, err := discovery.NewChjsonignoreMatcher(arg)
		if err != nil {
			return nil, fmt.Errorf("loading .chjsonignore under %s: %w", arg, err)
		}

		walker := discovery.NewWalker()
		result, err := walker.Walk(ctx, discovery.WalkerConfig{
			Root:                arg,
			GitignoreMatcher:    gitMatcher,
			ChjsonignoreMatcher: chjsonMatcher,
			DefaultIgnorer:      discovery.NewDefaultIgnoreMatcher(),
			PatternFilter:       filter,
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
		for _, fx := range result.Fixtures {
			paths = append(paths, fx.AbsPath)
		}
	}
	return paths, nil
}

// readDocumentsConcurrently reads and JSON-unmarshals every path with a
// bounded errgroup fan-out: each file is read and parsed on its own
// goroutine, results are collected into a slice indexed by input order (not
// completion order), and a per-file failure is recorded rather than
// aborting the group.
func readDocumentsConcurrently(ctx context.Context, paths []string) (docs []any, failed []string, err error) {
	results := make([]codec.Row, len(paths))
	ok := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, readErr := os.ReadFile(p)
			if readErr != nil {
				return nil // recorded as a failure below via ok[i] staying false
			}
			var row codec.Row
			if unmarshalErr := json.Unmarshal(data, &row); unmarshalErr != nil {
				return nil
			}
			results[i] = row
			ok[i] = true
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return nil, nil, waitErr
	}

	for i, p := range paths {
		if ok[i] {
			docs = append(docs, results[i])
		} else {
			failed = append(failed, p)
		}
	}
	return docs, failed, nil
}

// resolveActiveProfile resolves the active profile through config's
// 5-layer pipeline using the global --profile/--profile-file flags.
func resolveActiveProfile(fv *config.FlagValues) (*config.Profile, error) {
	opts := config.ResolveOptions{TargetDir: "."}
	if fv != nil {
		opts.ProfileName = fv.ProfileName
		opts.ProfileFile = fv.ProfileFile
	}
	resolved, err := config.Resolve(opts)
	if err != nil {
		return nil, err
	}
	return resolved.Profile, nil
}
