// Package cli implements the Cobra command hierarchy for the headson CLI tool.
// This file implements the `headson preview` subcommand which runs discovery
// and selection without writing an output file, showing which files would be
// included and how many tokens the rendered output would cost.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/headson/headson/internal/config"
	"github.com/headson/headson/internal/headson"
	"github.com/headson/headson/internal/priority"
	"github.com/headson/headson/internal/tokenreport"
)

// previewCmd implements `headson preview [path]`, which shows file
// selection and a token-count estimate without generating an output file.
var previewCmd = &cobra.Command{
	Use:   "preview [path]",
	Short: "Preview file selection and token statistics without generating output",
	Long: `Preview runs the same discovery, ordering, and budget-selection stages as
'headson generate', but writes its report to stderr instead of producing an
output file. Use this to inspect which files would be included and their
estimated token cost before committing to --output.

Examples:
  # Preview the current directory
  headson preview

  # Preview with an explicit byte budget
  headson preview --bytes 50000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("files", 0, "also print a per-file token breakdown, top N files (0 shows all)")
	rootCmd.AddCommand(previewCmd)
}

// runPreview executes the preview subcommand: it runs the same pipeline as
// generate (resolve config, discover inputs, summarize) and reports the
// selection and token statistics to stderr without writing any output file.
func runPreview(cmd *cobra.Command, args []string) error {
	if err := checkBudgetConflict(cmd); err != nil {
		return err
	}
	if err := checkGrepFlagConflict(cmd); err != nil {
		return err
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	resolved, err := config.Resolve(config.ResolveOptions{
		ProfileName: flagValues.Profile,
		ProfileFile: flagValues.ProfileFile,
		TargetDir:   targetDirFor(target),
		CLIFlags:    cliFlagOverrides(cmd, flagValues),
	})
	if err != nil {
		return fmt.Errorf("resolving configuration: %w", err)
	}
	profile := resolved.Profile

	inputs, isFileset, err := gatherInputs(cmd, target, profile)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}

	grepCfg, err := buildGrepConfig(profile)
	if err != nil {
		return fmt.Errorf("compiling --grep: %w", err)
	}

	result, err := headson.Summarize(cmd.Context(), headson.Options{
		Inputs:              inputs,
		Fileset:             isFileset,
		PriorityInputGroups: priority.ParseGroups(profile.Priority),
		Priority:            buildPriorityConfig(profile),
		Grep:                grepCfg,
		Budgets:             buildBudgets(profile, isFileset),
		Render:              buildRenderConfig(profile),
	})
	if err != nil {
		return err
	}

	report, err := tokenreport.Count(result.Output, profile.Encoding)
	if err != nil {
		return fmt.Errorf("counting tokens: %w", err)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Target:          %s\n", target)
	fmt.Fprintf(out, "Files discovered: %d\n", len(inputs))
	fmt.Fprintf(out, "Nodes selected:  %d / %d\n", result.SelectedNodes, result.TotalNodes)
	fmt.Fprintf(out, "Output size:     %d bytes, %d chars, %d lines\n",
		result.Stats.Bytes, result.Stats.Chars, result.Stats.Lines)
	fmt.Fprintf(out, "Token estimate:  %d (%s)\n", report.Tokens, report.Encoding)
	if len(result.ConstrainedDims) > 0 {
		fmt.Fprintf(out, "Constrained by:  %v\n", result.ConstrainedDims)
	}
	if result.Notice != "" {
		fmt.Fprintf(out, "Notice:          %s\n", result.Notice)
	}

	if cmd.Flags().Changed("files") {
		n, _ := cmd.Flags().GetInt("files")
		stats, err := buildTokenBreakdown(inputs, profile.Encoding)
		if err != nil {
			return fmt.Errorf("building token breakdown: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Per-file token breakdown:")
		printTopFiles(out, stats, n)
	}
	return nil
}
