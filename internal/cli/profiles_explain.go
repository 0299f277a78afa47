package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/headson/headson/internal/config"
)

// profilesExplainCmd shows how the active profile processes a specific file.
var profilesExplainCmd = &cobra.Command{
	Use:   "explain <filepath>",
	Short: "Show how the active profile processes a file",
	Long: `Simulate the discovery pipeline for a given file path and show the full
rule trace: which default and profile ignore patterns apply, and which
--priority group (if any) the file is assigned to.

The command is informational only -- it does not generate any output files.

Pass a glob pattern (e.g. "src/**/*.ts") to explain multiple matching files.
Use --profile to explain against a specific named profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesExplain,
	ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveDefault
	},
}

func init() {
	profilesExplainCmd.Flags().String("profile", "", "profile name to explain against")
	profilesCmd.AddCommand(profilesExplainCmd)
}

// runProfilesExplain implements `headson profiles explain <filepath>`.
func runProfilesExplain(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	profileFlag, _ := cmd.Flags().GetString("profile")
	out := cmd.OutOrStdout()

	// Resolve the profile through the full multi-source pipeline.
	resolveOpts := config.ResolveOptions{TargetDir: "."}
	if profileFlag != "" {
		resolveOpts.ProfileName = profileFlag
	}
	resolved, err := config.Resolve(resolveOpts)
	if err != nil {
		return fmt.Errorf("resolving profile: %w", err)
	}

	profileName := resolved.ProfileName

	// Determine whether filePath is a glob pattern.
	isGlob := strings.ContainsAny(filePath, "*?[{")

	if isGlob {
		// Expand the glob pattern against the current directory.
		matches, err := doublestar.Glob(os.DirFS("."), filePath, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("expanding glob %q: %w", filePath, err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(out, "No files matched glob pattern %q\n", filePath)
			return nil
		}
		for i, match := range matches {
			if i > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, strings.Repeat("-", 60))
				fmt.Fprintln(out)
			}
			result := config.ExplainFile(match, profileName, resolved.Profile)
			printExplainResult(out, result)
		}
		return nil
	}

	// Single file path.
	result := config.ExplainFile(filePath, profileName, resolved.Profile)
	printExplainResult(out, result)
	return nil
}

// printExplainResult formats and writes a single ExplainResult to w.
func printExplainResult(w io.Writer, result config.ExplainResult) {
	fmt.Fprintf(w, "Explaining: %s\n", result.FilePath)

	if result.Extends != "" {
		fmt.Fprintf(w, "Profile: %s (extends: %s)\n", result.ProfileName, result.Extends)
	} else {
		fmt.Fprintf(w, "Profile: %s\n", result.ProfileName)
	}
	fmt.Fprintln(w)

	if result.Included {
		fmt.Fprintf(w, "  Status:  INCLUDED\n")
		fmt.Fprintf(w, "  Group:   %s\n", formatGroup(result))
	} else {
		fmt.Fprintf(w, "  Status:      EXCLUDED\n")
		fmt.Fprintf(w, "  Excluded by: %s\n", result.ExcludedBy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rule trace:")
	for _, step := range result.Trace {
		fmt.Fprintf(w, "  %d. %s: %s\n", step.StepNum, step.Rule, step.Outcome)
	}
}

// formatGroup returns a human-readable description of the --priority group
// a file was assigned to, or "none" if it matched no group.
func formatGroup(result config.ExplainResult) string {
	if result.Group < 0 {
		return "none (default ordering)"
	}
	return fmt.Sprintf("%d (matched %q)", result.Group, result.GroupPattern)
}
