// Package cli implements the Cobra command hierarchy for the headson CLI tool.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/headson/headson/internal/config"
	"github.com/headson/headson/internal/headsonerr"
)

var flagValues *config.FlagValues

var rootCmd = &cobra.Command{
	Use:   "headson",
	Short: "Summarize JSON, YAML, text, and codebases under a budget.",
	Long: `Headson turns a JSON document, a YAML document, a text file, or a whole
directory of files into an LLM-ready summary that fits a byte, character, or
line budget. It keeps ancestors before descendants and breadth before depth,
guarantees grep matches (and their ancestors) survive selection, and renders
the result as JSON, YAML, text, or a pseudo-JSON shape with omission markers.

Running headson with no subcommand is equivalent to 'headson generate'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFlags(flagValues, cmd); err != nil {
			return err
		}
		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)
		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

func init() {
	flagValues = config.BindFlags(rootCmd)
	rootCmd.RegisterFlagCompletionFunc("format", completeFormat)
	rootCmd.RegisterFlagCompletionFunc("style", completeStyle)
	rootCmd.RegisterFlagCompletionFunc("color", completeColor)
	rootCmd.RegisterFlagCompletionFunc("encoding", completeEncoding)
}

func completeFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "text", "pseudo", "code"}, cobra.ShellCompDirectiveNoFileComp
}

func completeStyle(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"strict", "default", "detailed"}, cobra.ShellCompDirectiveNoFileComp
}

func completeColor(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"off", "on", "auto"}, cobra.ShellCompDirectiveNoFileComp
}

func completeEncoding(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"cl100k_base", "o200k_base", "none"}, cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command and returns the process exit code derived
// from any returned error via headsonerr.CodeOf.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return int(headsonerr.ExitSuccess)
}

func extractExitCode(err error) int {
	return int(headsonerr.CodeOf(err))
}

// RootCmd returns the root Cobra command, for use by shell completion
// generation and tests.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the FlagValues populated by the most recent Execute.
func GlobalFlags() *config.FlagValues {
	return flagValues
}
