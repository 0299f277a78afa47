// Package cli implements the Cobra command hierarchy for the headson CLI tool.
// This file implements the `headson generate` subcommand (also the root
// command's default action) which runs the full summarize pipeline and
// writes its output to a file or stdout.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/headson/headson/internal/color"
	"github.com/headson/headson/internal/config"
	"github.com/headson/headson/internal/discovery"
	"github.com/headson/headson/internal/grep"
	"github.com/headson/headson/internal/headson"
	"github.com/headson/headson/internal/headsonerr"
	"github.com/headson/headson/internal/ingest"
	"github.com/headson/headson/internal/order"
	"github.com/headson/headson/internal/priority"
	"github.com/headson/headson/internal/render"
	"github.com/headson/headson/internal/selector"
)

// generateCmd implements `headson generate` (aliased `gen`), the command the
// bare `headson` invocation delegates to. It accepts zero or one positional
// argument: a file or directory path, "-" for stdin, defaulting to ".".
var generateCmd = &cobra.Command{
	Use:     "generate [path]",
	Aliases: []string{"gen"},
	Short:   "Generate an LLM-optimized summary from a file or directory",
	Long: `Generate runs the full headson pipeline against a single file, a single
directory (discovered as a fileset), or stdin ("-"), and writes the rendered
result to --output or stdout.

Examples:
  # Summarize the current directory
  headson generate

  # Summarize one JSON file under a byte budget
  headson generate config.json --bytes 4000

  # Summarize stdin as text
  cat access.log | headson generate -

  # Keep every line mentioning "ERROR" and its ancestors
  headson generate --grep ERROR`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// runGenerate implements `headson generate`: resolve the layered
// configuration profile, discover or read the target's inputs, run
// headson.Summarize, and write the result.
func runGenerate(cmd *cobra.Command, args []string) error {
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
		ProfileName:      flagValues.Profile,
		ProfileFile:      flagValues.ProfileFile,
		TargetDir:        targetDirFor(target),
		CLIFlags:         cliFlagOverrides(cmd, flagValues),
	})
	if err != nil {
		return fmt.Errorf("resolving configuration: %w", err)
	}
	profile := resolved.Profile

	inputs, isFileset, err := gatherInputs(cmd, target, profile)
	if err != nil {
		return headsonerr.IngestFailed(target, err)
	}

	formatOverridden := isFileset && (cmd.Flags().Changed("format") || cmd.Flags().Changed("style"))

	grepCfg, err := buildGrepConfig(profile)
	if err != nil {
		return headsonerr.GrepConflict(err.Error())
	}

	opts := headson.Options{
		Inputs:                  inputs,
		Fileset:                 isFileset,
		FilesetFormatOverridden: formatOverridden,
		PriorityInputGroups:     priority.ParseGroups(profile.Priority),
		Priority:                buildPriorityConfig(profile),
		Grep:                    grepCfg,
		Budgets:                 buildBudgets(profile, isFileset),
		Render:                  buildRenderConfig(profile),
	}
	if flagValues.Debug {
		opts.Debug = cmd.ErrOrStderr()
	}

	result, err := headson.Summarize(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, profile, result.Output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if result.Notice != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s]\n", result.Notice)
	}
	return nil
}

// targetDirFor returns the directory config.Resolve should search for
// .headson.toml: target itself when it is (or will be treated as) a
// directory, otherwise its parent.
func targetDirFor(target string) string {
	if target == "-" {
		return "."
	}
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// cliFlagOverrides builds the highest-precedence config.Resolve layer from
// only the flags the user actually set, so unset flags don't shadow
// lower-precedence profile/env values with zero values.
func cliFlagOverrides(cmd *cobra.Command, fv *config.FlagValues) map[string]any {
	m := make(map[string]any)
	changed := cmd.Flags().Changed
	if changed("output") {
		m["output"] = fv.Output
	}
	if changed("format") {
		m["format"] = fv.Format
	}
	if changed("style") {
		m["style"] = fv.Style
	}
	if changed("compact") {
		m["compact"] = fv.Compact
	}
	if changed("color") {
		m["color"] = fv.Color
	}
	if changed("encoding") {
		m["encoding"] = fv.Encoding
	}
	if changed("bytes") {
		m["bytes"] = fv.Bytes
	}
	if changed("chars") {
		m["chars"] = fv.Chars
	}
	if changed("lines") {
		m["lines"] = fv.Lines
	}
	if changed("global-bytes") {
		m["global_bytes"] = fv.GlobalBytes
	}
	if changed("global-chars") {
		m["global_chars"] = fv.GlobalChars
	}
	if changed("global-lines") {
		m["global_lines"] = fv.GlobalLines
	}
	if changed("grep") {
		m["grep"] = fv.Grep
	}
	if changed("grep-weak") {
		m["grep_weak"] = fv.GrepWeak
	}
	if changed("ignore") {
		m["ignore"] = fv.Ignore
	}
	if changed("git-tracked-only") {
		m["git_tracked_only"] = fv.GitTrackedOnly
	}
	if changed("skip-large-files") {
		m["skip_large_files"] = fv.SkipLargeFiles
	}
	if changed("no-sort") {
		m["no_sort"] = fv.NoSort
	}
	if changed("priority") {
		m["priority"] = config.ParsePriorityGroups(fv.Priority)
	}
	return m
}

// gatherInputs reads target into one or more ingest.Input values. A
// directory is walked via internal/discovery under the profile's ignore
// rules; "-" reads stdin as a single text input; anything else is read as a
// single file.
func gatherInputs(cmd *cobra.Command, target string, profile *config.Profile) ([]ingest.Input, bool, error) {
	if target == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, false, err
		}
		return []ingest.Input{{Name: "stdin", Bytes: data, Kind: ingest.KindText}}, false, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, false, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, false, err
		}
		return []ingest.Input{{Name: filepath.Base(target), Bytes: data, Kind: kindForPath(target)}}, false, nil
	}

	walker := discovery.NewWalker()
	gitignoreMatcher, err := discovery.NewGitignoreMatcher(target)
	if err != nil {
		return nil, false, err
	}
	headsonignoreMatcher, err := discovery.NewHeadsonignoreMatcher(target)
	if err != nil {
		return nil, false, err
	}

	result, err := walker.Walk(cmd.Context(), discovery.WalkerConfig{
		Root:                  target,
		DefaultIgnorer:        discovery.NewDefaultIgnoreMatcher(),
		GitignoreMatcher:      gitignoreMatcher,
		HeadsonignoreMatcher:  headsonignoreMatcher,
		PatternFilter:         discovery.NewPatternFilter(discovery.PatternFilterOptions{Excludes: profile.Ignore}),
		GitTrackedOnly:        profile.GitTrackedOnly,
		SkipLargeFiles:        profile.SkipLargeFiles,
	})
	if err != nil {
		return nil, false, err
	}
	return result.Inputs, true, nil
}

func kindForPath(path string) ingest.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ingest.KindJSON
	case ".yaml", ".yml":
		return ingest.KindYAML
	default:
		return ingest.KindText
	}
}

// buildRenderConfig translates the resolved profile's Format/Style/Compact/
// Color fields into a render.Config. An explicit Format wins over Style;
// Style alone selects a structured template via render.TemplateForStyle.
func buildRenderConfig(profile *config.Profile) render.Config {
	cfg := render.Config{
		Template:     templateFor(profile),
		Compact:      profile.Compact,
		ColorEnabled: color.ResolveEnabled(colorModeFor(profile.Color), os.Stdout),
	}
	if grepCfg, err := buildGrepConfig(profile); err == nil && grepCfg.Regex != nil {
		cfg.GrepHighlight = grepCfg.Regex
	}
	cfg.ShowFilesetHeaders = true
	return cfg.WithDefaults()
}

func templateFor(profile *config.Profile) render.Template {
	switch strings.ToLower(profile.Format) {
	case "json":
		return render.Json
	case "yaml":
		return render.Yaml
	case "text":
		return render.Text
	case "code":
		return render.Code
	case "pseudo":
		return render.Pseudo
	}
	return render.TemplateForStyle(styleFor(profile.Style))
}

func styleFor(style string) render.Style {
	switch strings.ToLower(style) {
	case "strict":
		return render.StyleStrict
	case "detailed":
		return render.StyleDetailed
	default:
		return render.StyleDefault
	}
}

func colorModeFor(c string) color.Mode {
	switch strings.ToLower(c) {
	case "off":
		return color.Off
	case "on":
		return color.On
	default:
		return color.Auto
	}
}

// buildPriorityConfig translates profile fields that affect node ranking
// and array sampling (spec.md's `--no-sort` disables both the --priority
// fileset reorder, handled separately, and the array-sampler bias).
func buildPriorityConfig(profile *config.Profile) order.PriorityConfig {
	cfg := order.PriorityConfig{}
	if profile.NoSort {
		cfg.ArraySampler = order.SamplerDefault
	}
	return cfg
}

// checkBudgetConflict rejects more than one per-slot budget flag, or more
// than one global budget flag, supplied together (headsonerr.KindBudgetConflict).
func checkBudgetConflict(cmd *cobra.Command) error {
	changed := cmd.Flags().Changed
	perSlot := []string{"bytes", "chars", "lines"}
	if n := countChanged(changed, perSlot); n > 1 {
		return headsonerr.BudgetConflict("only one of --bytes, --chars, --lines may be set")
	}
	global := []string{"global-bytes", "global-chars", "global-lines"}
	if n := countChanged(changed, global); n > 1 {
		return headsonerr.BudgetConflict("only one of --global-bytes, --global-chars, --global-lines may be set")
	}
	return nil
}

func countChanged(changed func(string) bool, names []string) int {
	n := 0
	for _, name := range names {
		if changed(name) {
			n++
		}
	}
	return n
}

// checkGrepFlagConflict rejects --grep-weak supplied without --grep
// (headsonerr.KindGrepConflict).
func checkGrepFlagConflict(cmd *cobra.Command) error {
	if cmd.Flags().Changed("grep-weak") && !cmd.Flags().Changed("grep") {
		return headsonerr.GrepConflict("--grep-weak requires --grep")
	}
	return nil
}

// buildGrepConfig compiles the profile's --grep regex, if any.
func buildGrepConfig(profile *config.Profile) (grep.Config, error) {
	if profile.Grep == "" {
		return grep.Config{}, nil
	}
	re, err := regexp.Compile(profile.Grep)
	if err != nil {
		return grep.Config{}, err
	}
	return grep.Config{Regex: re, Weak: profile.GrepWeak}, nil
}

// buildBudgets maps the resolved profile's per-input or merged-fileset
// budget fields onto selector.Budgets, depending on whether the run is a
// single input or a fileset: a fileset uses the Global* dimensions (spec.md
// §6 "per-slot vs global budgets"), a single input uses the per-slot ones.
func buildBudgets(profile *config.Profile, isFileset bool) selector.Budgets {
	bytes, chars, lines := profile.Bytes, profile.Chars, profile.Lines
	if isFileset {
		bytes, chars, lines = profile.GlobalBytes, profile.GlobalChars, profile.GlobalLines
	}
	var b selector.Budgets
	if bytes > 0 {
		b.ByteCap = &bytes
	}
	if chars > 0 {
		b.CharCap = &chars
	}
	if lines > 0 {
		b.LineCap = &lines
	}
	return b
}

// writeOutput writes output to profile.Output, unless --stdout was passed or
// no output path is configured, in which case it writes to cmd's stdout.
func writeOutput(cmd *cobra.Command, profile *config.Profile, output string) error {
	if flagValues.Stdout || profile.Output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), output)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(profile.Output), 0o755); err != nil && filepath.Dir(profile.Output) != "." {
		return err
	}
	return os.WriteFile(profile.Output, []byte(output), 0o644)
}
