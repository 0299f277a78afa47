package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// DefaultSkipLargeFiles is the default file size threshold (1MB) above which
// files are skipped during discovery.
const DefaultSkipLargeFiles int64 = 1 * 1024 * 1024

// FlagValues collects all parsed global flag values from the CLI. This struct
// is populated by BindFlags and fed into the profile resolution pipeline as
// the highest-precedence layer.
type FlagValues struct {
	Output         string
	Stdout         bool
	Format         string
	Style          string
	Compact        bool
	Color          string
	Encoding       string
	Bytes          int
	Chars          int
	Lines          int
	GlobalBytes    int
	GlobalChars    int
	GlobalLines    int
	Grep           string
	GrepWeak       bool
	Ignore         []string
	GitTrackedOnly bool
	SkipLargeFiles int64 // bytes
	NoSort         bool
	Priority       []string // repeatable; each value is a comma-separated glob group
	Debug          bool
	Profile        string
	ProfileFile    string
	Verbose        bool
	Quiet          bool
}

// BindFlags registers all global persistent flags on the given Cobra command
// and returns a FlagValues pointer that will be populated when the command is
// executed. Callers should access the returned struct after flag parsing.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.Output, "output", "o", "", "output file path (default: stdout)")
	pf.BoolVar(&fv.Stdout, "stdout", false, "force output to stdout even when --output is set")
	pf.StringVar(&fv.Format, "format", "", "render template: json, yaml, text, pseudo, code")
	pf.StringVar(&fv.Style, "style", "", "render style: strict, default, detailed")
	pf.BoolVar(&fv.Compact, "compact", false, "disable pretty-printing indentation")
	pf.StringVar(&fv.Color, "color", "", "highlight grep matches: off, on, auto")
	pf.StringVar(&fv.Encoding, "encoding", "", "tokenizer for --token-report: cl100k_base, o200k_base, none")
	pf.IntVar(&fv.Bytes, "bytes", 0, "per-input byte budget (0 = unconstrained)")
	pf.IntVar(&fv.Chars, "chars", 0, "per-input character budget (0 = unconstrained)")
	pf.IntVar(&fv.Lines, "lines", 0, "per-input line budget (0 = unconstrained)")
	pf.IntVar(&fv.GlobalBytes, "global-bytes", 0, "merged-fileset byte budget (0 = unconstrained)")
	pf.IntVar(&fv.GlobalChars, "global-chars", 0, "merged-fileset character budget (0 = unconstrained)")
	pf.IntVar(&fv.GlobalLines, "global-lines", 0, "merged-fileset line budget (0 = unconstrained)")
	pf.StringVar(&fv.Grep, "grep", "", "regex whose matches are guaranteed to survive budget selection")
	pf.BoolVar(&fv.GrepWeak, "grep-weak", false, "relax --grep from a hard guarantee to a soft bias")
	pf.StringArrayVar(&fv.Ignore, "ignore", nil, "discovery ignore glob pattern (repeatable)")
	pf.BoolVar(&fv.GitTrackedOnly, "git-tracked-only", false, "only include files tracked by git")
	pf.StringVar(&skipLargeFilesRaw, "skip-large-files", "1MB", "skip files larger than threshold (e.g. 500KB, 2MB)")
	pf.BoolVar(&fv.NoSort, "no-sort", false, "disable --priority reordering and array-sampler bias")
	pf.StringArrayVar(&fv.Priority, "priority", nil, "comma-separated glob group, in priority order (repeatable)")
	pf.BoolVar(&fv.Debug, "debug", false, "emit a JSON debug trace to stderr")
	pf.StringVar(&fv.Profile, "profile", "", "named profile to activate")
	pf.StringVar(&fv.ProfileFile, "profile-file", "", "standalone profile TOML file (bypasses repo config discovery)")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")

	return fv
}

// skipLargeFilesRaw holds the raw string value for --skip-large-files before
// parsing. This is a package-level variable because Cobra needs a string target
// for binding, and we parse it into FlagValues.SkipLargeFiles during validation.
var skipLargeFilesRaw string

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion. It also applies environment variable fallbacks and normalizes
// values. Call this from PersistentPreRunE after Cobra has parsed the flags.
//
// Unset string/int fields (empty string, 0) are left as the zero value here;
// they are not validated against validFormats/validStyles/etc. because those
// maps already accept "" to mean "inherit from a lower-precedence layer" --
// full validation of the merged profile happens later via Validate.
func ValidateFlags(fv *FlagValues, cmd *cobra.Command) error {
	applyEnvOverrides(fv, cmd)

	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	if fv.Format != "" && !validFormats[fv.Format] {
		return fmt.Errorf("--format: invalid value %q (allowed: json, yaml, text, pseudo, code)", fv.Format)
	}
	if fv.Style != "" && !validStyles[fv.Style] {
		return fmt.Errorf("--style: invalid value %q (allowed: strict, default, detailed)", fv.Style)
	}
	if fv.Color != "" && !validColors[fv.Color] {
		return fmt.Errorf("--color: invalid value %q (allowed: off, on, auto)", fv.Color)
	}
	if fv.Encoding != "" && !validEncodings[fv.Encoding] {
		return fmt.Errorf("--encoding: invalid value %q (allowed: cl100k_base, o200k_base, none)", fv.Encoding)
	}

	size, err := ParseSize(skipLargeFilesRaw)
	if err != nil {
		return fmt.Errorf("--skip-large-files: %w", err)
	}
	fv.SkipLargeFiles = size

	return nil
}

// ParsePriorityGroups splits each --priority flag value (a comma-separated
// glob list) into a [][]string group list, preserving flag order.
func ParsePriorityGroups(raw []string) [][]string {
	if len(raw) == 0 {
		return nil
	}
	groups := make([][]string, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(entry, ",")
		group := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				group = append(group, p)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// applyEnvOverrides applies HEADSON_* environment variable fallbacks for flags
// that were not explicitly set on the command line.
func applyEnvOverrides(fv *FlagValues, cmd *cobra.Command) {
	strEnv := map[string]func(string){
		EnvOutput:   func(v string) { fv.Output = v },
		EnvFormat:   func(v string) { fv.Format = v },
		EnvStyle:    func(v string) { fv.Style = v },
		EnvColor:    func(v string) { fv.Color = v },
		EnvEncoding: func(v string) { fv.Encoding = v },
		EnvGrep:     func(v string) { fv.Grep = v },
	}
	for env, setter := range strEnv {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		flagName := strings.ToLower(strings.TrimPrefix(env, "HEADSON_"))
		if !cmd.Flags().Changed(flagName) {
			setter(v)
		}
	}

	intEnv := map[string]func(int){
		EnvBytes:       func(n int) { fv.Bytes = n },
		EnvChars:       func(n int) { fv.Chars = n },
		EnvLines:       func(n int) { fv.Lines = n },
		EnvGlobalBytes: func(n int) { fv.GlobalBytes = n },
		EnvGlobalChars: func(n int) { fv.GlobalChars = n },
		EnvGlobalLines: func(n int) { fv.GlobalLines = n },
	}
	for env, setter := range intEnv {
		n, ok := envInt(env)
		if !ok {
			continue
		}
		flagName := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(env, "HEADSON_")), "_", "-")
		if !cmd.Flags().Changed(flagName) {
			setter(n)
		}
	}

	if v := os.Getenv(EnvProfile); v != "" && !cmd.Flags().Changed("profile") {
		fv.Profile = v
	}
}

// ParseSize parses a human-readable size string into bytes. It supports KB, MB,
// and GB suffixes (case-insensitive). Plain numbers without a suffix are treated
// as bytes. KB = 1024, MB = 1048576, GB = 1073741824.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	upper := strings.ToUpper(s)

	var suffix string
	var multiplier int64

	switch {
	case strings.HasSuffix(upper, "GB"):
		suffix = "GB"
		multiplier = 1024 * 1024 * 1024
	case strings.HasSuffix(upper, "MB"):
		suffix = "MB"
		multiplier = 1024 * 1024
	case strings.HasSuffix(upper, "KB"):
		suffix = "KB"
		multiplier = 1024
	default:
		// Plain number, treat as bytes
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		if n < 0 {
			return 0, fmt.Errorf("size must be non-negative: %q", s)
		}
		return n, nil
	}

	numStr := strings.TrimSpace(s[:len(s)-len(suffix)])
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		// Try float for things like "1.5MB"
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		if f < 0 {
			return 0, fmt.Errorf("size must be non-negative: %q", s)
		}
		return int64(f * float64(multiplier)), nil
	}
	if n < 0 {
		return 0, fmt.Errorf("size must be non-negative: %q", s)
	}
	return n * multiplier, nil
}
