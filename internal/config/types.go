package config

// Config is the top-level configuration type parsed from a .headson.toml
// file. It holds a map of named profiles keyed by profile name. Profile
// names are case-sensitive. The special name "default" is the built-in
// fallback profile.
type Config struct {
	// Profile maps profile names to their configuration. Access via
	// cfg.Profile["default"] or cfg.Profile["ci"].
	Profile map[string]*Profile `toml:"profile"`
}

// Profile defines all settings for a single named profile. Fields with zero
// values are considered unset and will be filled in by the merge/inheritance
// pipeline (profile.go, merge.go). The Extends field enables profile
// inheritance.
type Profile struct {
	// Extends is the name of a parent profile to inherit from. When set,
	// all unset fields in this profile are filled from the named parent.
	// A nil pointer means no inheritance.
	Extends *string `toml:"extends"`

	// Output is the file path the summary is written to. Empty means
	// stdout.
	Output string `toml:"output"`

	// Format selects the render template: "json", "yaml", "text", "pseudo",
	// or "code". Empty defers to Style's default template.
	Format string `toml:"format"`

	// Style selects a bundle of rendering defaults: "strict", "default", or
	// "detailed" (spec.md §4.E).
	Style string `toml:"style"`

	// Compact disables pretty-printing indentation in structured formats.
	Compact bool `toml:"compact"`

	// Color controls ANSI highlighting of grep matches: "off", "on", or
	// "auto" (internal/color.Mode).
	Color string `toml:"color"`

	// Encoding names the BPE tokenizer used for --token-report diagnostics:
	// "cl100k_base", "o200k_base", or "none".
	Encoding string `toml:"encoding"`

	// Bytes, Chars, Lines cap each fileset member's (or the single input's)
	// rendered size. Zero means unconstrained.
	Bytes int `toml:"bytes"`
	Chars int `toml:"chars"`
	Lines int `toml:"lines"`

	// GlobalBytes, GlobalChars, GlobalLines cap the merged fileset's total
	// rendered size, independent of the per-member caps above. Zero means
	// unconstrained.
	GlobalBytes int `toml:"global_bytes"`
	GlobalChars int `toml:"global_chars"`
	GlobalLines int `toml:"global_lines"`

	// Grep is a regex; matching nodes and their ancestors are guaranteed to
	// survive budget selection (spec.md §4.D).
	Grep string `toml:"grep"`

	// GrepWeak relaxes Grep from a hard guarantee to a soft bias: matches are
	// preferred but may still be dropped under a tight budget.
	GrepWeak bool `toml:"grep_weak"`

	// Ignore is the list of glob patterns for files and directories to skip
	// during discovery, in addition to the built-in defaults and any
	// .gitignore. Patterns are evaluated with doublestar.
	Ignore []string `toml:"ignore"`

	// GitTrackedOnly restricts discovery to files tracked by git.
	GitTrackedOnly bool `toml:"git_tracked_only"`

	// SkipLargeFiles omits files larger than this many bytes from discovery.
	// Zero means no size cap.
	SkipLargeFiles int64 `toml:"skip_large_files"`

	// NoSort disables --priority reordering and forces array sampling to a
	// stable head-first order, ignoring any configured bias.
	NoSort bool `toml:"no_sort"`

	// Priority is an ordered list of glob-pattern groups (internal/priority).
	// A fileset input is assigned to the first group whose pattern matches
	// its name; unmatched inputs sort after every group. Replaces the
	// teacher's fixed six-tier Relevance scheme with an arbitrary-length one.
	Priority [][]string `toml:"priority"`
}
