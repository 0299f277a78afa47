package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShowOptions controls the rendering of a resolved profile.
type ShowOptions struct {
	// Profile is the fully merged profile to display.
	Profile *Profile

	// Sources maps flat field names to their origin layer.
	Sources SourceMap

	// ProfileName is the name of the profile being displayed.
	ProfileName string

	// Chain is the inheritance chain in resolution order, e.g. ["ci", "default"].
	Chain []string
}

// ShowProfile renders a resolved profile as annotated TOML. Each field is
// printed with an inline comment indicating which configuration layer
// provided its value. The output is human-readable and approximately valid
// TOML (inline comments are not part of the TOML spec but are widely
// supported by editors and tooling).
//
// The Chain parameter should come from ProfileResolution.Chain.
func ShowProfile(opts ShowOptions) string {
	var b strings.Builder

	// Header comments.
	fmt.Fprintf(&b, "# Resolved profile: %s\n", opts.ProfileName)
	if len(opts.Chain) > 1 {
		fmt.Fprintf(&b, "# Inheritance chain: %s\n", strings.Join(opts.Chain, " -> "))
	}
	fmt.Fprintf(&b, "\n")

	p := opts.Profile
	src := opts.Sources

	// Scalar fields.
	writeStringField(&b, "output", p.Output, sourceLabel(src, "output"))
	writeStringField(&b, "format", p.Format, sourceLabel(src, "format"))
	writeStringField(&b, "style", p.Style, sourceLabel(src, "style"))
	writeBoolField(&b, "compact", p.Compact, sourceLabel(src, "compact"))
	writeStringField(&b, "color", p.Color, sourceLabel(src, "color"))
	writeStringField(&b, "encoding", p.Encoding, sourceLabel(src, "encoding"))
	if p.Grep != "" {
		writeStringField(&b, "grep", p.Grep, sourceLabel(src, "grep"))
		writeBoolField(&b, "grep_weak", p.GrepWeak, sourceLabel(src, "grep_weak"))
	}

	writeIntField(&b, "bytes", p.Bytes, sourceLabel(src, "bytes"))
	writeIntField(&b, "chars", p.Chars, sourceLabel(src, "chars"))
	writeIntField(&b, "lines", p.Lines, sourceLabel(src, "lines"))
	writeIntField(&b, "global_bytes", p.GlobalBytes, sourceLabel(src, "global_bytes"))
	writeIntField(&b, "global_chars", p.GlobalChars, sourceLabel(src, "global_chars"))
	writeIntField(&b, "global_lines", p.GlobalLines, sourceLabel(src, "global_lines"))

	writeBoolField(&b, "git_tracked_only", p.GitTrackedOnly, sourceLabel(src, "git_tracked_only"))
	writeIntField(&b, "skip_large_files", int(p.SkipLargeFiles), sourceLabel(src, "skip_large_files"))
	writeBoolField(&b, "no_sort", p.NoSort, sourceLabel(src, "no_sort"))

	// Slice fields.
	writeStringSliceField(&b, "ignore", p.Ignore, sourceLabel(src, "ignore"))

	// Priority section.
	if len(p.Priority) > 0 {
		b.WriteString("\n")
		writePrioritySection(&b, p.Priority, sourceLabel(src, "priority"))
	}

	return b.String()
}

// ShowProfileJSON serializes the resolved profile to indented JSON. It returns
// the JSON bytes as a string. An error is returned only if marshalling fails,
// which should not happen for well-formed Profile values.
func ShowProfileJSON(p *Profile) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile to JSON: %w", err)
	}
	return string(data), nil
}

// sourceLabel returns the Source.String() for a given flat key, defaulting to
// "default" when the key is absent from the SourceMap.
func sourceLabel(src SourceMap, key string) string {
	if s, ok := src[key]; ok {
		return s.String()
	}
	return "default"
}

// writeStringField writes a TOML string assignment with an inline source comment.
func writeStringField(b *strings.Builder, key, value, source string) {
	// TOML string: escape backslashes and double-quotes.
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	fmt.Fprintf(b, "%-20s = %-30s # %s\n", key, `"`+escaped+`"`, source)
}

// writeIntField writes a TOML integer assignment with an inline source comment.
func writeIntField(b *strings.Builder, key string, value int, source string) {
	fmt.Fprintf(b, "%-20s = %-30d # %s\n", key, value, source)
}

// writeBoolField writes a TOML boolean assignment with an inline source comment.
func writeBoolField(b *strings.Builder, key string, value bool, source string) {
	boolStr := "false"
	if value {
		boolStr = "true"
	}
	fmt.Fprintf(b, "%-20s = %-30s # %s\n", key, boolStr, source)
}

// writeStringSliceField writes a multi-line TOML array with an inline source
// comment on the opening bracket line.
func writeStringSliceField(b *strings.Builder, key string, values []string, source string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%-20s = []%-27s # %s\n", key, "", source)
		return
	}

	fmt.Fprintf(b, "%-20s = [%-29s # %s\n", key, "", source)
	for _, v := range values {
		// %q produces a Go double-quoted string, which is valid TOML.
		fmt.Fprintf(b, "  %q,\n", v)
	}
	b.WriteString("]\n")
}

// writePrioritySection writes the priority field as a TOML array of arrays,
// one group per line, with a single source annotation (the whole list
// replaces as a unit, per mergePriority's semantics).
func writePrioritySection(b *strings.Builder, groups [][]string, source string) {
	fmt.Fprintf(b, "priority = [ # %s\n", source)
	for _, group := range groups {
		var items strings.Builder
		items.WriteString("[")
		for i, v := range group {
			if i > 0 {
				items.WriteString(", ")
			}
			fmt.Fprintf(&items, "%q", v)
		}
		items.WriteString("]")
		fmt.Fprintf(b, "  %s,\n", items.String())
	}
	b.WriteString("]\n")
}
