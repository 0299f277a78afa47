// Package render implements the Renderer (component F): it walks an
// arena.Arena in source order, emitting only included nodes, collapsing
// consecutive omissions into a single marker, and dispatching per-node
// rendering through a small per-Template table rather than a class
// hierarchy (spec.md §9 "Polymorphism over node kinds").
package render

import (
	"regexp"

	"github.com/headson/headson/internal/arena"
)

// Template selects the output shape (spec.md §4.F).
type Template uint8

const (
	// Json is strict RFC 8259 JSON: no mid-structure ellipses.
	Json Template = iota
	// Pseudo is JSON-like with ellipsis/omission markers (the default).
	Pseudo
	// Js is Pseudo extended with "N more items"/"N more lines" counts.
	Js
	// Yaml is YAML block style with commented omission markers.
	Yaml
	// Text renders each String leaf as-is, one per line.
	Text
	// Code is Text with 1-based line-number gutters.
	Code
	// FilesetTree is a directory/branch layout for fileset inputs.
	FilesetTree
)

// Style selects strictness for structured templates; it is a thin wrapper
// so the CLI's --style flag has somewhere to land distinct from --format.
type Style uint8

const (
	StyleDefault Style = iota
	StyleStrict
	StyleDetailed
)

// TemplateForStyle resolves a structured-input style into the Template that
// implements it (spec.md §6: "--style {strict,default,detailed}").
func TemplateForStyle(s Style) Template {
	switch s {
	case StyleStrict:
		return Json
	case StyleDetailed:
		return Js
	default:
		return Pseudo
	}
}

// Config carries every rendering knob named in spec.md §6's render_config.
type Config struct {
	Template Template
	Indent   string
	Space    string
	Newline  string

	PreferTailArrays bool

	// Compact disables newlines (spec.md §6 "--compact"). A compact Yaml
	// render falls back to Pseudo (spec.md §4.F: "Compact rendering (no
	// newlines) falls back to JSON-like").
	Compact bool

	// MaxStringGraphemes and StringFreePrefixGraphemes must match the
	// order.PriorityConfig values used to build the PriorityOrder being
	// rendered (spec.md §9 "String splittability": "drift produces
	// oscillation in the binary search").
	MaxStringGraphemes        int
	StringFreePrefixGraphemes int

	ColorEnabled bool
	// GrepHighlight, when set, wraps matching substrings inside rendered
	// values/keys (never structural punctuation) — normally auto-wired
	// from grep_config by the caller.
	GrepHighlight *regexp.Regexp

	PrimarySourceName string

	ShowFilesetHeaders           bool
	CountFilesetHeadersInBudgets bool

	Debug bool

	// FileTemplates overrides Template per fileset child root id, resolved
	// by the caller from each input's FilesetInputKind (spec.md §4.F: "each
	// file's body uses a per-file template auto-selected from its
	// FilesetInputKind"). Nil or missing entries fall back to Template.
	FileTemplates map[arena.NodeID]Template
}

// WithDefaults fills in the template-controlled strings spec.md §4.F
// requires not be hard-coded, when the caller left them zero-valued. Space
// has no default: left empty, no space follows an object key's colon.
func (c Config) WithDefaults() Config {
	if c.Indent == "" {
		c.Indent = "  "
	}
	if c.Newline == "" {
		c.Newline = "\n"
	}
	if c.MaxStringGraphemes <= 0 {
		c.MaxStringGraphemes = 500
	}
	return c
}

// effectiveStringLimit is the grapheme count a splittable string's prefix is
// truncated to: MaxStringGraphemes, or StringFreePrefixGraphemes when that
// is larger.
func (c Config) effectiveStringLimit() int {
	limit := c.MaxStringGraphemes
	if c.StringFreePrefixGraphemes > limit {
		limit = c.StringFreePrefixGraphemes
	}
	return limit
}

func (c Config) templateFor(fileRoot arena.NodeID) Template {
	if c.FileTemplates != nil {
		if t, ok := c.FileTemplates[fileRoot]; ok {
			return t
		}
	}
	return c.Template
}
