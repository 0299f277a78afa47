// Package color implements Color & Highlight (component H): a small utility
// that wraps rendered text with SGR escape sequences according to a fixed
// role table, and resolves whether color is enabled at all. It mirrors the
// teacher's habit of keeping styling logic in one narrow package that the
// renderer calls into rather than scattering ANSI codes through template
// code; roles map onto charmbracelet/lipgloss styles (SPEC_FULL.md DOMAIN
// STACK) so the same palette can also back the `preview` TUI.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Role is a syntax or structural role a rendered span plays.
type Role uint8

const (
	Key Role = iota
	String
	Number
	Bool
	Null
	Punct
	Pipe
	Match
)

var styles = map[Role]lipgloss.Style{
	Key:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	String: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Number: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	Bool:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	Null:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Punct:  lipgloss.NewStyle(),
	Pipe:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Match:  lipgloss.NewStyle().Reverse(true).Foreground(lipgloss.Color("1")),
}

// Apply returns text wrapped in role's style when enabled is true, or the
// bare text otherwise. Structural punctuation callers should only ever pass
// Punct, never wrap it in Match (spec.md §4.F: "Structural punctuation is
// never highlighted even if the pattern would match it").
func Apply(role Role, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return styles[role].Render(text)
}

// Mode is the user-facing color mode, consumed from config/CLI.
type Mode uint8

const (
	// Off never colors output.
	Off Mode = iota
	// On always colors output.
	On
	// Auto defers to ResolveEnabled's terminal/env detection.
	Auto
)

// ResolveEnabled implements the original's resolve_color_enabled: it folds
// Mode, the FORCE_COLOR environment variable, and isatty detection on the
// given file descriptor into a single boolean. FORCE_COLOR, whenever it is
// present in the environment, wins regardless of Mode: "0" or an empty value
// disables color, any other value enables it.
func ResolveEnabled(mode Mode, out *os.File) bool {
	if fc, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return fc != "0" && fc != ""
	}
	switch mode {
	case Off:
		return false
	case On:
		return true
	default: // Auto
		return out != nil && isatty.IsTerminal(out.Fd())
	}
}
