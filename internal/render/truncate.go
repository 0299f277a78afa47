package render

import "github.com/rivo/uniseg"

// truncateGraphemes returns the first n grapheme clusters of s, or s itself
// when it has n or fewer. Grapheme-aware truncation (rather than byte or
// rune slicing) avoids splitting a multi-rune user-perceived character
// (spec.md GLOSSARY "Grapheme").
func truncateGraphemes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	gr := uniseg.NewGraphemes(s)
	count := 0
	end := 0
	for gr.Next() {
		count++
		if count > n {
			return s[:end]
		}
		_, to := gr.Positions()
		end = to
	}
	return s
}
