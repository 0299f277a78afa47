package render

import (
	"fmt"
	"strings"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/color"
)

// textLineGraphemeCap bounds a single physical line's rendered width,
// independent of any byte/char/line budget: a single absurdly long line
// (e.g. a minified bundle) must not dominate the whole preview.
const textLineGraphemeCap = 150

// renderTextBody implements the Text and Code templates (spec.md §4.F):
// every included line leaf is emitted one per output line, in source order,
// with consecutive omitted lines collapsed into a single marker line. Code
// additionally prefixes each line with a 1-based gutter.
func (r *renderer) renderTextBody(id arena.NodeID, gutter bool) string {
	var b strings.Builder
	n := r.po.Nodes[id]
	if n.Kind != arena.Array {
		r.writeTextLine(&b, id, 1, gutter)
		return b.String()
	}

	children := r.po.Arena.ChildrenOf(id)
	entries, omittedRuns := r.visibleEntries(children)
	runIdx := 0
	for _, pos := range entries {
		if runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			r.writeTextOmission(&b, gutter)
			runIdx++
		}
		r.writeTextLine(&b, children[pos], pos+1, gutter)
	}
	if runIdx < len(omittedRuns) {
		r.writeTextOmission(&b, gutter)
	}
	return b.String()
}

func (r *renderer) writeTextLine(b *strings.Builder, id arena.NodeID, lineNo int, gutter bool) {
	n := r.po.Nodes[id]
	text := n.Value
	if text == "" {
		text = n.Token
	}
	truncated := truncateGraphemes(text, textLineGraphemeCap)
	suffix := ""
	if truncated != text {
		suffix = "…"
	}
	if gutter {
		r.writeColored(b, color.Pipe, fmt.Sprintf("%4d: ", lineNo))
	}
	b.WriteString(r.highlightText(truncated, color.String))
	if suffix != "" {
		r.writeColored(b, color.Punct, suffix)
	}
	b.WriteString("\n")
}

func (r *renderer) writeTextOmission(b *strings.Builder, gutter bool) {
	if gutter {
		r.writeColored(b, color.Pipe, "    : ")
	}
	r.writeColored(b, color.Punct, "…")
	b.WriteString("\n")
}
