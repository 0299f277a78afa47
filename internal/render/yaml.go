package render

import (
	"strings"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/color"
	"github.com/headson/headson/internal/order"
)

// YAML block style (spec.md §4.F "Yaml"): mapping entries are "key: value"
// lines, sequence entries are "- value" lines, nested containers indent one
// level per depth, and omitted runs become a commented marker line rather
// than an inline token (there is no inline YAML flow position to put one).

func (r *renderer) writeYamlMapping(b *strings.Builder, keys []string, children []arena.NodeID, entries []int, omittedRuns []omittedRun, depth int) {
	if len(entries) == 0 && len(omittedRuns) == 0 {
		b.WriteString("{}\n")
		return
	}
	runIdx := 0
	for _, pos := range entries {
		for runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			r.writeYamlOmission(b, depth, omittedRuns[runIdx])
			runIdx++
		}
		r.writeIndent(b, depth)
		key := r.highlightText(keys[pos], color.Key)
		r.writeColored(b, color.Key, key)
		r.writeColored(b, color.Punct, ":")
		r.writeYamlValue(b, children[pos], depth)
	}
	for runIdx < len(omittedRuns) {
		r.writeYamlOmission(b, depth, omittedRuns[runIdx])
		runIdx++
	}
}

func (r *renderer) writeYamlSequence(b *strings.Builder, children []arena.NodeID, entries []int, omittedRuns []omittedRun, depth int) {
	if len(entries) == 0 && len(omittedRuns) == 0 {
		b.WriteString("[]\n")
		return
	}
	runIdx := 0
	for _, pos := range entries {
		for runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			r.writeYamlOmission(b, depth, omittedRuns[runIdx])
			runIdx++
		}
		r.writeIndent(b, depth)
		r.writeColored(b, color.Punct, "- ")
		r.writeYamlSequenceItem(b, children[pos], depth)
	}
	for runIdx < len(omittedRuns) {
		r.writeYamlOmission(b, depth, omittedRuns[runIdx])
		runIdx++
	}
}

// writeYamlValue writes the ": value" (or nested block) portion following a
// mapping key, including its own trailing newline.
func (r *renderer) writeYamlValue(b *strings.Builder, id arena.NodeID, depth int) {
	n := r.po.Nodes[id]
	switch n.Kind {
	case arena.Object:
		children := r.po.Arena.ChildrenOf(id)
		keys := r.po.Arena.KeysOf(id)
		entries, omittedRuns := r.visibleEntries(children)
		if len(entries) == 0 && len(omittedRuns) == 0 {
			b.WriteString(" {}\n")
			return
		}
		b.WriteString("\n")
		r.writeYamlMapping(b, keys, children, entries, omittedRuns, depth+1)
	case arena.Array:
		children := r.po.Arena.ChildrenOf(id)
		entries, omittedRuns := r.visibleEntries(children)
		if len(entries) == 0 && len(omittedRuns) == 0 {
			b.WriteString(" []\n")
			return
		}
		b.WriteString("\n")
		r.writeYamlSequence(b, children, entries, omittedRuns, depth+1)
	case arena.String:
		b.WriteString(" ")
		r.writeStringValue(b, n.Value, n.Class == order.SplittableLeaf)
		b.WriteString("\n")
	default: // Number, Bool, Null, CodeLine
		b.WriteString(" ")
		r.writeColored(b, roleFor(n.Kind), n.Token)
		b.WriteString("\n")
	}
}

// writeYamlSequenceItem writes the value following a "- " sequence marker;
// unlike writeYamlValue it never emits a leading space, since the marker
// already separates it from the dash.
func (r *renderer) writeYamlSequenceItem(b *strings.Builder, id arena.NodeID, depth int) {
	n := r.po.Nodes[id]
	switch n.Kind {
	case arena.Object:
		children := r.po.Arena.ChildrenOf(id)
		keys := r.po.Arena.KeysOf(id)
		entries, omittedRuns := r.visibleEntries(children)
		if len(entries) == 0 && len(omittedRuns) == 0 {
			b.WriteString("{}\n")
			return
		}
		b.WriteString("\n")
		r.writeYamlMapping(b, keys, children, entries, omittedRuns, depth+1)
	case arena.Array:
		children := r.po.Arena.ChildrenOf(id)
		entries, omittedRuns := r.visibleEntries(children)
		if len(entries) == 0 && len(omittedRuns) == 0 {
			b.WriteString("[]\n")
			return
		}
		b.WriteString("\n")
		r.writeYamlSequence(b, children, entries, omittedRuns, depth+1)
	case arena.String:
		r.writeStringValue(b, n.Value, n.Class == order.SplittableLeaf)
		b.WriteString("\n")
	default:
		r.writeColored(b, roleFor(n.Kind), n.Token)
		b.WriteString("\n")
	}
}

func (r *renderer) writeYamlOmission(b *strings.Builder, depth int, run omittedRun) {
	r.writeIndent(b, depth)
	r.writeColored(b, color.Punct, "# …")
	b.WriteString("\n")
}

func (r *renderer) writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(r.cfg.Indent)
	}
}
