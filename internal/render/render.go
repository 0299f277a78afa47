package render

import (
	"strconv"
	"strings"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/color"
	"github.com/headson/headson/internal/order"
)

// Included reports whether a node belongs to the current render set. The
// selector owns the underlying generation-counter buffer (spec.md §5
// "Shared resource policy"); the renderer only ever reads through this
// closure.
type Included func(id arena.NodeID) bool

// Render walks po's arena in source order and returns the text for every
// included node under cfg. It never mutates po.
func Render(po *order.PriorityOrder, included Included, cfg Config) string {
	cfg = cfg.WithDefaults()
	if po.TotalNodes == 0 {
		return ""
	}
	if !included(po.Arena.Root) {
		return "\n"
	}

	r := &renderer{po: po, included: included, cfg: cfg}

	if po.IsFileset() && cfg.Template != FilesetTree {
		return r.renderFilesetSections()
	}
	if cfg.Template == FilesetTree {
		return r.renderFilesetTree()
	}
	return r.renderTopLevel(po.Arena.Root, cfg.Template)
}

type renderer struct {
	po       *order.PriorityOrder
	included Included
	cfg      Config
}

func (r *renderer) renderTopLevel(id arena.NodeID, tmpl Template) string {
	switch tmpl {
	case Text:
		return r.renderTextBody(id, false)
	case Code:
		return r.renderTextBody(id, true)
	default:
		return r.renderStructured(id, tmpl)
	}
}

// --- structured (Json/Pseudo/Js/Yaml) -------------------------------------

func (r *renderer) renderStructured(id arena.NodeID, tmpl Template) string {
	if tmpl == Yaml && r.cfg.Compact {
		tmpl = Pseudo
	}
	var b strings.Builder
	r.writeStructured(&b, id, tmpl, 0)
	return b.String()
}

func (r *renderer) writeStructured(b *strings.Builder, id arena.NodeID, tmpl Template, depth int) {
	n := r.po.Nodes[id]
	switch n.Kind {
	case arena.Object:
		r.writeObject(b, id, tmpl, depth)
	case arena.Array:
		r.writeArray(b, id, tmpl, depth)
	case arena.String:
		r.writeStringValue(b, n.Value, n.Class == order.SplittableLeaf)
	default: // Number, Bool, Null, CodeLine
		r.writeColored(b, roleFor(n.Kind), n.Token)
	}
}

func roleFor(k arena.Kind) color.Role {
	switch k {
	case arena.Bool:
		return color.Bool
	case arena.Null:
		return color.Null
	default:
		return color.Number
	}
}

func (r *renderer) writeObject(b *strings.Builder, id arena.NodeID, tmpl Template, depth int) {
	children := r.po.Arena.ChildrenOf(id)
	keys := r.po.Arena.KeysOf(id)
	entries, omittedRuns := r.visibleEntries(children)

	if tmpl == Yaml {
		r.writeYamlMapping(b, keys, children, entries, omittedRuns, depth)
		return
	}

	r.writeColored(b, color.Punct, "{")
	if len(entries) == 0 && len(omittedRuns) == 0 {
		r.writeColored(b, color.Punct, "}")
		return
	}
	if len(entries) == 0 {
		r.writeOmission(b, tmpl, omittedRuns[0])
		r.writeColored(b, color.Punct, "}")
		return
	}
	wrote := false
	runIdx := 0
	for i, pos := range entries {
		if runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			if wrote {
				r.writeColored(b, color.Punct, ",")
			}
			r.writeOmission(b, tmpl, omittedRuns[runIdx])
			runIdx++
			wrote = true
		}
		if wrote {
			r.writeColored(b, color.Punct, ",")
		}
		key := r.highlightText(keys[pos], color.Key)
		r.writeColored(b, color.Key, "\""+key+"\"")
		r.writeColored(b, color.Punct, ":")
		b.WriteString(r.cfg.Space)
		r.writeStructured(b, children[pos], tmpl, depth+1)
		wrote = true
		_ = i
	}
	if runIdx < len(omittedRuns) {
		r.writeColored(b, color.Punct, ",")
		r.writeOmission(b, tmpl, omittedRuns[runIdx])
	}
	r.writeColored(b, color.Punct, "}")
}

func (r *renderer) writeArray(b *strings.Builder, id arena.NodeID, tmpl Template, depth int) {
	children := r.po.Arena.ChildrenOf(id)
	entries, omittedRuns := r.visibleEntries(children)

	if tmpl == Yaml {
		r.writeYamlSequence(b, children, entries, omittedRuns, depth)
		return
	}

	r.writeColored(b, color.Punct, "[")
	if len(entries) == 0 && len(omittedRuns) == 0 {
		r.writeColored(b, color.Punct, "]")
		return
	}
	if len(entries) == 0 {
		r.writeOmission(b, tmpl, omittedRuns[0])
		r.writeColored(b, color.Punct, "]")
		return
	}
	wrote := false
	runIdx := 0
	for _, pos := range entries {
		if runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			if wrote {
				r.writeColored(b, color.Punct, ",")
			}
			r.writeOmission(b, tmpl, omittedRuns[runIdx])
			runIdx++
			wrote = true
		}
		if wrote {
			r.writeColored(b, color.Punct, ",")
		}
		r.writeStructured(b, children[pos], tmpl, depth+1)
		wrote = true
	}
	if runIdx < len(omittedRuns) {
		r.writeColored(b, color.Punct, ",")
		r.writeOmission(b, tmpl, omittedRuns[runIdx])
	}
	r.writeColored(b, color.Punct, "]")
}

// omittedRun describes one consecutive run of excluded children, named by
// the position of the next visible child it precedes (or len(children) when
// the run trails the last visible child).
type omittedRun struct {
	before int
	count  int
}

// visibleEntries returns the positions of included children, and the
// consecutive-omission runs between/around them, collapsing every run into
// a single marker (spec.md §4.F "Common rules").
func (r *renderer) visibleEntries(children []arena.NodeID) (entries []int, runs []omittedRun) {
	runLen := 0
	for pos, c := range children {
		if r.included(c) {
			if runLen > 0 {
				runs = append(runs, omittedRun{before: pos, count: runLen})
				runLen = 0
			}
			entries = append(entries, pos)
		} else {
			runLen++
		}
	}
	if runLen > 0 {
		runs = append(runs, omittedRun{before: len(children), count: runLen})
	}
	return entries, runs
}

func (r *renderer) writeOmission(b *strings.Builder, tmpl Template, run omittedRun) {
	switch tmpl {
	case Json:
		// Strict JSON never emits a marker: dropped items are silently
		// absent (spec.md §4.F, §9 Open Questions).
		return
	case Js:
		r.writeColored(b, color.Punct, "… "+strconv.Itoa(run.count)+" more items")
	default:
		r.writeColored(b, color.Punct, "…")
	}
}

func (r *renderer) writeStringValue(b *strings.Builder, value string, splittable bool) {
	text := value
	suffix := ""
	if splittable {
		text = truncateGraphemes(value, r.cfg.effectiveStringLimit())
		if text != value {
			suffix = "…"
		}
	}
	highlighted := r.highlightText(text, color.String)
	r.writeColored(b, color.String, "\""+highlighted+"\"")
	if suffix != "" {
		r.writeColored(b, color.Punct, suffix)
	}
}

func (r *renderer) writeColored(b *strings.Builder, role color.Role, text string) {
	b.WriteString(color.Apply(role, text, r.cfg.ColorEnabled && r.cfg.GrepHighlight == nil))
}

// highlightText wraps grep matches inside text with the Match role when
// GrepHighlight is set; structural punctuation is never passed through this
// function (spec.md §4.F "Highlighting").
func (r *renderer) highlightText(text string, role color.Role) string {
	if r.cfg.GrepHighlight == nil {
		return text
	}
	matches := r.cfg.GrepHighlight.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(color.Apply(color.Match, text[m[0]:m[1]], r.cfg.ColorEnabled))
		last = m[1]
	}
	b.WriteString(text[last:])
	_ = role
	return b.String()
}
