package render

import (
	"strconv"
	"strings"
)

// renderFilesetSections is the default fileset layout (spec.md §4.F
// "fileset inputs render as sections"): one "==> name <==" header per
// included file, followed by that file's body under its own per-file
// template.
func (r *renderer) renderFilesetSections() string {
	root := r.po.Arena.Root
	children := r.po.Arena.ChildrenOf(root)
	keys := r.po.Arena.KeysOf(root)

	var b strings.Builder
	wrote := false
	for i, child := range children {
		if !r.included(child) {
			continue
		}
		if wrote {
			b.WriteString("\n")
		}
		if r.cfg.ShowFilesetHeaders {
			b.WriteString("==> ")
			b.WriteString(keys[i])
			b.WriteString(" <==\n")
		}
		b.WriteString(r.renderTopLevel(child, r.cfg.templateFor(child)))
		wrote = true
	}
	return b.String()
}

// renderFilesetTree implements the FilesetTree template: a flat
// directory-style listing of the fileset's files, each prefixed with a
// branch connector, with a run of excluded files collapsed into one
// "… N more items" line (spec.md §4.F "FilesetTree").
func (r *renderer) renderFilesetTree() string {
	root := r.po.Arena.Root
	children := r.po.Arena.ChildrenOf(root)
	keys := r.po.Arena.KeysOf(root)
	entries, omittedRuns := r.visibleEntries(children)

	var b strings.Builder
	runIdx := 0
	for i, pos := range entries {
		for runIdx < len(omittedRuns) && omittedRuns[runIdx].before == pos {
			b.WriteString(treeConnector(false))
			b.WriteString("… ")
			b.WriteString(strconv.Itoa(omittedRuns[runIdx].count))
			b.WriteString(" more items\n")
			runIdx++
		}
		last := i == len(entries)-1 && runIdx >= len(omittedRuns)
		b.WriteString(treeConnector(last))
		b.WriteString(keys[pos])
		b.WriteString("\n")
	}
	if runIdx < len(omittedRuns) {
		b.WriteString(treeConnector(true))
		b.WriteString("… ")
		b.WriteString(strconv.Itoa(omittedRuns[runIdx].count))
		b.WriteString(" more items\n")
	}
	return b.String()
}

func treeConnector(last bool) string {
	if last {
		return "└─ "
	}
	return "├─ "
}
