package grep

import (
	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// NoMatchesNotice is the user-visible message spec.md §4.D requires when
// strong-mode grep against a fileset finds zero matches.
const NoMatchesNotice = "No grep matches found"

// Notice returns NoMatchesNotice when cfg is strong-mode grep over a
// fileset input with a computed-but-empty state (i.e. grep ran, matched
// nothing), or "" otherwise. Weak mode never emits this notice.
func Notice(po *order.PriorityOrder, cfg Config, state *State) string {
	if cfg.Weak || !cfg.Enabled() {
		return ""
	}
	if !po.IsFileset() {
		return ""
	}
	if state.IsEnabled() {
		return ""
	}
	return NoMatchesNotice
}

// MatchedFileRoots reports, for a fileset order under Config.Show ==
// ShowMatching, which of the fileset root's direct children (one per
// input file) have at least one must-keep node in their subtree. Only
// meaningful when state is non-nil; spec.md §4.D: "show=matching
// additionally filters fileset children whose subtree contains no match".
func MatchedFileRoots(po *order.PriorityOrder, state *State) map[arena.NodeID]bool {
	matched := make(map[arena.NodeID]bool)
	if state == nil {
		return matched
	}
	for _, fileRoot := range po.Arena.ChildrenOf(po.Arena.Root) {
		if subtreeHasMustKeep(po, state, fileRoot) {
			matched[fileRoot] = true
		}
	}
	return matched
}

func subtreeHasMustKeep(po *order.PriorityOrder, state *State, root arena.NodeID) bool {
	if state.MustKeep[root] {
		return true
	}
	n := po.Arena.Node(root)
	if n.Kind != arena.Object && n.Kind != arena.Array {
		return false
	}
	for _, c := range po.Arena.ChildrenOf(root) {
		if subtreeHasMustKeep(po, state, c) {
			return true
		}
	}
	return false
}
