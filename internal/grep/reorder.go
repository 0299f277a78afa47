package grep

import (
	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// weakRankBonus is the rank nudge strong-mode skips and weak-mode applies:
// large enough to move a matched node ahead of unrelated siblings at the
// same depth, small enough to never cross a whole extra BFS level for a
// typical document (spec.md §4.D "Weak mode": "a small rank bonus").
const weakRankBonus = 1 << 20

// ApplyStrong permutes po.ByPriority in place so every must-keep node comes
// first, preserving relative order within each bucket (spec.md §4.D
// "Strong mode": "all must-keep nodes are moved to the front of
// by_priority"). Grounded on
// _examples/original_source/src/grep.rs's reorder_priority_with_must_keep.
func ApplyStrong(po *order.PriorityOrder, state *State) {
	seen := make([]bool, len(po.Nodes))
	reordered := make([]arena.NodeID, 0, len(po.ByPriority))

	for _, id := range po.ByPriority {
		if state.MustKeep[id] && !seen[id] {
			reordered = append(reordered, id)
			seen[id] = true
		}
	}
	for _, id := range po.ByPriority {
		if !seen[id] {
			reordered = append(reordered, id)
			seen[id] = true
		}
	}
	po.ByPriority = reordered
	for i, id := range po.ByPriority {
		po.Nodes[id].Rank = i
	}
}

// ApplyWeakNudge lowers the rank of every must-keep node (and, by
// construction, its ancestors are already must-keep too) without
// permuting by_priority's relative structure: ranks are recomputed as
// original_rank - bonus, clamped at 0, then by_priority is re-sorted by
// the adjusted rank. This keeps the budget un-expanded (no credit, no
// forced min_k) while still nudging matches earlier (spec.md §4.D "Weak
// mode").
func ApplyWeakNudge(po *order.PriorityOrder, state *State) {
	for id := range po.Nodes {
		if state.MustKeep[id] {
			r := po.Nodes[id].Rank - weakRankBonus
			if r < 0 {
				r = 0
			}
			po.Nodes[id].Rank = r
		}
	}
	stableSortByPriorityByRank(po)
}

func stableSortByPriorityByRank(po *order.PriorityOrder) {
	ranks := make([]int, len(po.ByPriority))
	for i, id := range po.ByPriority {
		ranks[i] = po.Nodes[id].Rank
	}
	// Insertion sort: by_priority is nearly sorted (only must-keep entries
	// moved), and stability must be exact since tie-broken nodes keep their
	// original relative order (spec.md §5 "Ordering guarantees").
	for i := 1; i < len(po.ByPriority); i++ {
		j := i
		for j > 0 && ranks[j-1] > ranks[j] {
			ranks[j-1], ranks[j] = ranks[j], ranks[j-1]
			po.ByPriority[j-1], po.ByPriority[j] = po.ByPriority[j], po.ByPriority[j-1]
			j--
		}
	}
}
