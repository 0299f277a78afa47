package order

import (
	"github.com/rivo/uniseg"

	"github.com/headson/headson/internal/arena"
)

// Build derives a PriorityOrder from a (now immutable) arena. It assigns
// ranks via a breadth-first walk so that ancestors always rank before
// descendants and whole levels rank before the next (spec.md §4.C.1-2);
// array children are visited in sampled order, reversed under
// PreferTailArrays (§4.C.3); and, under a synthetic fileset root, per-file
// breadth-first sequences are computed independently and then zipped
// position-by-position for round-robin fairness (§4.C.4).
func Build(a *arena.Arena, cfg PriorityConfig) *PriorityOrder {
	total := a.Len()
	nodes := make([]RankedNode, total)
	for id := 0; id < total; id++ {
		nodes[id].ID = arena.NodeID(id)
		nodes[id].Parent = arena.NoParent
	}

	byPriority := make([]arena.NodeID, 0, total)
	assign := func(id arena.NodeID) {
		nodes[id].Rank = len(byPriority)
		byPriority = append(byPriority, id)
	}

	childOrder := func(id arena.NodeID) []arena.NodeID {
		n := a.Node(id)
		switch n.Kind {
		case arena.Object:
			return a.ChildrenOf(id)
		case arena.Array:
			children := a.ChildrenOf(id)
			ordered := make([]arena.NodeID, len(children))
			copy(ordered, children)
			if cfg.PreferTailArrays {
				reverseNodeIDs(ordered)
			}
			return ordered
		default:
			return nil
		}
	}

	rootIsFileset := a.IsFileset
	if rootIsFileset {
		assign(a.Root)
		fileRoots := a.ChildrenOf(a.Root)
		sequences := make([][]arena.NodeID, len(fileRoots))
		for i, fr := range fileRoots {
			nodes[fr].Parent = a.Root
			sequences[i] = bfsSequence(a, fr, nodes, childOrder)
		}
		zipAssign(sequences, assign)
	} else {
		seq := bfsSequence(a, a.Root, nodes, childOrder)
		for _, id := range seq {
			assign(id)
		}
	}

	classify(a, cfg, nodes)
	annotateKeysAndIndices(a, nodes)

	rootType := ObjectPlain
	if rootIsFileset {
		rootType = ObjectFileset
	}

	return &PriorityOrder{
		Arena:          a,
		Nodes:          nodes,
		ByPriority:     byPriority,
		RootObjectType: rootType,
		TotalNodes:     len(byPriority),
	}
}

// bfsSequence returns every node id in root's subtree in breadth-first
// order (root first), filling in nodes[].Parent along the way.
func bfsSequence(a *arena.Arena, root arena.NodeID, nodes []RankedNode, childOrder func(arena.NodeID) []arena.NodeID) []arena.NodeID {
	seq := make([]arena.NodeID, 0, 16)
	queue := []arena.NodeID{root}
	seq = append(seq, root)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range childOrder(id) {
			nodes[c].Parent = id
			seq = append(seq, c)
			queue = append(queue, c)
		}
	}
	return seq
}

// zipAssign interleaves per-file BFS sequences position-by-position: all
// sequences' position 0, then all position 1, etc., skipping a sequence
// once it is exhausted.
func zipAssign(sequences [][]arena.NodeID, assign func(arena.NodeID)) {
	maxLen := 0
	for _, s := range sequences {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	for pos := 0; pos < maxLen; pos++ {
		for _, s := range sequences {
			if pos < len(s) {
				assign(s[pos])
			}
		}
	}
}

func reverseNodeIDs(s []arena.NodeID) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// classify fills in Kind/Class/Token/Value for every node.
func classify(a *arena.Arena, cfg PriorityConfig, nodes []RankedNode) {
	threshold := cfg.ResolvedMaxStringGraphemes()
	for id := 0; id < len(nodes); id++ {
		n := a.Node(arena.NodeID(id))
		nodes[id].Kind = n.Kind
		switch n.Kind {
		case arena.Object, arena.Array:
			nodes[id].Class = InternalNode
		case arena.String:
			nodes[id].Value = n.StringValue
			if !cfg.LineBudgetOnly && uniseg.GraphemeClusterCount(n.StringValue) > threshold {
				nodes[id].Class = SplittableLeaf
			} else {
				nodes[id].Class = AtomicLeaf
			}
		default: // Number, Bool, Null, CodeLine
			nodes[id].Token = n.AtomicToken
			nodes[id].Class = AtomicLeaf
		}
	}
}

// annotateKeysAndIndices fills in Key/ArrayIndex for every node by walking
// each Object/Array's children once.
func annotateKeysAndIndices(a *arena.Arena, nodes []RankedNode) {
	for id := 0; id < len(nodes); id++ {
		n := a.Node(arena.NodeID(id))
		switch n.Kind {
		case arena.Object:
			keys := a.KeysOf(arena.NodeID(id))
			children := a.ChildrenOf(arena.NodeID(id))
			for i, c := range children {
				nodes[c].Key = keys[i]
				nodes[c].HasKey = true
			}
		case arena.Array:
			children := a.ChildrenOf(arena.NodeID(id))
			for pos, c := range children {
				nodes[c].ArrayIndex = a.OriginalIndexOf(arena.NodeID(id), pos)
				nodes[c].HasArrayIndex = true
			}
		}
	}
}
