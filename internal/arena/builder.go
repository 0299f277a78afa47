package arena

// Builder accumulates nodes into the arena's shared vectors. Callers must
// push every child before the parent that references it (spec.md §3
// invariant (i)); the API shape enforces this naturally since Push* methods
// take already-built NodeIDs rather than nested values.
type Builder struct {
	arena Arena
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) push(n Node) NodeID {
	id := NodeID(len(b.arena.Nodes))
	b.arena.Nodes = append(b.arena.Nodes, n)
	return id
}

// PushScalar appends a String/Number/Bool/Null leaf and returns its id.
// token is the atomic lexeme (ignored for String); value is the string
// value (ignored for non-String kinds).
func (b *Builder) PushScalar(kind Kind, token, value string) NodeID {
	return b.push(Node{
		Kind:             kind,
		AtomicToken:      token,
		StringValue:      value,
		ArrayOriginalLen: -1,
	})
}

// PushObject appends an Object node whose children/keys are already-built
// ids/strings. len(keys) must equal len(children).
func (b *Builder) PushObject(keys []string, children []NodeID) NodeID {
	childrenStart := len(b.arena.Children)
	b.arena.Children = append(b.arena.Children, children...)
	keysStart := len(b.arena.Keys)
	b.arena.Keys = append(b.arena.Keys, keys...)
	return b.push(Node{
		Kind:             Object,
		ChildrenStart:    childrenStart,
		ChildrenLen:      len(children),
		KeysStart:        keysStart,
		KeysLen:          len(keys),
		ArrayOriginalLen: -1,
	})
}

// PushArray appends an Array node. kept holds the already-built child ids
// that survived sampling, in ascending original-index order. total is the
// original length before sampling. sampledIndices, when non-nil, maps kept
// position -> original index (for a non-contiguous sample); pass nil when
// kept is a contiguous prefix of the original array.
func (b *Builder) PushArray(kept []NodeID, total int, sampledIndices []int) NodeID {
	childrenStart := len(b.arena.Children)
	b.arena.Children = append(b.arena.Children, kept...)

	indicesStart, indicesLen := 0, 0
	if len(sampledIndices) > 0 {
		indicesStart = len(b.arena.Indices)
		b.arena.Indices = append(b.arena.Indices, sampledIndices...)
		indicesLen = len(sampledIndices)
	}

	return b.push(Node{
		Kind:             Array,
		ChildrenStart:    childrenStart,
		ChildrenLen:      len(kept),
		ArrayOriginalLen: total,
		IndicesStart:     indicesStart,
		IndicesLen:       indicesLen,
	})
}

// Finish seals the builder and returns the built Arena with the given root.
// The returned Arena never changes: no later stage mutates it.
func (b *Builder) Finish(root NodeID, isFileset bool) Arena {
	b.arena.Root = root
	b.arena.IsFileset = isFileset
	return b.arena
}
