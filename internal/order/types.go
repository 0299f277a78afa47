// Package order implements the Priority Order (component C): it derives,
// from a built arena.Arena, a total order over every node that ranks
// ancestors before descendants and breadth before depth, with pluggable
// array sampling order and round-robin fairness across fileset members.
// Later stages (grep, selector, renderer) consume the resulting
// PriorityOrder rather than walking the arena directly.
package order

import "github.com/headson/headson/internal/arena"

// Class classifies a node's rendering behavior, independent of its arena
// Kind. Object/Array collapse to InternalNode; Number/Bool/Null are always
// AtomicLeaf; String is AtomicLeaf or SplittableLeaf depending on length and
// on PriorityConfig.LineBudgetOnly.
type Class uint8

const (
	// AtomicLeaf is shown in full or not at all.
	AtomicLeaf Class = iota
	// SplittableLeaf may be shown as a truncated grapheme prefix.
	SplittableLeaf
	// InternalNode is an Object or Array with its own children.
	InternalNode
)

// ObjectType distinguishes an ordinary tree root from a synthetic fileset
// root, mirroring the arena's IsFileset flag at the PriorityOrder level so
// later stages don't need to reach back into the arena for it.
type ObjectType uint8

const (
	// ObjectPlain is a non-fileset root.
	ObjectPlain ObjectType = iota
	// ObjectFileset is a synthetic root merging multiple named inputs.
	ObjectFileset
)

// ArraySamplerStrategy overrides an array's sampling bias regardless of
// PriorityConfig.ArrayBias: Default defers to ArrayBias, Head/Tail force a
// single direction (CLI surface: --head/--tail).
type ArraySamplerStrategy uint8

const (
	// SamplerDefault uses PriorityConfig.ArrayBias as configured.
	SamplerDefault ArraySamplerStrategy = iota
	// SamplerHead forces keeping (and ranking) the first elements.
	SamplerHead
	// SamplerTail forces keeping (and ranking) the last elements.
	SamplerTail
)

// PriorityConfig carries every knob that affects node ranking and array
// sampling. It is threaded into both the ingest adapters (which sample
// oversized arrays) and build_order (which ranks the sampled result), since
// drift between the two would oscillate the selector's binary search.
type PriorityConfig struct {
	// MaxStringGraphemes is the grapheme-count threshold above which a
	// String leaf is classified SplittableLeaf. Zero means "use the
	// package default of 500" (see DefaultMaxStringGraphemes).
	MaxStringGraphemes int

	// ArrayMaxItems caps how many elements of an oversized array are kept.
	// Zero means "use DefaultArrayMaxItems".
	ArrayMaxItems int

	// PreferTailArrays reverses the natural head-first inclusion order for
	// array children's ranks (and, through ArraySamplerStrategy, for which
	// elements are sampled at all under --tail).
	PreferTailArrays bool

	// ArrayBias selects which elements of an oversized array are sampled
	// when ArraySampler is SamplerDefault.
	ArrayBias arena.Bias

	// ArraySampler overrides ArrayBias to force a single direction.
	ArraySampler ArraySamplerStrategy

	// LineBudgetOnly collapses string-splittability handling: when true,
	// no String leaf is ever classified SplittableLeaf (the distinction
	// only matters for byte/char budgets — a partially-shown line still
	// counts as exactly one line either way).
	LineBudgetOnly bool

	// StringFreePrefixGraphemes, when positive, guarantees the renderer
	// shows at least this many graphemes of every included string leaf,
	// regardless of the leaf's own rank relative to the selected k. It
	// never changes the arena-node cost a string represents (still a
	// single priority-order slot); it only raises a floor on how much of
	// the leaf's content renders once it is included at all.
	StringFreePrefixGraphemes int
}

// DefaultMaxStringGraphemes is used when PriorityConfig.MaxStringGraphemes
// is zero.
const DefaultMaxStringGraphemes = 500

// DefaultArrayMaxItems is used when PriorityConfig.ArrayMaxItems is zero.
const DefaultArrayMaxItems = 100

// ResolvedMaxStringGraphemes applies the zero-means-default rule.
func (c PriorityConfig) ResolvedMaxStringGraphemes() int {
	if c.MaxStringGraphemes <= 0 {
		return DefaultMaxStringGraphemes
	}
	return c.MaxStringGraphemes
}

// ResolvedArrayMaxItems applies the zero-means-default rule.
func (c PriorityConfig) ResolvedArrayMaxItems() int {
	if c.ArrayMaxItems <= 0 {
		return DefaultArrayMaxItems
	}
	return c.ArrayMaxItems
}

// EffectiveBias resolves ArraySampler/ArrayBias/PreferTailArrays into the
// final (bias, preferTail) pair an ingest adapter should sample with. It is
// exported so every ingest adapter resolves identically.
func (c PriorityConfig) EffectiveBias() (bias arena.Bias, preferTail bool) {
	switch c.ArraySampler {
	case SamplerHead:
		return arena.BiasHead, false
	case SamplerTail:
		return arena.BiasTail, true
	default:
		return c.ArrayBias, c.PreferTailArrays
	}
}

// RankedNode carries every fact about one arena node that grep, the
// selector, and the renderer need without re-visiting the arena: its
// topology (Parent), its classification, its rank, and — for leaves — the
// token/value text grep matches against and the renderer emits.
type RankedNode struct {
	ID     arena.NodeID
	Kind   arena.Kind
	Class  Class
	Parent arena.NodeID // arena.NoParent for the root

	// Rank is this node's position in priority order; lower is included
	// earlier. Set by build_order (or permuted in place by grep's strong
	// mode — see internal/grep).
	Rank int

	// Key is this node's key when it is an Object's child; HasKey
	// distinguishes "no key" from a legitimately empty-string key.
	Key    string
	HasKey bool

	// ArrayIndex is this node's original (pre-sampling) index when it is
	// an Array's child.
	ArrayIndex    int
	HasArrayIndex bool

	// Token is the atomic lexeme for Number/Bool/Null leaves.
	Token string
	// Value is the string value for String leaves.
	Value string
}

// KeyInObject returns (key, true) when the node is an Object child, else
// ("", false) — mirroring the original's key_in_object() accessor used by
// the grep engine.
func (n RankedNode) KeyInObject() (string, bool) {
	return n.Key, n.HasKey
}

// PriorityOrder is the output of build_order: a total order over every node
// in arena build order, ready for grep adjustment and selector probing.
type PriorityOrder struct {
	// Arena is the tree this order was built from. Grep, the selector, and
	// the renderer all read topology (children, keys) straight from it;
	// PriorityOrder itself only adds Parent/rank/classification on top.
	Arena *arena.Arena

	// Nodes is indexed by arena.NodeID (same indexing as Arena.Nodes).
	Nodes []RankedNode

	// ByPriority holds every node id sorted by ascending Rank. Strong grep
	// permutes this slice in place (see internal/grep).
	ByPriority []arena.NodeID

	// RootObjectType distinguishes a fileset root from a plain root.
	RootObjectType ObjectType

	// TotalNodes is len(Nodes) == Arena.Len().
	TotalNodes int
}

// ParentOf returns the parent id of id, or arena.NoParent for the root.
func (o *PriorityOrder) ParentOf(id arena.NodeID) arena.NodeID {
	return o.Nodes[id].Parent
}

// IsFileset reports whether the order's root is a synthetic fileset root.
func (o *PriorityOrder) IsFileset() bool {
	return o.RootObjectType == ObjectFileset
}
