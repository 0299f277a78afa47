// Package grep implements the Grep Engine (component D): it finds nodes
// whose value or key match a regex, marks their ancestor chain as
// must-keep, and either permutes the priority order (strong mode) or
// nudges ranks in place (weak mode). Grounded on
// _examples/original_source/src/grep.rs's compute_grep_state /
// mark_matches_and_ancestors / reorder_priority_with_must_keep.
package grep

import (
	"regexp"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// Show controls which fileset children survive strong-mode selection.
type Show uint8

const (
	// ShowMatching drops fileset children whose subtree has no match.
	ShowMatching Show = iota
	// ShowAll keeps every file; only the must-keep closure is forced.
	ShowAll
)

// Config carries the grep input (spec.md §6 "grep_config").
type Config struct {
	Regex *regexp.Regexp
	Weak  bool
	Show  Show
}

// Enabled reports whether grep should run at all.
func (c Config) Enabled() bool {
	return c.Regex != nil
}

// State is the computed must-keep set for one PriorityOrder.
type State struct {
	MustKeep      []bool // indexed by arena.NodeID
	MustKeepCount int
}

// IsEnabled mirrors the original's GrepState::is_enabled.
func (s *State) IsEnabled() bool {
	return s != nil && s.MustKeepCount > 0
}

// Compute finds every node matching cfg.Regex and marks its ancestor chain,
// returning nil when grep is disabled or nothing matched (spec.md §4.D
// "Must-keep closure"). A splittable string's own content is the value
// tested; it has no descendants in this arena model, so "mark all its
// descendants" (spec.md) is naturally a no-op here — the leaf itself is the
// whole match.
func Compute(po *order.PriorityOrder, cfg Config) *State {
	if !cfg.Enabled() {
		return nil
	}
	mustKeep := make([]bool, len(po.Nodes))
	markMatchesAndAncestors(po, cfg.Regex, mustKeep)

	count := 0
	for _, v := range mustKeep {
		if v {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &State{MustKeep: mustKeep, MustKeepCount: count}
}

func markMatchesAndAncestors(po *order.PriorityOrder, re *regexp.Regexp, mustKeep []bool) {
	for idx := range po.Nodes {
		id := arena.NodeID(idx)
		if !matchesRanked(po, re, id) {
			continue
		}
		cursor := id
		for {
			if mustKeep[cursor] {
				break
			}
			mustKeep[cursor] = true
			parent := po.ParentOf(cursor)
			if parent == arena.NoParent {
				break
			}
			cursor = parent
		}
	}
}

func matchesRanked(po *order.PriorityOrder, re *regexp.Regexp, id arena.NodeID) bool {
	n := po.Nodes[id]
	switch n.Class {
	case order.SplittableLeaf:
		if re.MatchString(n.Value) {
			return true
		}
	case order.AtomicLeaf:
		if n.Kind == arena.String {
			if re.MatchString(n.Value) {
				return true
			}
		} else if re.MatchString(n.Token) {
			return true
		}
	}

	key, ok := n.KeyInObject()
	if !ok {
		return false
	}
	// spec.md §4.D: "Matching filenames at the fileset root do NOT count as
	// matches" — a node's key only counts when its parent isn't the
	// synthetic fileset root itself.
	if po.IsFileset() && n.Parent == po.Arena.Root {
		return false
	}
	return re.MatchString(key)
}
