// Package priority implements the `--priority` fileset input ordering
// supplement to spec.md §4.C (Priority Order): which of several ingested
// files gets BFS-ranked earlier under internal/order.Build. It is grounded
// on the teacher's internal/relevance package (matcher.go's glob-tier
// matching, tiers.go's six-tier default scheme, sorter.go's stable
// tier-then-path sort), repointed from the teacher's *pipeline.FileDescriptor
// onto ingest.Input, and trimmed to the ordering concern alone — the
// teacher's token-budget/explain diagnostics (explain.go, TierSummary) belong
// to a reporting surface headson does not carry.
package priority

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/headson/headson/internal/ingest"
)

// Tier is the relevance bucket a fileset input falls into. Lower numbers
// sort first. Unlike the teacher's fixed six-tier scheme, headson's tiers
// are whatever --priority glob groups the caller supplies; Tier is just the
// group's position in that list.
type Tier int

// Group is one --priority glob group: every input whose name matches one of
// Patterns is assigned Tier (the group's index). The first matching group,
// in the order supplied, wins.
type Group struct {
	Patterns []string
}

// DefaultGroups mirrors the teacher's DefaultTierDefinitions (PRD Section
// 5.3), adapted into the headson `--priority` glob-group shape: project
// manifests and root config first, primary source next, tests and docs
// last. Used when the caller passes no --priority flag at all.
func DefaultGroups() []Group {
	return []Group{
		{Patterns: []string{
			"package.json", "go.mod", "Cargo.toml", "Makefile", "Dockerfile",
			"pyproject.toml", "*.config.*",
		}},
		{Patterns: []string{"src/**", "lib/**", "cmd/**", "internal/**", "pkg/**"}},
		{Patterns: []string{"*_test.go", "*.test.ts", "*.spec.ts", "test/**", "tests/**"}},
		{Patterns: []string{"*.md", "docs/**", "README*", "LICENSE*"}},
	}
}

// matcher is the compiled form of a []Group: each group's patterns are
// validated once at construction, exactly as the teacher's NewTierMatcher
// discards unparseable patterns rather than failing the whole run.
type matcher struct {
	groups [][]string
}

func newMatcher(groups []Group) *matcher {
	m := &matcher{groups: make([][]string, len(groups))}
	for i, g := range groups {
		valid := make([]string, 0, len(g.Patterns))
		for _, p := range g.Patterns {
			if doublestar.ValidatePattern(p) {
				valid = append(valid, p)
			}
		}
		m.groups[i] = valid
	}
	return m
}

// tierOf returns the index of the first group whose pattern matches name, or
// len(groups) when nothing matches (the unmatched bucket sorts last, after
// every explicit group — the opposite of the teacher's "unmatched lands in
// the middle" Tier2Secondary default, since headson has no secondary-source
// notion to fall back to).
func (m *matcher) tierOf(name string) int {
	normalized := strings.TrimPrefix(strings.ReplaceAll(name, `\`, "/"), "./")
	for i, patterns := range m.groups {
		for _, p := range patterns {
			if matched, err := doublestar.Match(p, normalized); err == nil && matched {
				return i
			}
		}
	}
	return len(m.groups)
}

// Order returns a new slice containing every element of inputs, stably
// sorted by ascending group index (tierOf) and then by Name, mirroring the
// teacher's SortByRelevance tier-then-path ordering. Inputs that tie on both
// keys (duplicate names) keep their original relative order, preserving
// spec.md §8's "fileset interleaving is stable" determinism requirement. The
// input slice is never mutated.
func Order(inputs []ingest.Input, groups []Group) []ingest.Input {
	out := make([]ingest.Input, len(inputs))
	copy(out, inputs)
	if len(groups) == 0 {
		return out
	}
	m := newMatcher(groups)
	tiers := make([]int, len(out))
	for i, in := range out {
		tiers[i] = m.tierOf(in.Name)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if n := cmp.Compare(tiers[a], tiers[b]); n != 0 {
			return n
		}
		return cmp.Compare(out[a].Name, out[b].Name)
	})
	sorted := make([]ingest.Input, len(out))
	for pos, i := range idx {
		sorted[pos] = out[i]
	}
	return sorted
}

// ParseGroups turns a `--priority` flag's repeated glob-list values (one
// list per priority level, highest priority first) into []Group.
func ParseGroups(levels [][]string) []Group {
	groups := make([]Group, len(levels))
	for i, patterns := range levels {
		groups[i] = Group{Patterns: patterns}
	}
	return groups
}
