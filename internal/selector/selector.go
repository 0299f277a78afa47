// Package selector implements the Selector (component E): the binary
// search that finds the largest prefix of a PriorityOrder's ranked nodes
// whose rendered text still fits within byte/char/line budgets. It is the
// single place render measurement, grep's must-keep floor, and ancestor
// closure come together, mirroring the teacher's concurrent-measurement
// habit in internal/discovery/walker.go and internal/tokenizer/counter.go
// (both built on golang.org/x/sync/errgroup) rather than a from-scratch
// worker pool.
package selector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/grep"
	"github.com/headson/headson/internal/measure"
	"github.com/headson/headson/internal/order"
	"github.com/headson/headson/internal/render"
)

// Budgets is the byte/char/line cap triple from spec.md §4.E; a nil field
// means that dimension is unconstrained.
type Budgets struct {
	ByteCap *int
	CharCap *int
	LineCap *int
}

// Config carries every knob the selector needs beyond the PriorityOrder
// itself: the budgets to search against, the grep configuration to derive
// a must-keep floor from, and the render configuration used both to
// measure candidates and to produce the final output.
type Config struct {
	Budgets Budgets
	Grep    grep.Config
	Render  render.Config
}

// Result is everything a caller (the headson orchestrator, the CLI, the
// MCP server) needs after selection: the rendered text at the chosen k,
// its measured stats, which dimensions were binding, any grep notice, and
// the chosen/total node counts for diagnostics.
type Result struct {
	Output          string
	Stats           measure.Stats
	ConstrainedDims []string
	Notice          string
	SelectedNodes   int
	TotalNodes      int
	MustKeepNodes   int
}

// Select runs the budget-constrained binary search described in spec.md
// §4.E and returns the largest faithful render it found. It never mutates
// po's Arena, but it does permute/nudge po.ByPriority and po.Nodes[].Rank
// in place when grep is enabled, exactly as internal/grep documents.
func Select(ctx context.Context, po *order.PriorityOrder, cfg Config) Result {
	if po.TotalNodes == 0 {
		return Result{}
	}

	state := grep.Compute(po, cfg.Grep)
	minK := 0
	if cfg.Grep.Enabled() && !cfg.Grep.Weak {
		grep.ApplyStrong(po, state)
		minK = state.MustKeepCount
	} else if cfg.Grep.Weak {
		grep.ApplyWeakNudge(po, state)
	}

	measureCfg := cfg.Render
	if !measureCfg.CountFilesetHeadersInBudgets {
		measureCfg.ShowFilesetHeaders = false
	}
	measureCfg.ColorEnabled = false

	lo, hi := minK, po.TotalNodes

	// The must-keep floor and the whole-tree ceiling are independent
	// renders: whether the must-keep set alone already blows the budget
	// (the "grep credit"), and whether the unconstrained tree already
	// fits, can be measured concurrently before any sequential search
	// starts. Each goroutine renders against its own prefix-inclusion
	// closure rather than the shared generation-counter buffer the
	// sequential loop below uses, since that buffer is not safe for
	// concurrent probes.
	var loFits, hiFits bool
	var loStats, hiStats measure.Stats
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out := render.Render(po, includedPrefix(po, lo), measureCfg)
		loStats = measure.Count(out)
		loFits = measure.Fits(loStats, cfg.Budgets.ByteCap, cfg.Budgets.CharCap, cfg.Budgets.LineCap)
		return nil
	})
	g.Go(func() error {
		out := render.Render(po, includedPrefix(po, hi), measureCfg)
		hiStats = measure.Count(out)
		hiFits = measure.Fits(hiStats, cfg.Budgets.ByteCap, cfg.Budgets.CharCap, cfg.Budgets.LineCap)
		return nil
	})
	_ = g.Wait()

	var best int
	switch {
	case hiFits:
		best = hi
	case !loFits:
		// Even the must-keep floor (or, with no grep, an empty render)
		// exceeds budget: the strong-grep guarantee and the "always keep
		// trying" invariant both call for keeping the floor anyway
		// (spec.md §8 "strong-grep guarantee").
		best = lo
	default:
		best = binarySearch(po, lo, hi, measureCfg, cfg.Budgets)
	}

	included := includedPrefix(po, best)
	out := render.Render(po, included, cfg.Render)
	stats := measure.Count(out)

	mustKeepCount := 0
	if state.IsEnabled() {
		mustKeepCount = state.MustKeepCount
	}

	return Result{
		Output:          out,
		Stats:           stats,
		ConstrainedDims: measure.ConstrainedDimensions(stats, cfg.Budgets.ByteCap, cfg.Budgets.CharCap, cfg.Budgets.LineCap),
		Notice:          grep.Notice(po, cfg.Grep, state),
		SelectedNodes:   best,
		TotalNodes:      po.TotalNodes,
		MustKeepNodes:   mustKeepCount,
	}
}

// binarySearch finds the largest k in [lo, hi] whose render fits budgets,
// given fits(lo) == true and fits(hi) == false (spec.md §8 "monotonicity":
// a larger k never renders smaller output). It reuses one generation-
// counter inclusion buffer across every probe (spec.md §5 "Shared resource
// policy") instead of allocating a fresh []bool per iteration.
func binarySearch(po *order.PriorityOrder, lo, hi int, measureCfg render.Config, budgets Budgets) int {
	s := newProbe(po)
	best := lo
	l, h := lo, hi
	for l <= h {
		mid := l + (h-l)/2
		out := render.Render(po, s.prefix(mid), measureCfg)
		stats := measure.Count(out)
		if measure.Fits(stats, budgets.ByteCap, budgets.CharCap, budgets.LineCap) {
			best = mid
			l = mid + 1
		} else {
			h = mid - 1
		}
	}
	return best
}

// probe is the reusable generation-counter inclusion buffer: prefix(k)
// marks the first k entries of po.ByPriority with the current generation
// and returns a closure reading that generation back, so repeated probes
// during the binary search never reallocate.
type probe struct {
	po    *order.PriorityOrder
	flags []int
	gen   int
}

func newProbe(po *order.PriorityOrder) *probe {
	return &probe{po: po, flags: make([]int, len(po.Nodes))}
}

func (s *probe) prefix(k int) render.Included {
	s.gen++
	gen := s.gen
	for _, id := range s.po.ByPriority[:k] {
		s.flags[id] = gen
	}
	return func(id arena.NodeID) bool { return s.flags[id] == gen }
}

// includedPrefix builds a standalone (non-shared) inclusion closure over
// the first k entries of po.ByPriority, safe to call from concurrent
// goroutines since it owns its own buffer.
func includedPrefix(po *order.PriorityOrder, k int) render.Included {
	flags := make([]bool, len(po.Nodes))
	for _, id := range po.ByPriority[:k] {
		flags[id] = true
	}
	return func(id arena.NodeID) bool { return flags[id] }
}
