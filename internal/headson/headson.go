// Package headson implements the public library surface spec.md §6
// describes: one entry point, Summarize, that wires every stage — fileset
// input ordering, ingest, priority ordering, grep, budget selection, and the
// optional debug trace — into the single call every CLI subcommand and the
// MCP tool (internal/mcpserver) end up making. It mirrors the original
// Rust implementation's top-level `headson()` function
// (_examples/original_source/src/lib.rs), and is grounded in shape on the
// teacher's own thin per-request orchestration in internal/cli/generate.go,
// which likewise does nothing but call each stage in sequence and translate
// the result into a CLI-facing struct.
package headson

import (
	"context"
	"io"

	"github.com/headson/headson/internal/debug"
	"github.com/headson/headson/internal/grep"
	"github.com/headson/headson/internal/headsonerr"
	"github.com/headson/headson/internal/ingest"
	"github.com/headson/headson/internal/measure"
	"github.com/headson/headson/internal/order"
	"github.com/headson/headson/internal/priority"
	"github.com/headson/headson/internal/render"
	"github.com/headson/headson/internal/selector"
)

// Options carries everything one Summarize call needs. It is the Go-native
// shape of spec.md §6's `summarize(input_kind, render_config, priority_config,
// grep_config, budgets)` entry point, widened to also cover fileset inputs
// and the --priority ordering supplement.
type Options struct {
	// Inputs is one or more named inputs to ingest. A single, non-forced
	// input ingests directly (ingest.Single); more than one, or Fileset
	// explicitly set, merges under a synthetic fileset root (ingest.Merge).
	Inputs []ingest.Input

	// Fileset forces fileset merge semantics even for a single input.
	Fileset bool

	// FilesetFormatOverridden is set by the caller when an explicit
	// structured --format/--style override was requested alongside a
	// fileset input. Fileset inputs choose their per-file template from
	// each file's own kind (spec.md §4.F); overriding it is rejected here
	// with headsonerr.FilesetFormatForbidden rather than silently ignored.
	FilesetFormatOverridden bool

	// PriorityInputGroups reorders Inputs before ingest via internal/priority,
	// implementing the `--priority` glob-group flag. Nil skips reordering
	// (inputs ingest in the order supplied).
	PriorityInputGroups []priority.Group

	Priority order.PriorityConfig
	Grep     grep.Config
	Budgets  selector.Budgets
	Render   render.Config

	// Debug, when non-nil, receives one JSON debug.Trace line describing
	// this run (spec.md §6 "--debug").
	Debug io.Writer
}

// Result is everything a caller needs after one summarize call.
type Result struct {
	Output          string
	Stats           measure.Stats
	ConstrainedDims []string
	Notice          string
	SelectedNodes   int
	TotalNodes      int
}

// Summarize runs the full headson pipeline once: order the fileset inputs,
// ingest them into one arena, build the priority order, apply grep, select
// the largest budget-fitting prefix, and render it. It returns a
// *headsonerr.Error for every fatal condition named in spec.md's error
// handling design, so callers can use headsonerr.CodeOf on the result.
func Summarize(ctx context.Context, opts Options) (Result, error) {
	if len(opts.Inputs) == 0 {
		return Result{}, headsonerr.IngestFailed("<empty>", errNoInputs)
	}

	isFileset := opts.Fileset || len(opts.Inputs) > 1
	if isFileset && opts.FilesetFormatOverridden {
		return Result{}, headsonerr.FilesetFormatForbidden(formatName(opts.Render))
	}

	inputs := opts.Inputs
	if isFileset && len(opts.PriorityInputGroups) > 0 {
		inputs = priority.Order(inputs, opts.PriorityInputGroups)
	}

	var a arenaOrErr
	if isFileset {
		built, err := ingest.Merge(inputs, opts.Priority)
		a = arenaOrErr{built, err}
	} else {
		built, err := ingest.Single(inputs[0], opts.Priority)
		a = arenaOrErr{built, err}
	}
	if a.err != nil {
		return Result{}, a.err
	}

	po := order.Build(&a.arena, opts.Priority)

	sel := selector.Select(ctx, po, selector.Config{
		Budgets: opts.Budgets,
		Grep:    opts.Grep,
		Render:  opts.Render,
	})

	if opts.Debug != nil {
		trace := debug.Trace{
			InputFingerprint: fingerprintAll(inputs),
			InputKind:        inputKindLabel(isFileset, inputs),
			TotalNodes:       sel.TotalNodes,
			GrepEnabled:      opts.Grep.Enabled(),
			MustKeepNodes:    sel.MustKeepNodes,
			SelectedNodes:    sel.SelectedNodes,
			OutputBytes:      sel.Stats.Bytes,
			OutputChars:      sel.Stats.Chars,
			OutputLines:      sel.Stats.Lines,
			ConstrainedDims:  sel.ConstrainedDims,
			Notice:           sel.Notice,
		}
		_ = debug.Emit(opts.Debug, trace)
	}

	return Result{
		Output:          sel.Output,
		Stats:           sel.Stats,
		ConstrainedDims: sel.ConstrainedDims,
		Notice:          sel.Notice,
		SelectedNodes:   sel.SelectedNodes,
		TotalNodes:      sel.TotalNodes,
	}, nil
}
