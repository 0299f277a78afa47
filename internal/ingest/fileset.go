package ingest

import (
	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/headsonerr"
	"github.com/headson/headson/internal/order"
)

// Single ingests exactly one Input and returns the built, non-fileset
// arena.
func Single(in Input, cfg order.PriorityConfig) (arena.Arena, error) {
	b := arena.NewBuilder()
	root, err := ingestOne(b, in, cfg)
	if err != nil {
		return arena.Arena{}, wrapIngestErr(in.Name, err)
	}
	return b.Finish(root, false), nil
}

// Merge ingests every input independently and merges the per-file roots
// under a synthetic object root keyed by filename, with IsFileset set
// (spec.md §4.B "Fileset merge"). A single input still goes through Merge
// when the caller already knows it is (or may become) a fileset; Single is
// a convenience for the common non-fileset case.
func Merge(inputs []Input, cfg order.PriorityConfig) (arena.Arena, error) {
	if len(inputs) == 0 {
		return arena.Arena{}, headsonerr.IngestFailed("<fileset>", errEmptyFileset)
	}
	b := arena.NewBuilder()
	keys := make([]string, len(inputs))
	children := make([]arena.NodeID, len(inputs))
	for i, in := range inputs {
		root, err := ingestOne(b, in, cfg)
		if err != nil {
			return arena.Arena{}, wrapIngestErr(in.Name, err)
		}
		keys[i] = in.Name
		children[i] = root
	}
	root := b.PushObject(keys, children)
	return b.Finish(root, true), nil
}
