// Package ingest implements the Ingest Adapters (component B): it turns raw
// bytes of one of the supported input kinds into a built arena.Arena, and
// merges multiple named inputs into a synthetic fileset root. Every adapter
// shares one arena.Builder and resolves array sampling through the same
// order.PriorityConfig so build_order never has to second-guess how an
// array was sampled at ingest time.
package ingest

import (
	"errors"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/headsonerr"
	"github.com/headson/headson/internal/order"
)

var (
	errUnknownKind  = errors.New("unknown input kind")
	errEmptyFileset = errors.New("fileset has no inputs")
)

// Mode distinguishes plain-text from code-like text ingest (spec.md §4.B.3).
type Mode uint8

const (
	// ModeAuto detects code-like mode from the input's filename extension.
	ModeAuto Mode = iota
	// ModePlain forces every line to a splittable String leaf.
	ModePlain
	// ModeCode forces every line to an AtomicLeaf token.
	ModeCode
)

// Kind discriminates the four input_kind variants of the public surface
// (spec.md §6 "Public library surface").
type Kind uint8

const (
	KindJSON Kind = iota
	KindYAML
	KindText
	KindFileset
)

// Input is one named input to ingest. Name is the fileset key (or the
// `primary_source_name` render hint for a non-fileset single input); Bytes
// is the raw content; Kind/TextMode select the adapter.
type Input struct {
	Name     string
	Bytes    []byte
	Kind     Kind
	TextMode Mode
}

// codeExtensions is the fixed set from spec.md §4.B.3 that triggers
// code-like text ingest under ModeAuto.
var codeExtensions = map[string]bool{
	".py": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".go": true, ".rs": true, ".cpp": true, ".cc": true, ".java": true,
	".sh": true, ".c": true, ".h": true,
}

// wrapIngestErr turns an adapter-specific parse error into the fatal
// IngestFailed kind spec.md §4.B requires ("malformed bytes do not silently
// degrade").
func wrapIngestErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return headsonerr.IngestFailed(name, err)
}

// ingestOne dispatches a single Input to its adapter, pushing nodes into b,
// and returns the id of the pushed subtree's root.
func ingestOne(b *arena.Builder, in Input, cfg order.PriorityConfig) (arena.NodeID, error) {
	switch in.Kind {
	case KindJSON:
		return ingestJSON(b, in.Bytes, cfg)
	case KindYAML:
		return ingestYAML(b, in.Bytes, cfg)
	case KindText:
		mode := in.TextMode
		if mode == ModeAuto {
			if isCodeLike(in.Name) {
				mode = ModeCode
			} else {
				mode = ModePlain
			}
		}
		return ingestText(b, in.Bytes, mode, cfg)
	default:
		return arena.NoParent, errUnknownKind
	}
}

// sampledRange resolves cfg's effective array bias against total and
// returns the original indices to actually build, in ascending order, plus
// the sampledIndices slice to pass to arena.Builder.PushArray (nil when no
// sampling was needed). Every adapter uses this so an oversized array's
// unselected elements are never parsed into the arena at all (spec.md §4.A).
func sampledRange(total int, cfg order.PriorityConfig) (keep []int, sampledIndices []int) {
	max := cfg.ResolvedArrayMaxItems()
	bias, _ := cfg.EffectiveBias()
	indices := arena.SampleIndices(total, max, bias)
	if indices == nil {
		keep = make([]int, total)
		for i := range keep {
			keep[i] = i
		}
		return keep, nil
	}
	return indices, indices
}

func isCodeLike(name string) bool {
	ext := extOf(name)
	return codeExtensions[ext]
}

func extOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ""
}
