// Package debug implements the Debug Emitter (component I): a structured
// JSON trace of one summarize run, written only to a diagnostic stream the
// caller supplies. It is grounded on the teacher's internal/config.BuildDebugOutput/
// FormatDebugOutputJSON pair (_examples/AbdelazizMoustafa10m-Harvx/internal/config/debug.go):
// a plain data struct assembled during the run and marshaled with
// encoding/json, never hand-formatted. Where the teacher's debug output
// traces configuration-resolution provenance, this one traces the
// ingest → order → grep → selector pipeline's own decisions.
package debug

import (
	"encoding/json"
	"io"

	"github.com/zeebo/xxh3"
)

// Trace is the complete structured record of one run, emitted as one JSON
// object. Fields are populated incrementally by the orchestrator as each
// stage completes; Emit is called once at the end.
type Trace struct {
	InputFingerprint string   `json:"input_fingerprint"`
	InputKind        string   `json:"input_kind"`
	TotalNodes       int      `json:"total_nodes"`
	GrepEnabled      bool     `json:"grep_enabled"`
	MustKeepNodes    int      `json:"must_keep_nodes,omitempty"`
	SelectedNodes    int      `json:"selected_nodes"`
	OutputBytes      int      `json:"output_bytes"`
	OutputChars      int      `json:"output_chars"`
	OutputLines      int      `json:"output_lines"`
	ConstrainedDims  []string `json:"constrained_dims,omitempty"`
	Notice           string   `json:"notice,omitempty"`
}

// Fingerprint returns a stable, short hex digest of data, used to tag a
// trace with the exact bytes it ran over without embedding the bytes
// themselves (they may be large or sensitive). xxh3 is a non-cryptographic
// hash chosen purely for speed on potentially large inputs; this is a
// diagnostic correlation key, not a security control.
func Fingerprint(data []byte) string {
	sum := xxh3.Hash(data)
	return formatHex(sum)
}

func formatHex(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// Emit writes t to w as a single JSON line. A nil w is a no-op: the debug
// stream is opt-in (spec.md §6 "--debug"), never attached by default.
func Emit(w io.Writer, t Trace) error {
	if w == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	return enc.Encode(t)
}
