package ingest

import (
	"bufio"
	"bytes"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// ingestText parses raw text into b as an Array of per-line leaves and
// returns its root id (spec.md §4.B.3). Lines are split with
// bufio.ScanLines, which breaks on LF and drops a CR right before it, so LF
// and CRLF each end one line; a lone CR is not a break here and stays in the
// line (internal/measure, by contrast, counts a lone CR as a break).
//
// In ModePlain every line becomes a splittable String leaf; in ModeCode
// every line becomes an unsplittable CodeLine leaf. An oversized line count
// is sampled the same way an oversized JSON/YAML array would be.
func ingestText(b *arena.Builder, data []byte, mode Mode, cfg order.PriorityConfig) (arena.NodeID, error) {
	lines := splitLines(data)
	total := len(lines)
	keep, sampledIndices := sampledRange(total, cfg)

	children := make([]arena.NodeID, len(keep))
	for i, idx := range keep {
		line := lines[idx]
		if mode == ModeCode {
			children[i] = b.PushScalar(arena.CodeLine, line, "")
		} else {
			children[i] = b.PushScalar(arena.String, "", line)
		}
	}
	return b.PushArray(children, total, sampledIndices), nil
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
