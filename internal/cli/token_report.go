// Package cli implements the Cobra command hierarchy for the headson CLI tool.
// This file builds a per-input token breakdown used by `headson preview
// --files`, so a user tuning a byte/char/line budget can see which inputs are
// consuming the most of their estimated token budget before a fileset is
// merged and rendered.
package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/headson/headson/internal/ingest"
	"github.com/headson/headson/internal/tokenreport"
)

// fileTokenStat is one row of the per-input token breakdown: the raw token
// count of an input's bytes under the active encoding, before selection or
// rendering. It is an estimate -- the actual rendered node may be truncated
// or entirely dropped by budget selection.
type fileTokenStat struct {
	Name   string
	Tokens int
}

// buildTokenBreakdown counts tokens for each input independently and returns
// the rows sorted by token count, descending.
func buildTokenBreakdown(inputs []ingest.Input, encoding string) ([]fileTokenStat, error) {
	tok, err := tokenreport.NewTokenizer(encoding)
	if err != nil {
		return nil, err
	}
	stats := make([]fileTokenStat, len(inputs))
	for i, in := range inputs {
		stats[i] = fileTokenStat{Name: in.Name, Tokens: tok.Count(string(in.Bytes))}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Tokens > stats[j].Tokens })
	return stats, nil
}

// printTopFiles writes the top n rows of a token breakdown to w, one per
// line. n == 0 prints every row.
func printTopFiles(w io.Writer, stats []fileTokenStat, n int) {
	if n <= 0 || n > len(stats) {
		n = len(stats)
	}
	for _, s := range stats[:n] {
		fmt.Fprintf(w, "  %8d  %s\n", s.Tokens, s.Name)
	}
}
