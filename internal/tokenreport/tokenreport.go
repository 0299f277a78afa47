// Package tokenreport provides an informational token-count diagnostic on
// top of a selector's finished render: never a hard budget (spec.md §6
// names byte/char/line caps only), just a number attached to the debug
// trace and to `headson preview` so a caller can gauge roughly how an LLM
// would see the output. It is grounded on the teacher's internal/tokenizer
// package (tokenizer.go's Tokenizer interface/factory, estimator.go's
// char/4 heuristic, tiktoken.go's pkoukk/tiktoken-go adapter), trimmed down
// from the teacher's multi-file token-BUDGET allocator (budget.go,
// counter.go, report.go) — all three of which keyed off
// *pipeline.FileDescriptor and don't survive the absence of that package —
// to the single-rendered-string counting concern headson actually needs.
package tokenreport

import (
	"fmt"
)

// Tokenizer counts tokens in text content. All implementations must be safe
// for concurrent use from multiple goroutines.
type Tokenizer interface {
	// Count returns the number of tokens in the given text. Returns 0 for
	// empty text. Never returns a negative value.
	Count(text string) int

	// Name returns the tokenizer encoding name (e.g., "cl100k_base").
	Name() string
}

// Supported tokenizer encoding names.
const (
	// NameCL100K is the cl100k_base BPE encoding used by GPT-4 and Claude models.
	// This is the default encoding when an empty string is passed to NewTokenizer.
	NameCL100K = "cl100k_base"

	// NameO200K is the o200k_base BPE encoding used by GPT-4o and OpenAI o1/o3 models.
	NameO200K = "o200k_base"

	// NameNone selects the character-count estimator: len(text) / 4.
	NameNone = "none"
)

// ErrUnknownTokenizer is returned by NewTokenizer when an unrecognised
// encoding name is provided. Callers can check for this with errors.Is.
var ErrUnknownTokenizer = fmt.Errorf("unknown tokenizer")

// NewTokenizer returns a Tokenizer for the given encoding name.
//
// Supported names are "cl100k_base", "o200k_base", and "none". Passing an
// empty string returns the default cl100k_base tokenizer.
//
// The tiktoken BPE encodings (cl100k_base, o200k_base) are initialised once
// on construction. Subsequent Count calls are cheap and goroutine-safe.
// tiktoken-go respects the TIKTOKEN_CACHE_DIR environment variable for
// caching downloaded BPE dictionaries.
func NewTokenizer(name string) (Tokenizer, error) {
	if name == "" {
		name = NameCL100K
	}

	switch name {
	case NameCL100K, NameO200K:
		return newTiktokenTokenizer(name)
	case NameNone:
		return newEstimatorTokenizer(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: cl100k_base, o200k_base, none)", ErrUnknownTokenizer, name)
	}
}

// Report is the token-count diagnostic attached to a debug trace or printed
// by `headson preview`: the selected encoding's name and the token count it
// produced for one rendered output.
type Report struct {
	Encoding string
	Tokens   int
}

// Count builds a Report for output using the named encoding. An empty name
// selects NameCL100K, matching NewTokenizer's default.
func Count(output string, encodingName string) (Report, error) {
	tok, err := NewTokenizer(encodingName)
	if err != nil {
		return Report{}, err
	}
	return Report{Encoding: tok.Name(), Tokens: tok.Count(output)}, nil
}
