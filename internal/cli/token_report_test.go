package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headson/headson/internal/ingest"
)

func makeInput(name, body string) ingest.Input {
	return ingest.Input{Name: name, Bytes: []byte(body), Kind: ingest.KindText}
}

func TestBuildTokenBreakdown_SortsDescending(t *testing.T) {
	t.Parallel()

	inputs := []ingest.Input{
		makeInput("small.txt", "hi"),
		makeInput("big.txt", strings.Repeat("word ", 200)),
	}

	stats, err := buildTokenBreakdown(inputs, "cl100k_base")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "big.txt", stats[0].Name)
	assert.Equal(t, "small.txt", stats[1].Name)
	assert.Greater(t, stats[0].Tokens, stats[1].Tokens)
}

func TestBuildTokenBreakdown_UnknownEncodingErrors(t *testing.T) {
	t.Parallel()

	_, err := buildTokenBreakdown([]ingest.Input{makeInput("a.txt", "hi")}, "gpt2")
	assert.Error(t, err)
}

func TestPrintTopFiles_LimitsRows(t *testing.T) {
	t.Parallel()

	stats := []fileTokenStat{
		{Name: "a.go", Tokens: 900},
		{Name: "b.go", Tokens: 600},
		{Name: "c.go", Tokens: 50},
	}

	var buf bytes.Buffer
	printTopFiles(&buf, stats, 2)

	out := buf.String()
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "b.go")
	assert.NotContains(t, out, "c.go")
}

func TestPrintTopFiles_ZeroShowsAll(t *testing.T) {
	t.Parallel()

	stats := []fileTokenStat{
		{Name: "a.go", Tokens: 200},
		{Name: "b.go", Tokens: 100},
	}

	var buf bytes.Buffer
	printTopFiles(&buf, stats, 0)

	out := buf.String()
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "b.go")
}

func TestPrintTopFiles_NGreaterThanLenShowsAll(t *testing.T) {
	t.Parallel()

	stats := []fileTokenStat{
		{Name: "only.go", Tokens: 300},
	}

	var buf bytes.Buffer
	printTopFiles(&buf, stats, 5)

	assert.Contains(t, buf.String(), "only.go")
}

func TestPrintTopFiles_EmptyStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printTopFiles(&buf, nil, 10)

	assert.Empty(t, buf.String())
}
