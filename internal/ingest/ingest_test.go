package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

func TestIngestJSONPreservesObjectKeyOrder(t *testing.T) {
	a, err := Single(Input{Name: "doc.json", Kind: KindJSON, Bytes: []byte(`{"z": 1, "a": 2, "m": 3}`)}, order.PriorityConfig{})
	require.NoError(t, err)
	keys := a.KeysOf(a.Root)
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestIngestJSONArray(t *testing.T) {
	a, err := Single(Input{Name: "doc.json", Kind: KindJSON, Bytes: []byte(`[1, "two", true, null, {"k": 3}]`)}, order.PriorityConfig{})
	require.NoError(t, err)
	require.Equal(t, arena.Array, a.Node(a.Root).Kind)
	children := a.ChildrenOf(a.Root)
	require.Len(t, children, 5)
	assert.Equal(t, arena.Number, a.Node(children[0]).Kind)
	assert.Equal(t, arena.String, a.Node(children[1]).Kind)
	assert.Equal(t, "two", a.Node(children[1]).StringValue)
	assert.Equal(t, arena.Bool, a.Node(children[2]).Kind)
	assert.Equal(t, arena.Null, a.Node(children[3]).Kind)
	assert.Equal(t, arena.Object, a.Node(children[4]).Kind)
}

func TestIngestJSONOversizedArraySamplesWithoutBuildingDroppedElements(t *testing.T) {
	buf := "["
	for i := 0; i < 50; i++ {
		if i > 0 {
			buf += ","
		}
		buf += "0"
	}
	buf += "]"
	a, err := Single(Input{Name: "doc.json", Kind: KindJSON, Bytes: []byte(buf)}, order.PriorityConfig{ArrayMaxItems: 10})
	require.NoError(t, err)
	root := a.Node(a.Root)
	assert.Equal(t, 50, root.ArrayOriginalLen)
	assert.Equal(t, 10, root.ChildrenLen)
	assert.NotNil(t, a.SampledIndicesOf(a.Root))
}

func TestIngestJSONMalformedFails(t *testing.T) {
	_, err := Single(Input{Name: "bad.json", Kind: KindJSON, Bytes: []byte(`{"a": }`)}, order.PriorityConfig{})
	require.Error(t, err)
}

func TestIngestYAMLSingleDocument(t *testing.T) {
	a, err := Single(Input{Name: "doc.yaml", Kind: KindYAML, Bytes: []byte("a: 1\nb: two\nc: true\nd: null\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	keys := a.KeysOf(a.Root)
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
	children := a.ChildrenOf(a.Root)
	assert.Equal(t, "1", a.Node(children[0]).AtomicToken)
	assert.Equal(t, "two", a.Node(children[1]).StringValue)
	assert.Equal(t, "true", a.Node(children[2]).AtomicToken)
	assert.Equal(t, arena.Null, a.Node(children[3]).Kind)
}

func TestIngestYAMLMultiDocumentWrapsInArray(t *testing.T) {
	a, err := Single(Input{Name: "doc.yaml", Kind: KindYAML, Bytes: []byte("a: 1\n---\nb: 2\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	require.Equal(t, arena.Array, a.Node(a.Root).Kind)
	assert.Len(t, a.ChildrenOf(a.Root), 2)
}

func TestIngestYAMLAliasRendersFixedLiteral(t *testing.T) {
	a, err := Single(Input{Name: "doc.yaml", Kind: KindYAML, Bytes: []byte("base: &b\n  x: 1\nuse: *b\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	children := a.ChildrenOf(a.Root)
	keys := a.KeysOf(a.Root)
	var useIdx int
	for i, k := range keys {
		if k == "use" {
			useIdx = i
		}
	}
	assert.Equal(t, arena.String, a.Node(children[useIdx]).Kind)
	assert.Equal(t, "*alias", a.Node(children[useIdx]).StringValue)
}

func TestIngestYAMLComplexKeyStringifiesToComplexLiteral(t *testing.T) {
	a, err := Single(Input{Name: "doc.yaml", Kind: KindYAML, Bytes: []byte("? [1, 2]\n: v\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	keys := a.KeysOf(a.Root)
	assert.Equal(t, []string{"<complex>"}, keys)
}

func TestIngestTextPlainModeLinesAreStringLeaves(t *testing.T) {
	a, err := Single(Input{Name: "notes.txt", Kind: KindText, TextMode: ModePlain, Bytes: []byte("line one\nline two\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	children := a.ChildrenOf(a.Root)
	require.Len(t, children, 2)
	assert.Equal(t, arena.String, a.Node(children[0]).Kind)
	assert.Equal(t, "line one", a.Node(children[0]).StringValue)
}

func TestIngestTextCodeModeLinesAreCodeLineLeaves(t *testing.T) {
	a, err := Single(Input{Name: "main.go", Kind: KindText, Bytes: []byte("package main\n\nfunc main() {}\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	children := a.ChildrenOf(a.Root)
	require.Len(t, children, 3)
	for _, c := range children {
		assert.Equal(t, arena.CodeLine, a.Node(c).Kind)
	}
	assert.Equal(t, "package main", a.Node(children[0]).AtomicToken)
}

func TestIngestTextAutoModeDetectsPlainWhenExtensionUnknown(t *testing.T) {
	a, err := Single(Input{Name: "README", Kind: KindText, Bytes: []byte("hello\n")}, order.PriorityConfig{})
	require.NoError(t, err)
	children := a.ChildrenOf(a.Root)
	assert.Equal(t, arena.String, a.Node(children[0]).Kind)
}

func TestMergeBuildsFilesetRootKeyedByName(t *testing.T) {
	a, err := Merge([]Input{
		{Name: "a.json", Kind: KindJSON, Bytes: []byte(`{"x": 1}`)},
		{Name: "b.txt", Kind: KindText, Bytes: []byte("hi\n")},
	}, order.PriorityConfig{})
	require.NoError(t, err)
	assert.True(t, a.IsFileset)
	assert.Equal(t, []string{"a.json", "b.txt"}, a.KeysOf(a.Root))
}

func TestMergeEmptyFilesetFails(t *testing.T) {
	_, err := Merge(nil, order.PriorityConfig{})
	require.Error(t, err)
}
