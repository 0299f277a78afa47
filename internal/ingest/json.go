package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// ingestJSON parses a single JSON document into b and returns its root id.
//
// It deliberately avoids unmarshaling into map[string]interface{}, since Go
// maps have no deterministic iteration order and spec.md §4.B requires
// input order to survive ingest: object values are walked with
// json.Decoder's token stream (which reports object keys in document
// order) and recursed into via json.RawMessage, so nested structure is
// parsed lazily — an oversized array's unselected elements are never
// unmarshaled at all.
func ingestJSON(b *arena.Builder, data []byte, cfg order.PriorityConfig) (arena.NodeID, error) {
	return buildJSONValue(b, data, cfg)
}

func buildJSONValue(b *arena.Builder, raw []byte, cfg order.PriorityConfig) (arena.NodeID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return arena.NoParent, fmt.Errorf("empty JSON value")
	}
	switch trimmed[0] {
	case '{':
		return buildJSONObject(b, trimmed, cfg)
	case '[':
		return buildJSONArray(b, trimmed, cfg)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return arena.NoParent, err
		}
		return b.PushScalar(arena.String, "", s), nil
	case 't', 'f':
		return b.PushScalar(arena.Bool, string(trimmed), ""), nil
	case 'n':
		return b.PushScalar(arena.Null, "null", ""), nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return arena.NoParent, err
		}
		return b.PushScalar(arena.Number, n.String(), ""), nil
	}
}

func buildJSONObject(b *arena.Builder, raw []byte, cfg order.PriorityConfig) (arena.NodeID, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // consume '{'
		return arena.NoParent, err
	}
	var keys []string
	var children []arena.NodeID
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return arena.NoParent, err
		}
		key, _ := keyTok.(string)
		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return arena.NoParent, err
		}
		childID, err := buildJSONValue(b, rawVal, cfg)
		if err != nil {
			return arena.NoParent, err
		}
		keys = append(keys, key)
		children = append(children, childID)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return arena.NoParent, err
	}
	return b.PushObject(keys, children), nil
}

func buildJSONArray(b *arena.Builder, raw []byte, cfg order.PriorityConfig) (arena.NodeID, error) {
	var rawElems []json.RawMessage
	if err := json.Unmarshal(raw, &rawElems); err != nil {
		return arena.NoParent, err
	}
	total := len(rawElems)
	keep, sampledIndices := sampledRange(total, cfg)

	children := make([]arena.NodeID, len(keep))
	for i, idx := range keep {
		id, err := buildJSONValue(b, rawElems[idx], cfg)
		if err != nil {
			return arena.NoParent, err
		}
		children[i] = id
	}
	return b.PushArray(children, total, sampledIndices), nil
}
