package ingest

import (
	"bytes"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/order"
)

// ingestYAML parses one or more YAML documents into b and returns the root
// id: a single document's root directly, or a synthetic array wrapping
// every document when more than one is present (spec.md §4.B.2). It uses
// yaml.v3's low-level Node API rather than unmarshaling into
// map[string]interface{}/[]interface{}, since only Node preserves mapping
// key order and distinguishes scalar tags (needed for key stringification)
// and alias nodes (rendered as a fixed literal, never dereferenced).
func ingestYAML(b *arena.Builder, data []byte, cfg order.PriorityConfig) (arena.NodeID, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return arena.NoParent, err
		}
		docs = append(docs, &doc)
	}

	if len(docs) == 0 {
		return b.PushScalar(arena.Null, "null", ""), nil
	}
	if len(docs) == 1 {
		return buildYAMLValue(b, unwrapDocument(docs[0]), cfg)
	}

	total := len(docs)
	keep, sampledIndices := sampledRange(total, cfg)
	children := make([]arena.NodeID, len(keep))
	for i, idx := range keep {
		id, err := buildYAMLValue(b, unwrapDocument(docs[idx]), cfg)
		if err != nil {
			return arena.NoParent, err
		}
		children[i] = id
	}
	return b.PushArray(children, total, sampledIndices), nil
}

// unwrapDocument peels the yaml.DocumentNode wrapper Decode hands back,
// exposing the document's actual root value node.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		return n.Content[0]
	}
	return n
}

func buildYAMLValue(b *arena.Builder, n *yaml.Node, cfg order.PriorityConfig) (arena.NodeID, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return buildYAMLMapping(b, n, cfg)
	case yaml.SequenceNode:
		return buildYAMLSequence(b, n, cfg)
	case yaml.AliasNode:
		// Deterministic, never dereferenced (spec.md §4.B.2).
		return b.PushScalar(arena.String, "", "*alias"), nil
	case yaml.ScalarNode:
		return buildYAMLScalar(b, n)
	default:
		return b.PushScalar(arena.Null, "null", ""), nil
	}
}

func buildYAMLMapping(b *arena.Builder, n *yaml.Node, cfg order.PriorityConfig) (arena.NodeID, error) {
	keys := make([]string, 0, len(n.Content)/2)
	children := make([]arena.NodeID, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		childID, err := buildYAMLValue(b, valNode, cfg)
		if err != nil {
			return arena.NoParent, err
		}
		keys = append(keys, stringifyYAMLKey(keyNode))
		children = append(children, childID)
	}
	return b.PushObject(keys, children), nil
}

func buildYAMLSequence(b *arena.Builder, n *yaml.Node, cfg order.PriorityConfig) (arena.NodeID, error) {
	total := len(n.Content)
	keep, sampledIndices := sampledRange(total, cfg)
	children := make([]arena.NodeID, len(keep))
	for i, idx := range keep {
		id, err := buildYAMLValue(b, n.Content[idx], cfg)
		if err != nil {
			return arena.NoParent, err
		}
		children[i] = id
	}
	return b.PushArray(children, total, sampledIndices), nil
}

func buildYAMLScalar(b *arena.Builder, n *yaml.Node) (arena.NodeID, error) {
	switch n.Tag {
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return arena.NoParent, err
		}
		return b.PushScalar(arena.Bool, strconv.FormatBool(v), ""), nil
	case "!!null":
		return b.PushScalar(arena.Null, "null", ""), nil
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return arena.NoParent, err
		}
		return b.PushScalar(arena.Number, strconv.FormatInt(v, 10), ""), nil
	case "!!float":
		return b.PushScalar(arena.Number, n.Value, ""), nil
	default: // "!!str" and anything else: treat as string content.
		return b.PushScalar(arena.String, "", n.Value), nil
	}
}

// stringifyYAMLKey applies spec.md §4.B.2's fixed rules: strings and real
// numbers pass through as-is; integers/booleans/null convert to their
// canonical lexeme; composite keys (mappings, sequences, aliases) map to
// the literal "<complex>".
func stringifyYAMLKey(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!str", "!!float":
			return n.Value
		case "!!int":
			var v int64
			if err := n.Decode(&v); err == nil {
				return strconv.FormatInt(v, 10)
			}
			return n.Value
		case "!!bool":
			var v bool
			if err := n.Decode(&v); err == nil {
				return strconv.FormatBool(v)
			}
			return n.Value
		case "!!null":
			return "null"
		default:
			return n.Value
		}
	default: // MappingNode, SequenceNode, AliasNode
		return "<complex>"
	}
}
