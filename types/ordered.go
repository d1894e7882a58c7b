package types

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string keyed map that keeps the order in which keys were
// declared in the source document.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: map[string]V{}}
}

// Set stores value under key. A new key is appended, an existing key keeps
// its position.
func (m *OrderedMap[V]) Set(key string, value V) *OrderedMap[V] {
	if m.values == nil {
		m.values = map[string]V{}
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value

	return m
}

func (m *OrderedMap[V]) Get(key string) (value V, ok bool) {
	if m == nil {
		return value, false
	}

	value, ok = m.values[key]
	return
}

func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}

	return append([]string(nil), m.keys...)
}

func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Each calls fn for every entry in declaration order.
func (m *OrderedMap[V]) Each(fn func(key string, value V)) {
	if m == nil {
		return
	}

	for _, key := range m.keys {
		fn(key, m.values[key])
	}
}

func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	if node.Kind != yaml.MappingNode {
		return errors.Newf("line %d: expected a mapping, got %s", node.Line, kindName(node.Kind))
	}

	m.keys = nil
	m.values = make(map[string]V, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var value V
		if err := valueNode.Decode(&value); err != nil {
			return errors.Wrapf(err, "decoding %q", keyNode.Value)
		}

		m.Set(keyNode.Value, value)
	}

	return nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}

	return "unknown node"
}
