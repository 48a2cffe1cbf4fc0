package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a YAML node into native values: mappings become *Dict in
// document order, sequences []any, and scalars their resolved Go type (string,
// int, float64, bool or nil). Aliases are followed.
func FromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.MappingNode:
		d := NewDict(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("value: line %d: mapping key: %w", n.Content[i].Line, err)
			}
			v, err := FromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		return d, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("value: line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("value: line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

// DecodeYAML parses a YAML (or JSON) document into native values.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return FromYAML(&doc)
}
