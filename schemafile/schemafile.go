// Package schemafile reads schema documents from YAML or JSON files.
//
// Two document forms are accepted. The token-list form is a sequence of
// property vectors, or a single string of list text:
//
//	- [name, -type, string, -required]
//	- [tags, -type, array, -items, [-type, string]]
//
// The mapping form names each property and spells options without the dash:
//
//	name: {type: string, required: true}
//	tags: {type: array, items: {type: string}}
//
// Both forms produce the property vectors of a root object, in document order.
package schemafile

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/tjv/internal/compile"
)

// ErrEmpty is returned for a document with no content.
var ErrEmpty = errors.New("schemafile: empty document")

// Load parses a schema document into property vectors.
func Load(data []byte) ([]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	root := resolve(doc.Content[0])
	switch root.Kind {
	case yaml.SequenceNode:
		out := make([]any, 0, len(root.Content))
		for _, c := range root.Content {
			v, err := tokens(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return ParseList(root.Value)
	case yaml.MappingNode:
		return properties(root)
	}
	return nil, lineErr(root, "unsupported document")
}

// LoadFile reads and parses the schema document at path.
func LoadFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	props, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return props, nil
}

// ParseList parses brace-quoted list text such as
// "{name -type string} {age -type integer}".
func ParseList(text string) ([]any, error) {
	v, err := compile.ParseList(text)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return v, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// tokens converts a token-list node: scalars keep their literal text.
func tokens(n *yaml.Node) (any, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := tokens(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, lineErr(n, "mapping inside a token list")
}

func properties(n *yaml.Node) ([]any, error) {
	out := make([]any, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		body := resolve(n.Content[i+1])
		if body.Kind != yaml.MappingNode {
			return nil, lineErr(body, fmt.Sprintf("property %q must be a mapping of options", key.Value))
		}
		vec, err := options(body)
		if err != nil {
			return nil, fmt.Errorf("%s->%w", key.Value, err)
		}
		out = append(out, append([]any{key.Value}, vec...))
	}
	return out, nil
}

// options converts one mapping of options into an option vector.
func options(n *yaml.Node) ([]any, error) {
	var vec []any
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := resolve(n.Content[i]).Value
		v := resolve(n.Content[i+1])
		switch name {
		case "required", "nullable":
			on, err := flag(v)
			if err != nil {
				return nil, err
			}
			if on {
				vec = append(vec, "-"+name)
			}
		case "type", "match", "minimum", "maximum", "command":
			if v.Kind != yaml.ScalarNode {
				return nil, lineErr(v, fmt.Sprintf("option %q expects a scalar", name))
			}
			vec = append(vec, "-"+name, v.Value)
		case "pattern", "outkey":
			t, err := tokens(v)
			if err != nil {
				return nil, err
			}
			vec = append(vec, "-"+name, t)
		case "properties":
			if v.Kind != yaml.MappingNode {
				return nil, lineErr(v, `option "properties" expects a mapping`)
			}
			props, err := properties(v)
			if err != nil {
				return nil, err
			}
			vec = append(vec, "-properties", props)
		case "items":
			if v.Kind != yaml.MappingNode {
				return nil, lineErr(v, `option "items" expects a mapping`)
			}
			item, err := options(v)
			if err != nil {
				return nil, err
			}
			vec = append(vec, "-items", item)
		default:
			return nil, lineErr(n.Content[i], fmt.Sprintf("unknown option %q", name))
		}
	}
	return vec, nil
}

func flag(n *yaml.Node) (bool, error) {
	if n.Kind == yaml.ScalarNode {
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return b, nil
		}
	}
	return false, lineErr(n, "expected a boolean")
}

func lineErr(n *yaml.Node, msg string) error {
	return fmt.Errorf("line %d: %s", n.Line, msg)
}
