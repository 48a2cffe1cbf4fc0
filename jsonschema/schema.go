package jsonschema

import (
	"errors"
	"strconv"

	"github.com/reoring/tjv/internal/ir"
)

// Schema is a minimal JSON Schema representation used for export.
// Type is a string, or a [type, "null"] pair for nullable nodes.
type Schema struct {
	// Core
	Type        any    `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`

	// String
	Pattern          string   `json:"pattern,omitempty"`
	Enum             []string `json:"enum,omitempty"`
	ContentMediaType string   `json:"contentMediaType,omitempty"`
	ContentSchema    *Schema  `json:"contentSchema,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Extensions
	Command string   `json:"x-command,omitempty"`
	OutKey  []string `json:"x-outkey,omitempty"`
}

// ErrNilNode is returned by FromNode for a nil tree.
var ErrNilNode = errors.New("jsonschema: nil node")

// FromNode projects a compiled validation tree. Rules without a JSON Schema
// keyword (glob patterns) are described in Description.
func FromNode(n *ir.Node) (*Schema, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	return project(n), nil
}

func project(n *ir.Node) *Schema {
	s := &Schema{Command: commandSource(n), OutKey: n.OutKey}
	name := ""
	switch n.Kind {
	case ir.KindObject:
		name = "object"
		object(s, n.Object)
	case ir.KindArray:
		name = "array"
		if n.Array != nil && n.Array.Item != nil {
			s.Items = project(n.Array.Item)
		}
	case ir.KindString:
		name = "string"
		str(s, n)
	case ir.KindInteger:
		name = "integer"
		if r := n.Integer; r != nil {
			if r.HasMin {
				s.Minimum = float(float64(r.Min))
			}
			if r.HasMax {
				s.Maximum = float(float64(r.Max))
			}
		}
	case ir.KindDouble:
		name = "number"
		if r := n.Double; r != nil {
			if r.HasMin {
				s.Minimum = float(r.Min)
			}
			if r.HasMax {
				s.Maximum = float(r.Max)
			}
		}
	case ir.KindBoolean:
		name = "boolean"
	case ir.KindJSON:
		name = "string"
		s.ContentMediaType = "application/json"
		switch n.Shape {
		case ir.ShapeObject:
			s.ContentSchema = &Schema{Type: "object"}
			object(s.ContentSchema, n.Object)
		case ir.ShapeArray:
			s.ContentSchema = &Schema{Type: "array"}
			if n.Array != nil && n.Array.Item != nil {
				s.ContentSchema.Items = project(n.Array.Item)
			}
		}
	}
	if n.Nullable {
		s.Type = []string{name, "null"}
	} else {
		s.Type = name
	}
	return s
}

func object(s *Schema, r *ir.ObjectRule) {
	if r == nil || len(r.Properties) == 0 {
		return
	}
	s.Properties = make(map[string]*Schema, len(r.Properties))
	for _, p := range r.Properties {
		s.Properties[p.Key] = project(p)
		if p.Required {
			s.Required = append(s.Required, p.Key)
		}
	}
}

func str(s *Schema, n *ir.Node) {
	if n.Type.IsFormat() {
		s.Format = string(n.Type)
		return
	}
	r := n.String
	if r == nil || r.Pattern == "" {
		return
	}
	switch r.Match {
	case ir.MatchRegexp:
		s.Pattern = r.Pattern
	case ir.MatchList:
		s.Enum = append([]string{}, r.Values...)
	case ir.MatchGlob:
		s.Description = "glob " + strconv.Quote(r.Pattern)
	}
}

func commandSource(n *ir.Node) string {
	if n.Command == nil {
		return ""
	}
	return n.Command.Source()
}

func float(f float64) *float64 { return &f }
