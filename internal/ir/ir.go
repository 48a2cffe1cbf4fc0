// Package ir defines the compiled validation tree shared by the compiler and
// the evaluator. This package is internal and not part of the public API.
// A Node is never mutated after the compiler returns it, so a tree may be
// read by any number of goroutines at once.
package ir

import "strings"

// Kind identifies the evaluation rule family of a node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindInteger
	KindDouble
	KindBoolean
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Type is the surface type name a schema was declared with. Semantic string
// formats keep their own name here while evaluating as KindString.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeDouble  Type = "double"
	TypeBoolean Type = "boolean"
	TypeJSON    Type = "json"

	TypeEmail                  Type = "email"
	TypeURI                    Type = "uri"
	TypeURITemplate            Type = "uri-template"
	TypeURL                    Type = "url"
	TypeHostname               Type = "hostname"
	TypeIPv4                   Type = "ipv4"
	TypeIPv6                   Type = "ipv6"
	TypeUUID                   Type = "uuid"
	TypeDuration               Type = "duration"
	TypeJSONPointer            Type = "json-pointer"
	TypeJSONPointerURIFragment Type = "json-pointer-uri-fragment"
	TypeRelativeJSONPointer    Type = "relative-json-pointer"
)

var typeKinds = map[Type]Kind{
	TypeObject:                 KindObject,
	TypeArray:                  KindArray,
	TypeString:                 KindString,
	TypeInteger:                KindInteger,
	TypeDouble:                 KindDouble,
	TypeBoolean:                KindBoolean,
	TypeJSON:                   KindJSON,
	TypeEmail:                  KindString,
	TypeURI:                    KindString,
	TypeURITemplate:            KindString,
	TypeURL:                    KindString,
	TypeHostname:               KindString,
	TypeIPv4:                   KindString,
	TypeIPv6:                   KindString,
	TypeUUID:                   KindString,
	TypeDuration:               KindString,
	TypeJSONPointer:            KindString,
	TypeJSONPointerURIFragment: KindString,
	TypeRelativeJSONPointer:    KindString,
}

// typeOrder lists the accepted type names for error messages.
var typeOrder = []Type{
	TypeObject, TypeArray, "list", TypeString, TypeInteger, TypeJSON, TypeBoolean, TypeDouble,
	TypeEmail, TypeURI, TypeURITemplate, TypeURL, TypeHostname, TypeIPv4, TypeIPv6, TypeUUID,
	TypeDuration, TypeJSONPointer, TypeJSONPointerURIFragment, TypeRelativeJSONPointer,
}

// LookupType resolves a declared type name. "list" is an alias of "array".
func LookupType(name string) (Type, bool) {
	if name == "list" {
		return TypeArray, true
	}
	t := Type(name)
	if _, ok := typeKinds[t]; !ok {
		return "", false
	}
	return t, true
}

// TypeNames renders the accepted type names as `a, b, or c`.
func TypeNames() string {
	names := make([]string, len(typeOrder))
	for i, t := range typeOrder {
		names[i] = string(t)
	}
	return names2text(names)
}

// Kind returns the evaluation kind for t.
func (t Type) Kind() Kind { return typeKinds[t] }

// IsFormat reports whether t is a built-in semantic string format.
func (t Type) IsFormat() bool { return t.Kind() == KindString && t != TypeString }

// MatchMode selects how a string pattern is applied.
type MatchMode int

const (
	MatchRegexp MatchMode = iota
	MatchGlob
	MatchList
)

var matchOrder = []string{"glob", "regexp", "list"}

// ParseMatchMode resolves a -match option value.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch s {
	case "glob":
		return MatchGlob, true
	case "regexp":
		return MatchRegexp, true
	case "list":
		return MatchList, true
	}
	return MatchRegexp, false
}

// MatchNames renders the accepted matching types as `a, b, or c`.
func MatchNames() string { return names2text(matchOrder) }

func (m MatchMode) String() string {
	switch m {
	case MatchGlob:
		return "glob"
	case MatchList:
		return "list"
	default:
		return "regexp"
	}
}

// JSONShape tells which container payload a json node validates against.
type JSONShape int

const (
	ShapeNone JSONShape = iota
	ShapeObject
	ShapeArray
)

// Matcher is a compiled pattern (regular expression or glob).
type Matcher interface {
	Match(s string) bool
}

// Command is a compiled validation expression attached with -command.
type Command interface {
	Source() string
	Eval(value any) (bool, error)
}

// Node is one compiled validation rule. Exactly one of the rule pointers is
// set for kinds that carry options: Object for objects and object-shaped json,
// Array for arrays and array-shaped json, and String/Integer/Double for the
// matching scalars.
type Node struct {
	Kind     Kind
	Type     Type
	Required bool
	Nullable bool

	// Key is the property name in the parent object; empty for the root and
	// for item nodes.
	Key string
	// Suppressed marks item nodes that add no key segment to paths.
	Suppressed bool
	// OutKey is the extraction path of the node's accepted value.
	OutKey []string
	// Extracts is true when OutKey is set on this node or any descendant.
	Extracts bool

	Command Command
	Shape   JSONShape

	String  *StringRule
	Integer *IntegerRule
	Double  *DoubleRule
	Object  *ObjectRule
	Array   *ArrayRule
}

// StringRule holds string matching options. A nil Matcher with MatchList
// uses Values; a rule with empty Pattern accepts any string.
type StringRule struct {
	Match   MatchMode
	Pattern string
	Values  []string
	Matcher Matcher
}

// IntegerRule holds optional inclusive bounds.
type IntegerRule struct {
	Min, Max       int64
	HasMin, HasMax bool
}

// DoubleRule holds optional inclusive bounds.
type DoubleRule struct {
	Min, Max       float64
	HasMin, HasMax bool
}

// ObjectRule lists declared properties in declaration order. Keys mirrors the
// property names for fast existence checks.
type ObjectRule struct {
	Properties []*Node
	Keys       []string
}

// ArrayRule describes every element with Item; a nil Item accepts any element.
type ArrayRule struct {
	Item *Node
}

// Label is the type name used in "should be ..." diagnostics.
func (n *Node) Label() string { return string(n.Type) }

// Property returns the declared child for key.
func (n *Node) Property(key string) (*Node, bool) {
	if n.Object == nil {
		return nil, false
	}
	for i, k := range n.Object.Keys {
		if k == key {
			return n.Object.Properties[i], true
		}
	}
	return nil, false
}

// Depth returns the nesting depth of the tree rooted at n (a leaf is 1).
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	d := 0
	if n.Object != nil {
		for _, c := range n.Object.Properties {
			if cd := Depth(c); cd > d {
				d = cd
			}
		}
	}
	if n.Array != nil {
		if cd := Depth(n.Array.Item); cd > d {
			d = cd
		}
	}
	return d + 1
}

func names2text(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
