package engine

import (
	"strconv"
	"strings"
)

// Path is an immutable chain of data path segments. Field and Index return a
// new Path and never modify the receiver, so a walk may hand the same parent
// to every child.
type Path struct {
	parts []segment
}

type segment struct {
	key   string
	index int // -1 for key segments
}

// Field appends a key segment. An empty name adds nothing.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	return Path{parts: append(append([]segment{}, p.parts...), segment{key: name, index: -1})}
}

// Index appends an array index segment.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]segment{}, p.parts...), segment{index: i})}
}

// String renders the path as "user.addresses[2].zip". The root renders empty.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.parts {
		if s.index >= 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p.parts {
		b.WriteByte('/')
		if s.index >= 0 {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.parts) }
