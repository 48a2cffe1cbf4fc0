// Package value holds the ordered mapping used for validation outcomes and
// helpers to convert decoded documents into it.
package value

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Dict is a string-keyed mapping that remembers insertion order.
// The zero value is ready to use.
type Dict struct {
	keys []string
	vals map[string]any
}

// NewDict returns an empty Dict sized for n keys.
func NewDict(n int) *Dict {
	return &Dict{keys: make([]string, 0, n), vals: make(map[string]any, n)}
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Get returns the value stored under k.
func (d *Dict) Get(k string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[k]
	return v, ok
}

// Set stores v under k. An existing key keeps its position.
func (d *Dict) Set(k string, v any) {
	if d.vals == nil {
		d.vals = make(map[string]any)
	}
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.vals[k] = v
}

// Delete removes k.
func (d *Dict) Delete(k string) {
	if _, ok := d.vals[k]; !ok {
		return
	}
	delete(d.vals, k)
	for i, key := range d.keys {
		if key == k {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// SetPath stores v under the nested key path, creating intermediate Dicts.
// An intermediate entry that is not a *Dict is replaced.
func (d *Dict) SetPath(path []string, v any) {
	if len(path) == 0 {
		return
	}
	cur := d
	for _, k := range path[:len(path)-1] {
		next, ok := cur.vals[k].(*Dict)
		if !ok {
			next = NewDict(1)
			cur.Set(k, next)
		}
		cur = next
	}
	cur.Set(path[len(path)-1], v)
}

// Range calls fn for each entry in order until fn returns false.
func (d *Dict) Range(fn func(k string, v any) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return
		}
	}
}

// Map returns a plain map copy with nested Dicts converted as well.
func (d *Dict) Map() map[string]any {
	if d == nil {
		return nil
	}
	m := make(map[string]any, len(d.keys))
	for _, k := range d.keys {
		m[k] = Plain(d.vals[k])
	}
	return m
}

// Plain converts Dicts inside v to plain maps, recursing through slices.
func Plain(v any) any {
	switch x := v.(type) {
	case *Dict:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("value: key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the entries as a YAML mapping in insertion order.
func (d *Dict) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d == nil {
		return n, nil
	}
	for _, k := range d.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(d.vals[k]); err != nil {
			return nil, fmt.Errorf("value: key %q: %w", k, err)
		}
		n.Content = append(n.Content, kn, vn)
	}
	return n, nil
}
