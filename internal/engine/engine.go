// Package engine evaluates values against compiled validation trees.
//
// One walker serves both input forms: Go values seen through Native and
// parsed JSON text seen through JSONValue. Diagnostics accumulate; the walk
// never stops at the first failure.
package engine

import (
	"github.com/goccy/go-json"

	"github.com/reoring/tjv/internal/ir"
	"github.com/reoring/tjv/internal/message"
	"github.com/reoring/tjv/value"
)

// DefaultMaxDepth bounds JSON text nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Options configures a validation pass.
type Options struct {
	// MaxDepth bounds the nesting of JSON text; <=0 uses DefaultMaxDepth.
	MaxDepth int
}

// Report is the result of a pass. Outcome is the normalized value when the
// pass succeeded, or the extraction collected so far (possibly nil) when it
// failed.
type Report struct {
	Messages []string
	Details  []message.Detail
	Outcome  any
}

// Failed reports whether the pass produced any diagnostic.
func (r Report) Failed() bool { return len(r.Details) > 0 }

// Evaluate validates a Go value against n.
func Evaluate(n *ir.Node, v any, opts Options) Report {
	return run(n, Native(v), opts)
}

// EvaluateJSON validates JSON text against n. Text that does not parse is a
// type mismatch at the root. A root json node receives the text itself.
func EvaluateJSON(n *ir.Node, text []byte, opts Options) Report {
	if n.Kind == ir.KindJSON {
		return run(n, Native(string(text)), opts)
	}
	w := newWalker(opts)
	tree, err := ParseJSON(text, w.maxDepth)
	if err != nil {
		w.b.Type("", n.Label())
		return w.report(n, nil, false, nil)
	}
	w.doc = text
	return runWith(w, n, JSONValue(tree))
}

func run(n *ir.Node, v Value, opts Options) Report {
	return runWith(newWalker(opts), n, v)
}

func runWith(w *walker, n *ir.Node, v Value) Report {
	sink := value.NewDict(0)
	out, ok := w.walk(n, v, Path{}, sink)
	return w.report(n, out, ok, sink)
}

type walker struct {
	b        message.Builder
	maxDepth int

	// doc is the JSON text the current JSON view was parsed from; its root
	// sits docBase segments deep in the walk path.
	doc     []byte
	docBase int
}

func newWalker(opts Options) *walker {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &walker{maxDepth: opts.MaxDepth}
}

func (w *walker) report(n *ir.Node, out any, ok bool, sink *value.Dict) Report {
	r := Report{Messages: w.b.Messages, Details: w.b.Details}
	switch {
	case !ok:
		if sink != nil && sink.Len() > 0 {
			r.Outcome = sink
		}
	case n.Extracts && !listExtraction(n):
		r.Outcome = sink
	default:
		r.Outcome = out
	}
	return r
}

// listExtraction reports whether n emits per-item extraction dicts as its own
// outcome without redirecting them through -outkey.
func listExtraction(n *ir.Node) bool {
	return n.Kind == ir.KindArray && len(n.OutKey) == 0 && itemExtracts(n)
}

func itemExtracts(n *ir.Node) bool {
	return n.Array != nil && n.Array.Item != nil && n.Array.Item.Extracts
}

// walk validates v against n and returns n's outcome. ok is false when the
// subtree produced a diagnostic; such a subtree contributes no outcome.
func (w *walker) walk(n *ir.Node, v Value, p Path, sink *value.Dict) (any, bool) {
	mark := w.b.Len()
	out := w.check(n, v, p, sink)
	if w.b.Len() != mark {
		return nil, false
	}
	if n.Command != nil {
		pass, err := n.Command.Eval(value.Plain(out))
		switch {
		case err != nil:
			w.b.Value(p.String(), message.CommandFailed(err))
			return nil, false
		case !pass:
			w.b.Value(p.String(), message.Command(n.Command.Source()))
			return nil, false
		}
	}
	if sink != nil {
		switch {
		case len(n.OutKey) > 0:
			sink.SetPath(n.OutKey, out)
		case n.Key != "" && listExtraction(n):
			sink.Set(n.Key, out)
		}
	}
	return out, true
}

func (w *walker) check(n *ir.Node, v Value, p Path, sink *value.Dict) any {
	if n.Nullable && v.IsNull() {
		return nil
	}
	switch n.Kind {
	case ir.KindString:
		return w.checkString(n, v, p)
	case ir.KindInteger:
		return w.checkInteger(n, v, p)
	case ir.KindDouble:
		return w.checkDouble(n, v, p)
	case ir.KindBoolean:
		b, ok := v.Bool()
		if !ok {
			w.b.Type(p.String(), n.Label())
			return nil
		}
		return b
	case ir.KindObject:
		return w.checkObject(n, v, p, sink, n.Label())
	case ir.KindArray:
		return w.checkArray(n, v, p, sink, n.Label())
	case ir.KindJSON:
		return w.checkJSON(n, v, p, sink)
	}
	return nil
}

func (w *walker) checkString(n *ir.Node, v Value, p Path) any {
	s, ok := v.String()
	if !ok {
		w.b.Type(p.String(), n.Label())
		return nil
	}
	r := n.String
	if r == nil {
		return v.Raw()
	}
	switch {
	case r.Match == ir.MatchList:
		for _, allowed := range r.Values {
			if s == allowed {
				return v.Raw()
			}
		}
		w.b.Value(p.String(), message.List(r.Pattern))
	case r.Matcher == nil || r.Matcher.Match(s):
		return v.Raw()
	case n.Type.IsFormat():
		w.b.Type(p.String(), n.Label())
	case r.Match == ir.MatchGlob:
		w.b.Value(p.String(), message.Glob(r.Pattern))
	default:
		w.b.Value(p.String(), message.Regexp(r.Pattern))
	}
	return nil
}

func (w *walker) checkInteger(n *ir.Node, v Value, p Path) any {
	i, ok := v.Int()
	if !ok {
		w.b.Type(p.String(), n.Label())
		return nil
	}
	if r := n.Integer; r != nil {
		if r.HasMin && i < r.Min {
			w.b.Value(p.String(), message.MinInt(r.Min))
		} else if r.HasMax && i > r.Max {
			w.b.Value(p.String(), message.MaxInt(r.Max))
		}
	}
	return i
}

func (w *walker) checkDouble(n *ir.Node, v Value, p Path) any {
	f, ok := v.Float()
	if !ok {
		w.b.Type(p.String(), n.Label())
		return nil
	}
	if r := n.Double; r != nil {
		if r.HasMin && f < r.Min {
			w.b.Value(p.String(), message.MinFloat(r.Min))
		} else if r.HasMax && f > r.Max {
			w.b.Value(p.String(), message.MaxFloat(r.Max))
		}
	}
	return f
}

func (w *walker) checkObject(n *ir.Node, v Value, p Path, sink *value.Dict, label string) any {
	obj, ok := v.Object()
	if !ok {
		w.b.Type(p.String(), label)
		return nil
	}
	var outs map[string]any
	if n.Object != nil {
		outs = make(map[string]any, len(n.Object.Properties))
		for _, child := range n.Object.Properties {
			cv, present := obj.Get(child.Key)
			if !present {
				if child.Required {
					w.b.Required(p.String(), child.Key)
				}
				continue
			}
			if co, cok := w.walk(child, cv, p.Field(child.Key), sink); cok {
				outs[child.Key] = co
			}
		}
	}
	keys := obj.Keys()
	out := value.NewDict(len(keys))
	for _, k := range keys {
		if co, ok := outs[k]; ok {
			out.Set(k, co)
			continue
		}
		cv, _ := obj.Get(k)
		out.Set(k, cv.Raw())
	}
	return out
}

func (w *walker) checkArray(n *ir.Node, v Value, p Path, sink *value.Dict, label string) any {
	items, ok := v.Array()
	if !ok {
		w.b.Type(p.String(), label)
		return nil
	}
	var item *ir.Node
	if n.Array != nil {
		item = n.Array.Item
	}
	if item == nil {
		return v.Raw()
	}
	if item.Extracts {
		out := []any{}
		for i, e := range items {
			each := value.NewDict(0)
			w.walk(item, e, p.Index(i), each)
			if each.Len() > 0 {
				out = append(out, each)
			}
		}
		return out
	}
	out := make([]any, len(items))
	for i, e := range items {
		out[i], _ = w.walk(item, e, p.Index(i), sink)
	}
	return out
}

func (w *walker) checkJSON(n *ir.Node, v Value, p Path, sink *value.Dict) any {
	var payload Value
	var out any
	if _, isText := v.Raw().(string); v.JSON() && !isText {
		// a container inside parsed JSON text is checked in place
		payload, out = v, w.rawText(v, p)
	} else {
		text, ok := v.Text()
		if !ok {
			w.b.Type(p.String(), n.Label())
			return nil
		}
		tree, err := ParseJSON([]byte(text), w.maxDepth)
		if err != nil {
			w.b.Type(p.String(), n.Label())
			return nil
		}
		payload, out = JSONValue(tree), text
		doc, base := w.doc, w.docBase
		w.doc, w.docBase = []byte(text), p.Depth()
		defer func() { w.doc, w.docBase = doc, base }()
	}
	switch n.Shape {
	case ir.ShapeObject:
		w.checkObject(n, payload, p, sink, ir.KindObject.String())
	case ir.ShapeArray:
		mark := w.b.Len()
		list := w.checkArray(n, payload, p, sink, ir.KindArray.String())
		// per-item extractions of an embedded array land under the node's key
		if itemExtracts(n) && sink != nil && n.Key != "" && w.b.Len() == mark {
			sink.Set(n.Key, list)
		}
	}
	return out
}

// rawText returns the verbatim text of a container found in parsed JSON text.
func (w *walker) rawText(v Value, p Path) any {
	if w.doc != nil && p.Depth() >= w.docBase {
		if raw, ok := rawValue(w.doc, p.parts[w.docBase:]); ok {
			return string(raw)
		}
	}
	b, err := json.Marshal(v.Raw())
	if err != nil {
		return v.Raw()
	}
	return string(b)
}
