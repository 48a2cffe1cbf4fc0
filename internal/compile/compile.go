// Package compile turns option token vectors into validation trees.
//
// A vector is a flat list of option words (-type, -required, ...) each
// followed by its value where the option takes one. Property vectors carry the
// property key as their first word. Values that are themselves lists
// (-properties, -items, -outkey, a -match list pattern) may be given as nested
// vectors or as brace-quoted list text.
package compile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/reoring/tjv/internal/ir"
	"github.com/reoring/tjv/internal/logging"
	"github.com/reoring/tjv/internal/pattern"
)

// DefaultMaxDepth bounds schema nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Options configures a compile run.
type Options struct {
	// MaxDepth bounds the nesting of the schema tree; <=0 uses DefaultMaxDepth.
	MaxDepth int
	// Cache supplies the compiled format expressions; nil uses a fresh cache.
	Cache  *pattern.Cache
	Logger *slog.Logger
}

// Error is a compile failure. Path holds the property keys leading to the
// failing vector, outermost first.
type Error struct {
	Path []string
	Msg  string
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Msg
	}
	return strings.Join(e.Path, "->") + "->" + e.Msg
}

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

type option struct {
	name    string
	isFlag  bool
	missing int // order in which "requires an additional argument" is reported
}

var optionTable = map[string]option{
	"-type":       {name: "-type"},
	"-required":   {name: "-required", isFlag: true},
	"-nullable":   {name: "-nullable", isFlag: true},
	"-command":    {name: "-command", missing: 1},
	"-pattern":    {name: "-pattern", missing: 2},
	"-minimum":    {name: "-minimum", missing: 3},
	"-maximum":    {name: "-maximum", missing: 4},
	"-properties": {name: "-properties", missing: 5},
	"-match":      {name: "-match", missing: 6},
	"-items":      {name: "-items", missing: 7},
	"-outkey":     {name: "-outkey", missing: 8},
}

// args is the parsed option set of one vector. A present option with a nil
// value was given as the last word without its argument.
type args struct {
	flags   map[string]bool
	values  map[string]any
	present map[string]bool
}

func (a *args) has(name string) bool { return a.present[name] }

func (a *args) value(name string) any { return a.values[name] }

func parseArgs(tokens []any) (*args, error) {
	a := &args{flags: map[string]bool{}, values: map[string]any{}, present: map[string]bool{}}
	for i := 0; i < len(tokens); i++ {
		word, isWord := tokens[i].(string)
		opt, known := optionTable[word]
		if !isWord || !known {
			return nil, errorf("unrecognized argument %q", Text(tokens[i]))
		}
		a.present[opt.name] = true
		if opt.isFlag {
			a.flags[opt.name] = true
			continue
		}
		if i+1 >= len(tokens) {
			a.values[opt.name] = nil
			continue
		}
		i++
		a.values[opt.name] = tokens[i]
	}
	return a, nil
}

type compiler struct {
	opts  Options
	cache *pattern.Cache
	log   *slog.Logger
}

// Compile compiles a root vector of options (no leading key).
func Compile(tokens []any, opts Options) (*ir.Node, error) {
	c := newCompiler(opts)
	n, err := c.node(tokens, "", false, 1)
	if err != nil {
		return nil, err
	}
	c.log.Debug("schema compiled", logging.Kind(n.Label()), slog.Int("depth", ir.Depth(n)))
	return n, nil
}

// CompileProperties compiles a list of property vectors as the properties of
// an implicit root object.
func CompileProperties(props any, opts Options) (*ir.Node, error) {
	return Compile([]any{"-type", "object", "-properties", props}, opts)
}

func newCompiler(opts Options) *compiler {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	c := &compiler{opts: opts, cache: opts.Cache, log: logging.OrDiscard(opts.Logger)}
	if c.cache == nil {
		c.cache = pattern.NewCache(pattern.WithLogger(opts.Logger))
	}
	return c
}

func (c *compiler) node(tokens []any, key string, item bool, depth int) (*ir.Node, error) {
	if depth > c.opts.MaxDepth {
		return nil, errorf("schema nesting exceeds the maximum depth of %d", c.opts.MaxDepth)
	}
	a, err := parseArgs(tokens)
	if err != nil {
		return nil, err
	}

	// -type
	rawType, ok := a.values["-type"]
	if !a.has("-type") || !ok || rawType == nil {
		return nil, errorf("required option -type is not specified or its value is missing")
	}
	typeName := Text(rawType)
	typ, ok := ir.LookupType(typeName)
	if !ok {
		return nil, errorf("bad type %q: must be %s", typeName, ir.TypeNames())
	}
	kind := typ.Kind()

	// options given without their argument
	if name := firstMissing(a); name != "" {
		return nil, errorf("%q option requires an additional argument", name)
	}

	// per-type applicability
	bad := ""
	switch {
	case a.has("-match") && typ != ir.TypeString:
		bad = "-match"
	case a.has("-pattern") && typ != ir.TypeString:
		bad = "-pattern"
	case a.has("-properties") && kind != ir.KindObject && kind != ir.KindJSON:
		bad = "-properties"
	case a.has("-minimum") && kind != ir.KindInteger && kind != ir.KindDouble:
		bad = "-minimum"
	case a.has("-maximum") && kind != ir.KindInteger && kind != ir.KindDouble:
		bad = "-maximum"
	case a.has("-items") && kind != ir.KindArray && kind != ir.KindJSON:
		bad = "-items"
	}
	if bad != "" {
		return nil, errorf("%q option is not supported for type %q", bad, typeName)
	}

	if a.has("-command") {
		for _, name := range []string{"-match", "-pattern", "-minimum", "-maximum"} {
			if a.has(name) {
				return nil, errorf("%q option is specified when a validation callback is specified", name)
			}
		}
	}

	n := &ir.Node{
		Kind:     kind,
		Type:     typ,
		Required: a.flags["-required"],
		Nullable: a.flags["-nullable"],
		Key:      key,
	}
	if item && kind != ir.KindArray {
		n.Suppressed = true
	}

	if a.has("-command") {
		cmd, err := compileCommand(Text(a.value("-command")))
		if err != nil {
			return nil, &Error{Msg: err.Error()}
		}
		n.Command = cmd
	}

	if a.has("-outkey") {
		segs, err := Vector(a.value("-outkey"))
		if err != nil || len(segs) == 0 {
			return nil, errorf("option -outkey expects a non-empty list")
		}
		n.OutKey = make([]string, len(segs))
		for i, s := range segs {
			n.OutKey[i] = Text(s)
		}
	}

	switch {
	case typ.IsFormat():
		m, src, err := c.cache.Format(typ)
		if err != nil {
			return nil, &Error{Msg: err.Error()}
		}
		n.String = &ir.StringRule{Match: ir.MatchRegexp, Pattern: src, Matcher: m}
	case kind == ir.KindString:
		if n.String, err = c.stringRule(a); err != nil {
			return nil, err
		}
	case kind == ir.KindInteger:
		if n.Integer, err = integerRule(a); err != nil {
			return nil, err
		}
	case kind == ir.KindDouble:
		if n.Double, err = doubleRule(a); err != nil {
			return nil, err
		}
	case kind == ir.KindObject:
		if a.has("-properties") {
			if n.Object, err = c.properties(a.value("-properties"), depth); err != nil {
				return nil, err
			}
		} else {
			n.Object = &ir.ObjectRule{}
		}
	case kind == ir.KindArray:
		n.Array = &ir.ArrayRule{}
		if a.has("-items") {
			if n.Array.Item, err = c.items(a.value("-items"), depth); err != nil {
				return nil, err
			}
		}
	case kind == ir.KindJSON:
		if a.has("-items") && a.has("-properties") {
			return nil, errorf("both options -items and -properties are specified, for json format only one of them can be specified")
		}
		switch {
		case a.has("-items"):
			n.Shape = ir.ShapeArray
			n.Array = &ir.ArrayRule{}
			if n.Array.Item, err = c.items(a.value("-items"), depth); err != nil {
				return nil, err
			}
		case a.has("-properties"):
			n.Shape = ir.ShapeObject
			if n.Object, err = c.properties(a.value("-properties"), depth); err != nil {
				return nil, err
			}
		}
	}

	n.Extracts = len(n.OutKey) > 0 || childExtracts(n)
	c.log.Debug("compiled node", slog.String("key", key), logging.Kind(n.Label()))
	return n, nil
}

func firstMissing(a *args) string {
	name, best := "", 0
	for opt, v := range a.values {
		if v != nil || !a.present[opt] {
			continue
		}
		o := optionTable[opt]
		if o.missing == 0 {
			continue
		}
		if best == 0 || o.missing < best {
			name, best = opt, o.missing
		}
	}
	return name
}

func childExtracts(n *ir.Node) bool {
	if n.Object != nil {
		for _, p := range n.Object.Properties {
			if p.Extracts {
				return true
			}
		}
	}
	return n.Array != nil && n.Array.Item != nil && n.Array.Item.Extracts
}

func (c *compiler) stringRule(a *args) (*ir.StringRule, error) {
	r := &ir.StringRule{Match: ir.MatchRegexp}
	if a.has("-match") {
		if !a.has("-pattern") {
			return nil, errorf("option -match is specified, but -pattern is missing")
		}
		name := Text(a.value("-match"))
		m, ok := ir.ParseMatchMode(name)
		if !ok {
			return nil, errorf("bad matching type %q: must be %s", name, ir.MatchNames())
		}
		r.Match = m
	}
	if !a.has("-pattern") {
		return r, nil
	}
	raw := a.value("-pattern")
	r.Pattern = Text(raw)
	switch r.Match {
	case ir.MatchRegexp:
		re, err := pattern.CompileRegexp(r.Pattern)
		if err != nil {
			return nil, &Error{Msg: err.Error()}
		}
		r.Matcher = re
	case ir.MatchGlob:
		g, err := pattern.CompileGlob(r.Pattern)
		if err != nil {
			return nil, &Error{Msg: err.Error()}
		}
		r.Matcher = g
	case ir.MatchList:
		words, err := Vector(raw)
		if err != nil {
			return nil, &Error{Msg: err.Error()}
		}
		r.Values = make([]string, len(words))
		for i, w := range words {
			r.Values[i] = Text(w)
		}
	}
	return r, nil
}

func integerRule(a *args) (*ir.IntegerRule, error) {
	r := &ir.IntegerRule{}
	var err error
	if a.has("-minimum") {
		if r.Min, err = parseInt(a.value("-minimum")); err != nil {
			return nil, err
		}
		r.HasMin = true
	}
	if a.has("-maximum") {
		if r.Max, err = parseInt(a.value("-maximum")); err != nil {
			return nil, err
		}
		r.HasMax = true
	}
	return r, nil
}

func doubleRule(a *args) (*ir.DoubleRule, error) {
	r := &ir.DoubleRule{}
	var err error
	if a.has("-minimum") {
		if r.Min, err = parseFloat(a.value("-minimum")); err != nil {
			return nil, err
		}
		r.HasMin = true
	}
	if a.has("-maximum") {
		if r.Max, err = parseFloat(a.value("-maximum")); err != nil {
			return nil, err
		}
		r.HasMax = true
	}
	return r, nil
}

func parseInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x == float64(int64(x)) {
			return int64(x), nil
		}
	}
	s := strings.TrimSpace(Text(v))
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errorf("expected integer but got %q", Text(v))
	}
	return i, nil
}

func parseFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(Text(v)), 64)
	if err != nil || f != f {
		return 0, errorf("expected floating-point number but got %q", Text(v))
	}
	return f, nil
}

func (c *compiler) properties(v any, depth int) (*ir.ObjectRule, error) {
	entries, err := Vector(v)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	r := &ir.ObjectRule{
		Properties: make([]*ir.Node, 0, len(entries)),
		Keys:       make([]string, 0, len(entries)),
	}
	for i, e := range entries {
		vec, err := Vector(e)
		if err != nil {
			return nil, errorf("object element #%d is malformed", i)
		}
		if len(vec) == 0 {
			return nil, errorf("object element #%d is an empty list", i)
		}
		key := Text(vec[0])
		child, err := c.node(vec[1:], key, false, depth+1)
		if err != nil {
			return nil, prefix(key, err)
		}
		r.Properties = append(r.Properties, child)
		r.Keys = append(r.Keys, key)
	}
	return r, nil
}

func (c *compiler) items(v any, depth int) (*ir.Node, error) {
	vec, err := Vector(v)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	return c.node(vec, "", true, depth+1)
}

func prefix(key string, err error) error {
	if ce, ok := err.(*Error); ok {
		return &Error{Path: append([]string{key}, ce.Path...), Msg: ce.Msg}
	}
	return &Error{Path: []string{key}, Msg: err.Error()}
}
