package engine

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/tjv/value"
)

// Value is the evaluator's read access to one input value. The native and
// JSON implementations differ in which Go values satisfy each predicate.
type Value interface {
	IsNull() bool
	Object() (Object, bool)
	Array() ([]Value, bool)
	String() (string, bool)
	Int() (int64, bool)
	Float() (float64, bool)
	Bool() (bool, bool)
	// Text returns the JSON text carried by the value, for json nodes.
	Text() (string, bool)
	// Raw returns the underlying Go value.
	Raw() any
	// JSON reports whether the value comes from parsed JSON text.
	JSON() bool
}

// Object is a keyed container in its natural key order.
type Object interface {
	Keys() []string
	Get(key string) (Value, bool)
}

// ---- native values ----

// Native wraps a Go value: maps, structs and *value.Dict are objects, slices
// and arrays (other than byte slices) are arrays, and scalars are coerced the
// way command line text would be. nil is never a null.
func Native(v any) Value { return nativeValue{v: v} }

type nativeValue struct{ v any }

func (n nativeValue) Raw() any     { return n.v }
func (n nativeValue) JSON() bool   { return false }
func (n nativeValue) IsNull() bool { return false }

func (n nativeValue) Object() (Object, bool) {
	switch x := n.v.(type) {
	case *value.Dict:
		if x == nil {
			return nil, false
		}
		return dictObject{d: x, wrap: Native}, true
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return mapObject{keys: keys, get: func(k string) (any, bool) { v, ok := x[k]; return v, ok }}, true
	}
	rv := reflect.ValueOf(n.v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return mapObject{keys: keys, get: func(k string) (any, bool) {
			mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			return mv.Interface(), true
		}}, true
	case reflect.Struct:
		return structObject(rv), true
	}
	return nil, false
}

func (n nativeValue) Array() ([]Value, bool) {
	if x, ok := n.v.([]any); ok {
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = Native(e)
		}
		return out, true
	}
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	out := make([]Value, rv.Len())
	for i := range out {
		out[i] = Native(rv.Index(i).Interface())
	}
	return out, true
}

func (n nativeValue) String() (string, bool) { return scalarText(n.v) }

func (n nativeValue) Text() (string, bool) {
	switch x := n.v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case json.RawMessage:
		return string(x), true
	}
	rv := reflect.ValueOf(n.v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return string(rv.Bytes()), true
	}
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func (n nativeValue) Int() (int64, bool) {
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	case reflect.String:
		return parseInt(rv.String())
	}
	if x, ok := n.v.([]byte); ok {
		return parseInt(string(x))
	}
	return 0, false
}

func (n nativeValue) Float() (float64, bool) {
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	case reflect.String:
		return parseFloat(rv.String())
	}
	if x, ok := n.v.([]byte); ok {
		return parseFloat(string(x))
	}
	return 0, false
}

func (n nativeValue) Bool() (bool, bool) {
	if x, ok := n.v.([]byte); ok {
		return parseBool(string(x))
	}
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.String:
		return parseBool(rv.String())
	}
	if f, ok := n.Float(); ok {
		return f != 0, true
	}
	return false, false
}

// scalarText renders scalars in their string form; containers and nil have none.
func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case json.Number:
		return string(x), true
	case bool:
		return strconv.FormatBool(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}

// parseInt accepts decimal text and 0x/0o/0b prefixed text with an optional sign.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	body := strings.TrimLeft(s, "+-")
	base := 10
	if len(body) > 2 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base = 0
		}
	}
	i, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	if f, ok := parseFloat(s); ok {
		return f != 0, true
	}
	return false, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

type dictObject struct {
	d    *value.Dict
	wrap func(any) Value
}

func (o dictObject) Keys() []string { return o.d.Keys() }

func (o dictObject) Get(k string) (Value, bool) {
	v, ok := o.d.Get(k)
	if !ok {
		return nil, false
	}
	return o.wrap(v), true
}

type mapObject struct {
	keys []string
	get  func(string) (any, bool)
}

func (o mapObject) Keys() []string { return o.keys }

func (o mapObject) Get(k string) (Value, bool) {
	v, ok := o.get(k)
	if !ok {
		return nil, false
	}
	return Native(v), true
}

// structObject exposes exported fields under their resolved keys, in field order.
func structObject(rv reflect.Value) Object {
	t := rv.Type()
	keys := make([]string, 0, t.NumField())
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		k := ResolveStructKey(sf)
		if k == "-" {
			continue
		}
		if _, dup := idx[k]; !dup {
			keys = append(keys, k)
		}
		idx[k] = i
	}
	return mapObject{keys: keys, get: func(k string) (any, bool) {
		i, ok := idx[k]
		if !ok {
			return nil, false
		}
		return rv.Field(i).Interface(), true
	}}
}

// ResolveStructKey returns the key a struct field is validated under.
// Priority: tjv:"name=..." > json tag name > field name; "-" skips the field.
func ResolveStructKey(sf reflect.StructField) string {
	if tt := sf.Tag.Get("tjv"); tt != "" {
		for _, p := range strings.Split(tt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// ---- parsed JSON values ----

// JSONValue wraps a tree produced by ParseJSON.
func JSONValue(v any) Value { return jsonValue{v: v} }

type jsonValue struct{ v any }

func (j jsonValue) Raw() any     { return j.v }
func (j jsonValue) JSON() bool   { return true }
func (j jsonValue) IsNull() bool { return j.v == nil }

func (j jsonValue) Object() (Object, bool) {
	d, ok := j.v.(*value.Dict)
	if !ok || d == nil {
		return nil, false
	}
	return dictObject{d: d, wrap: JSONValue}, true
}

func (j jsonValue) Array() ([]Value, bool) {
	arr, ok := j.v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(arr))
	for i, e := range arr {
		out[i] = JSONValue(e)
	}
	return out, true
}

func (j jsonValue) String() (string, bool) {
	s, ok := j.v.(string)
	return s, ok
}

// Text of a parsed JSON value is its string content; other values were
// already parsed and are checked in place.
func (j jsonValue) Text() (string, bool) { return j.String() }

func (j jsonValue) Int() (int64, bool) {
	num, ok := j.v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := strconv.ParseInt(string(num), 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil {
		return 0, false
	}
	return floatToInt(f)
}

func (j jsonValue) Float() (float64, bool) {
	num, ok := j.v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(num), 64)
	return f, err == nil
}

func (j jsonValue) Bool() (bool, bool) {
	b, ok := j.v.(bool)
	return b, ok
}
