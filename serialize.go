package ionbridge

import (
	"reflect"
	"strings"
)

// Attr is a single key/value pair of an ordered attribute list.
type Attr struct {
	Key   any
	Value any
}

// Attrs is an ordered keyed mapping. Iteration follows insertion order;
// when a key repeats, the later value wins.
type Attrs []Attr

// A is a convenience constructor for Attr.
func A(key, value any) Attr {
	return Attr{Key: key, Value: value}
}

func (a Attrs) String() string {
	var b strings.Builder
	b.WriteString("map[")
	for i, attr := range a {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(Stringify(attr.Key))
		b.WriteByte(':')
		b.WriteString(Stringify(attr.Value))
	}
	b.WriteByte(']')
	return b.String()
}

// Stringify converts any value to a string. It never panics.
func Stringify(v any) string {
	return Of(v).String()
}

// StringifyArgs stringifies each argument independently and joins the
// results with ", ".
func StringifyArgs(args []any) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return Stringify(args[0])
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Stringify(arg)
	}
	return strings.Join(parts, ", ")
}

// StringifyMapping converts a keyed mapping (any Go map, or Attrs) into a
// new map with every key and value stringified, one level deep. Nested
// values use their default representation. It reports false when v is not
// a keyed mapping.
func StringifyMapping(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = Stringify(val)
		}
		return out, true
	case Attrs:
		out := make(map[string]string, len(m))
		for _, attr := range m {
			out[Stringify(attr.Key)] = Stringify(attr.Value)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[Stringify(iter.Key().Interface())] = Stringify(iter.Value().Interface())
	}
	return out, true
}

// Map returns the attributes as a map. A repeated key keeps its last value.
func (a Attrs) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, attr := range a {
		m[Stringify(attr.Key)] = attr.Value
	}
	return m
}
