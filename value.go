package ionbridge

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Kind classifies a reportable value.
type Kind uint8

const (
	KindOther Kind = iota
	KindNull
	KindUndefined
	KindString
	KindNumber
	KindBool
	KindError
	KindMapping
	KindList
)

var kindNames = [...]string{
	KindOther:     "other",
	KindNull:      "null",
	KindUndefined: "undefined",
	KindString:    "string",
	KindNumber:    "number",
	KindBool:      "bool",
	KindError:     "error",
	KindMapping:   "mapping",
	KindList:      "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands for a value that was never set, as opposed to nil.
// It stringifies to "undefined". Of recognizes it by type, and the type
// has a single value.
var Undefined = undefined{}

// Value is a classified reportable value.
type Value struct {
	Kind Kind
	raw  any
}

// Of classifies v. Nil pointers, funcs, channels and interfaces are
// KindNull; nil maps and slices keep their mapping/list kind.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case undefined:
		return Value{Kind: KindUndefined, raw: x}
	case string, []byte:
		return Value{Kind: KindString, raw: x}
	case bool:
		return Value{Kind: KindBool, raw: x}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return Value{Kind: KindNumber, raw: x}
	case Attrs:
		return Value{Kind: KindMapping, raw: x}
	case error:
		if isNilPointer(x) {
			return Value{Kind: KindNull}
		}
		return Value{Kind: KindError, raw: x}
	case fmt.Stringer:
		if isNilPointer(x) {
			return Value{Kind: KindNull}
		}
		return Value{Kind: KindString, raw: x}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		if rv.IsNil() {
			return Value{Kind: KindNull}
		}
	case reflect.Map:
		return Value{Kind: KindMapping, raw: v}
	case reflect.Slice, reflect.Array:
		return Value{Kind: KindList, raw: v}
	case reflect.String:
		return Value{Kind: KindString, raw: rv.String()}
	case reflect.Bool:
		return Value{Kind: KindBool, raw: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{Kind: KindNumber, raw: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{Kind: KindNumber, raw: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return Value{Kind: KindNumber, raw: rv.Float()}
	}
	return Value{Kind: KindOther, raw: v}
}

// Raw returns the value Of was called with (nil for KindNull).
func (v Value) Raw() any { return v.raw }

// String converts the value to its report string. It never panics: a value
// whose String or Error method panics is rendered as "[unserializable T]".
func (v Value) String() (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fallbackString(v.raw)
		}
	}()
	return v.render(0)
}

// maxListDepth bounds recursion into nested lists; deeper values use the
// depth-limited default representation.
const maxListDepth = 1

func (v Value) render(depth int) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindString:
		switch x := v.raw.(type) {
		case string:
			return x
		case []byte:
			return string(x)
		case fmt.Stringer:
			return x.String()
		}
	case KindBool:
		return strconv.FormatBool(v.raw.(bool))
	case KindNumber:
		return formatNumber(v.raw)
	case KindError:
		return v.raw.(error).Error()
	case KindList:
		if depth < maxListDepth {
			return renderList(v.raw, depth)
		}
	case KindMapping:
		if attrs, ok := v.raw.(Attrs); ok {
			return attrs.String()
		}
	}
	return defaultRepr.Sprint(v.raw)
}

func renderList(raw any, depth int) string {
	rv := reflect.ValueOf(raw)
	parts := make([]string, rv.Len())
	for i := range parts {
		elem := Of(rv.Index(i).Interface())
		// Absent elements render empty inside lists.
		if elem.Kind == KindNull || elem.Kind == KindUndefined {
			continue
		}
		parts[i] = elem.render(depth + 1)
	}
	return strings.Join(parts, ",")
}

// defaultRepr renders mappings, structs and other composite values. The
// depth limit keeps self-referencing values finite and spew marks repeated
// pointers instead of following them.
var defaultRepr = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                3,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func fallbackString(raw any) string {
	return fmt.Sprintf("[unserializable %T]", raw)
}

func formatNumber(raw any) string {
	switch n := raw.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case uintptr:
		return strconv.FormatUint(uint64(n), 10)
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	}
	return fmt.Sprint(raw)
}

// formatFloat renders floats the way a number prints in a log line:
// shortest round-trip digits, exponent only for very large or small values.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
