package ionbridge

import (
	"errors"
	"math"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

type panicStringer struct{}

func (panicStringer) String() string { panic("String exploded") }

type nilErr struct{}

func (*nilErr) Error() string { return "nilErr" }

type cycle struct {
	Name string
	Next *cycle
}

func TestStringify(t *testing.T) {
	var nilPtr *int
	var typedNil *nilErr

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"undefined", Undefined, "undefined"},
		{"nil pointer", nilPtr, "null"},
		{"typed nil error", error(typedNil), "null"},
		{"string", "hello", "hello"},
		{"empty string", "", ""},
		{"bytes", []byte("raw"), "raw"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative", int64(-7), "-7"},
		{"uint8", uint8(255), "255"},
		{"float", 1.5, "1.5"},
		{"float32", float32(0.25), "0.25"},
		{"whole float", 3.0, "3"},
		{"zero float", 0.0, "0"},
		{"large float", 1e21, "1e+21"},
		{"small float", 1e-7, "1e-07"},
		{"NaN", math.NaN(), "NaN"},
		{"+Inf", math.Inf(1), "Infinity"},
		{"-Inf", math.Inf(-1), "-Infinity"},
		{"error", errors.New("boom"), "boom"},
		{"list", []any{1, "a", true}, "1,a,true"},
		{"list with nil", []any{1, nil, Undefined, 2}, "1,,,2"},
		{"empty list", []int{}, ""},
		{"array", [2]string{"x", "y"}, "x,y"},
		{"attrs", Attrs{A("a", 1), A("b", "x")}, "map[a:1 b:x]"},
		{"panicking stringer", panicStringer{}, "[unserializable ionbridge.panicStringer]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringify_NamedTypes(t *testing.T) {
	type level string
	type code int

	if got := Stringify(level("warn")); got != "warn" {
		t.Errorf("Stringify(level) = %q, want %q", got, "warn")
	}
	if got := Stringify(code(404)); got != "404" {
		t.Errorf("Stringify(code) = %q, want %q", got, "404")
	}
}

func TestStringify_Mapping(t *testing.T) {
	got := Stringify(map[string]int{"b": 2, "a": 1})
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("Stringify(map) = %q, want both keys", got)
	}
	// Keys are sorted so the representation is stable.
	if again := Stringify(map[string]int{"a": 1, "b": 2}); again != got {
		t.Errorf("Stringify(map) not stable: %q vs %q", got, again)
	}
}

func TestStringify_Cycle(t *testing.T) {
	c := &cycle{Name: "loop"}
	c.Next = c

	got := Stringify(c)
	if got == "" {
		t.Fatal("expected a representation for a self-referencing value")
	}
	if !strings.Contains(got, "loop") {
		t.Errorf("Stringify(cycle) = %q, want it to mention the name", got)
	}
}

func TestOf_Kinds(t *testing.T) {
	tests := []struct {
		in   any
		want Kind
	}{
		{nil, KindNull},
		{Undefined, KindUndefined},
		{"s", KindString},
		{3, KindNumber},
		{2.5, KindNumber},
		{true, KindBool},
		{errors.New("e"), KindError},
		{map[string]any{}, KindMapping},
		{Attrs{}, KindMapping},
		{[]int{1}, KindList},
		{struct{}{}, KindOther},
	}

	for _, tt := range tests {
		if got := Of(tt.in).Kind; got != tt.want {
			t.Errorf("Of(%#v).Kind = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if got := KindMapping.String(); got != "mapping" {
		t.Errorf("KindMapping.String() = %q, want %q", got, "mapping")
	}
	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("Kind(200).String() = %q, want %q", got, "kind(200)")
	}
}

func TestStringifyArgs(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"none", nil, ""},
		{"one", []any{"a"}, "a"},
		{"mixed", []any{"a", 1}, "a, 1"},
		{"nil and error", []any{nil, errors.New("x")}, "null, x"},
		{"list arg", []any{[]int{1, 2}, "z"}, "1,2, z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringifyArgs(tt.args); got != tt.want {
				t.Errorf("StringifyArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringifyMapping(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   map[string]string
		wantOK bool
	}{
		{"string map", map[string]string{"a": "1"}, map[string]string{"a": "1"}, true},
		{"any map", map[string]any{"a": 1, "b": "x"}, map[string]string{"a": "1", "b": "x"}, true},
		{"int keys", map[int]bool{1: true}, map[string]string{"1": "true"}, true},
		{"attrs", Attrs{A("k", nil), A(2, 2.5)}, map[string]string{"k": "null", "2": "2.5"}, true},
		{"attrs repeated key", Attrs{A("k", 1), A("k", 2)}, map[string]string{"k": "2"}, true},
		{"empty map", map[string]any{}, map[string]string{}, true},
		{"string", "not-an-object", nil, false},
		{"number", 5, nil, false},
		{"nil", nil, nil, false},
		{"slice", []any{"a"}, nil, false},
		{"struct", struct{ A int }{1}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StringifyMapping(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("StringifyMapping() ok = %v, want %v", ok, tt.wantOK)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("StringifyMapping() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("StringifyMapping()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestStringifyMapping_NestedUsesDefaultRepresentation(t *testing.T) {
	got, ok := StringifyMapping(map[string]any{"inner": map[string]any{"x": 1}})
	if !ok {
		t.Fatal("expected a mapping")
	}
	if !strings.Contains(got["inner"], "x") {
		t.Errorf("nested value = %q, want a representation mentioning x", got["inner"])
	}
}

func TestStringifyMapping_Copies(t *testing.T) {
	src := map[string]string{"a": "1"}
	got, _ := StringifyMapping(src)
	got["a"] = "changed"
	if src["a"] != "1" {
		t.Error("StringifyMapping must not alias its input")
	}
}

func TestAttrs_Map(t *testing.T) {
	m := Attrs{A("a", 1), A("a", 2), A(3, "x")}.Map()
	if len(m) != 2 || m["a"] != 2 || m["3"] != "x" {
		t.Errorf("Attrs.Map() = %v", m)
	}
}

func TestStringify_NeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.OneOf(
			rapid.Just[any](nil),
			rapid.Just[any](Undefined),
			rapid.Just[any](panicStringer{}),
			rapid.Map(rapid.String(), func(s string) any { return s }),
			rapid.Map(rapid.Int(), func(i int) any { return i }),
			rapid.Map(rapid.Float64(), func(f float64) any { return f }),
			rapid.Map(rapid.Bool(), func(b bool) any { return b }),
			rapid.Map(rapid.SliceOf(rapid.String()), func(s []string) any { return s }),
			rapid.Map(rapid.MapOf(rapid.String(), rapid.Int()), func(m map[string]int) any { return m }),
			rapid.Map(rapid.String(), func(s string) any { return errors.New(s) }),
		).Draw(t, "value")

		_ = Stringify(v)
		_ = StringifyArgs([]any{v, v})
		_, _ = StringifyMapping(v)
	})
}

func TestStringifyMapping_PreservesEveryKey(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.MapOf(rapid.String(), rapid.Int()).Draw(t, "m")
		got, ok := StringifyMapping(m)
		if !ok {
			t.Fatal("map not recognized as mapping")
		}
		if len(got) != len(m) {
			t.Fatalf("len = %d, want %d", len(got), len(m))
		}
		for k, v := range m {
			if got[k] != Stringify(v) {
				t.Fatalf("got[%q] = %q, want %q", k, got[k], Stringify(v))
			}
		}
	})
}

func TestUndefined_SingleValue(t *testing.T) {
	var u undefined = Undefined
	if u != (undefined{}) {
		t.Fatal("Undefined must be the zero undefined value")
	}
	if got := Of(undefined{}).Kind; got != KindUndefined {
		t.Errorf("Of(undefined{}).Kind = %v, want %v", got, KindUndefined)
	}
}
