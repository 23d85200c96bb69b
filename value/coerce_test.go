package value

import (
	"math"
	"slices"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"undefined", Undefined(), ""},
		{"null", Null(), ""},
		{"false", Bool(false), ""},
		{"true", Bool(true), "true"},
		{"zero", Int(0), "0"},
		{"negative_zero", Number(math.Copysign(0, -1)), "0"},
		{"integer", Number(3), "3"},
		{"fraction", Number(0.1 + 0.2), "0.30000000000000004"},
		{"large", Number(1e21), "1e+21"},
		{"below_exp", Number(123456789012345680000), "123456789012345680000"},
		{"small", Number(0.000001), "0.000001"},
		{"tiny", Number(1.5e-7), "1.5e-7"},
		{"nan", Number(math.NaN()), ""},
		{"nan_in_list", NewList(Number(math.NaN()), Int(1)), "NaN,1"},
		{"inf", Number(math.Inf(-1)), "-Infinity"},
		{"string", String("x"), "x"},
		{"list", NewList(Int(1), String("a"), Null(), Bool(false)), "1,a,,false"},
		{"map", MapOf(nil), "[object Object]"},
		{"node", NodeOf(&Node{Property: "sum", Value: Int(7)}), "7"},
		{"func_alias", FuncOf((&Func{Name: "sum"}).WithAlias("SUM")), "SUM"},
		{"func_bound", FuncOf((&Func{Name: "sum"}).Bind(Null())), "sum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextCyclicList(t *testing.T) {
	l := &List{}
	l.Append(Int(1), ListOf(l))

	if got := Text(ListOf(l)); got != "1," {
		t.Errorf("Text() = %q, want %q", got, "1,")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		nan  bool
	}{
		{in: "", want: 0},
		{in: "  42 ", want: 42},
		{in: "-1.5", want: -1.5},
		{in: ".5", want: 0.5},
		{in: "1e3", want: 1000},
		{in: "0x10", want: 16},
		{in: "0b101", want: 5},
		{in: "Infinity", want: math.Inf(1)},
		{in: "abc", nan: true},
		{in: "1_000", nan: true},
		{in: "inf", nan: true},
		{in: "NaN", nan: true},
		{in: "0x", nan: true},
		{in: "12px", nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)

			if tt.nan {
				if !math.IsNaN(got) {
					t.Errorf("ParseNumber(%q) = %v, want NaN", tt.in, got)
				}

				return
			}

			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want bool
	}{
		{"undefined", Undefined(), true},
		{"null", Null(), true},
		{"false", Bool(false), true},
		{"empty_string", String(""), true},
		{"zero", Int(0), false},
		{"true", Bool(true), false},
		{"space", String(" "), false},
		{"empty_list", NewList(), false},
		{"node_empty", NodeOf(&Node{Value: String("")}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.in); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name string
		args []Value
		want []float64
	}{
		{
			name: "variadic",
			args: []Value{Int(1), String("2"), String("x"), Int(3)},
			want: []float64{1, 2, 3},
		},
		{
			name: "list_first",
			args: []Value{NewList(String("4"), Null(), String(""), Bool(false)), Int(9)},
			want: []float64{4, 0},
		},
		{
			name: "skips_undefined_and_nan",
			args: []Value{Undefined(), Number(math.NaN()), String(" 5 ")},
			want: []float64{5},
		},
		{
			name: "empty",
			args: nil,
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Numbers(tt.args...); !slices.Equal(got, tt.want) {
				t.Errorf("Numbers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLooseEqual(t *testing.T) {
	l := NewList(Int(1), Int(2))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"number_string", Int(5), String("5"), true},
		{"string_number", String(" 5"), Int(5), true},
		{"number_string_mismatch", Int(5), String("five"), false},
		{"null_undefined", Null(), Undefined(), true},
		{"null_zero", Null(), Int(0), false},
		{"bool_string", Bool(true), String("1"), true},
		{"bool_number", Bool(false), Int(0), true},
		{"list_string", l, String("1,2"), true},
		{"list_identity", l, l, true},
		{"list_other", l, NewList(Int(1), Int(2)), false},
		{"nan", Number(math.NaN()), Number(math.NaN()), false},
		{"node_unwrap", NodeOf(&Node{Value: String("a")}), String("a"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooseEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("LooseEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	m := NewMap()
	m.Set("Name", String("a"))
	m.Set("NAME", String("b"))
	m.Set("age", Int(3))

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"NAME", "NAME", true},
		{"name", "Name", true},
		{"AGE", "age", true},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalKey(m, tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CanonicalKey(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestArrayOf(t *testing.T) {
	if got := ArrayOf(Undefined()); len(got) != 0 {
		t.Errorf("ArrayOf(undefined) = %v, want empty", got)
	}

	if got := ArrayOf(Int(1)); len(got) != 1 || !Same(got[0], Int(1)) {
		t.Errorf("ArrayOf(1) = %v, want [1]", got)
	}

	if got := ArrayOf(NewList(Int(1), Int(2))); len(got) != 2 {
		t.Errorf("ArrayOf(list) = %v, want 2 items", got)
	}
}

func FuzzParseNumber(f *testing.F) {
	for _, s := range []string{"", "1", "-0.5e3", "0x1F", "abc", " 7 "} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		n := ParseNumber(s)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return
		}

		// Any finite result must survive a round trip through its text form.
		if back := ParseNumber(FormatNumber(n)); back != n {
			t.Errorf("round trip %q: %v -> %q -> %v", s, n, FormatNumber(n), back)
		}
	})
}
