package resolve

import (
	"testing"

	"github.com/ardnew/tmplfn/value"
)

func person(id int, name, status string) value.Value {
	m := value.NewMap()
	m.Set("id", value.Int(id))
	m.Set("Name", value.String(name))
	m.Set("status", value.String(status))

	return value.MapOf(m)
}

func people() value.Value {
	return value.NewList(
		person(4, "Ada", "open"),
		person(5, "Bob", "closed"),
		person(6, "Cy", "open"),
	)
}

func TestGetMap(t *testing.T) {
	m := value.NewMap()
	m.Set("FirstName", value.String("Ada"))
	m.Set("age", value.Int(36))

	tests := []struct {
		prop     string
		want     string
		wantProp string
	}{
		{"FirstName", "Ada", "FirstName"},
		{"firstname", "Ada", "FirstName"},
		{"FIRSTNAME", "Ada", "FirstName"},
		{"Age", "36", "age"},
		{"missing", "", "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			var meta Meta

			got := Get(value.MapOf(m), value.String(tt.prop), &meta)

			if value.Text(got) != tt.want {
				t.Errorf("Get() = %v, want %q", got, tt.want)
			}

			if value.Text(meta.Property) != tt.wantProp {
				t.Errorf("meta.Property = %v, want %q", meta.Property, tt.wantProp)
			}

			if meta.Query != nil {
				t.Errorf("meta.Query = %+v, want nil", meta.Query)
			}
		})
	}
}

func TestGetMissingIsNull(t *testing.T) {
	targets := []value.Value{
		value.Null(),
		value.Undefined(),
		value.Int(5),
		value.MapOf(nil),
		value.NewList(value.Int(1)),
	}

	for _, target := range targets {
		if got := Get(target, value.String("7"), nil); !got.IsNull() {
			t.Errorf("Get(%v, 7) = %v, want null", target.Kind(), got)
		}
	}
}

func TestGetListIndex(t *testing.T) {
	l := value.NewList(value.String("a"), value.String("b"))

	tests := []struct {
		prop value.Value
		want string
		null bool
	}{
		{value.Int(1), "b", false},
		{value.String("0"), "a", false},
		{value.String("length"), "2", false},
		{value.String("01"), "", true},
		{value.Int(-1), "", true},
		{value.Int(2), "", true},
	}

	for _, tt := range tests {
		got := Get(l, tt.prop, nil)

		if tt.null != got.IsNull() || value.Text(got) != tt.want {
			t.Errorf("Get(list, %v) = %v, want %q (null=%v)", tt.prop, got, tt.want, tt.null)
		}
	}
}

func TestGetString(t *testing.T) {
	s := value.String("héllo")

	if got := Get(s, value.String("length"), nil); value.Text(got) != "5" {
		t.Errorf("length = %v, want 5", got)
	}

	if got := Get(s, value.Int(1), nil); value.Text(got) != "é" {
		t.Errorf("[1] = %v, want é", got)
	}
}

func TestGetQuery(t *testing.T) {
	tests := []struct {
		name      string
		prop      string
		wantNames string
		wantProp  string
	}{
		{"multiple", "status=open", "Ada,Cy", "0,2"},
		{"single", "name=Bob", "Bob", "1"},
		{"case_insensitive_key", "STATUS=closed", "Bob", "1"},
		{"none", "status=lost", "", "3"},
		{"empty_value", "status=", "", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var meta Meta

			got := Get(people(), value.String(tt.prop), &meta)

			if got.Kind() != value.KindList {
				t.Fatalf("Get() kind = %v, want list", got.Kind())
			}

			names := Get(got, value.String("name"), nil)
			if value.Text(names) != tt.wantNames {
				t.Errorf("names = %q, want %q", value.Text(names), tt.wantNames)
			}

			if meta.Property.Kind() != value.KindList || value.Text(meta.Property) != tt.wantProp {
				t.Errorf("meta.Property = %v (%v), want list %q", meta.Property, meta.Property.Kind(), tt.wantProp)
			}

			if meta.Query == nil {
				t.Fatal("meta.Query = nil")
			}
		})
	}
}

func TestGetQueryID(t *testing.T) {
	var meta Meta

	got := Get(people(), value.String("id=5"), &meta)

	if got.Kind() != value.KindMap {
		t.Fatalf("Get(id=5) kind = %v, want map", got.Kind())
	}

	if name := Get(got, value.String("name"), nil); value.Text(name) != "Bob" {
		t.Errorf("name = %v, want Bob", name)
	}

	if n, ok := meta.Property.AsNumber(); !ok || n != 1 {
		t.Errorf("meta.Property = %v, want scalar 1", meta.Property)
	}

	if meta.Query == nil || meta.Query.Property != "id" || meta.Query.Value != "5" {
		t.Errorf("meta.Query = %+v, want {id 5}", meta.Query)
	}
}

func TestGetQueryIDMissing(t *testing.T) {
	var meta Meta

	got := Get(people(), value.String("id=doesnotexist"), &meta)

	if !got.IsUndefined() {
		t.Errorf("Get() = %v, want undefined", got)
	}

	if n, ok := meta.Property.AsNumber(); !ok || n != 3 {
		t.Errorf("meta.Property = %v, want 3", meta.Property)
	}
}

func TestGetImplicitMap(t *testing.T) {
	var meta Meta

	got := Get(people(), value.String("NAME"), &meta)

	if value.Text(got) != "Ada,Bob,Cy" {
		t.Errorf("Get() = %v, want Ada,Bob,Cy", got)
	}

	if meta.Writable {
		t.Error("meta.Writable = true for an implicit map")
	}

	if meta.Query != nil {
		t.Errorf("meta.Query = %+v, want nil", meta.Query)
	}
}

func TestGetBindsFuncs(t *testing.T) {
	m := value.NewMap()
	target := value.MapOf(m)

	echo := &value.Func{
		Name: "self",
		Impl: func(this value.Value, _ []value.Value) value.Value { return this },
	}
	m.Set("self", value.FuncOf(echo))
	m.Set("pre", value.FuncOf(echo.Bind(value.String("other"))))

	got := Get(target, value.String("SELF"), nil).Func()
	if got == nil || !got.IsBound() {
		t.Fatalf("Get(self) = %v, want bound func", got)
	}

	if ret := got.Call(value.Undefined(), nil); !value.Same(ret, target) {
		t.Errorf("bound receiver = %v, want target", ret)
	}

	pre := Get(target, value.String("pre"), nil).Func()
	if ret := pre.Call(value.Undefined(), nil); value.Text(ret) != "other" {
		t.Errorf("pre-bound receiver = %v, want other", ret)
	}
}

func TestGetNodeTarget(t *testing.T) {
	node := value.NodeOf(&value.Node{Property: "people", Value: people()})

	if got := Get(node, value.String("length"), nil); value.Text(got) != "3" {
		t.Errorf("Get(node, length) = %v, want 3", got)
	}
}

func TestGetCyclicList(t *testing.T) {
	m := value.NewMap()
	m.Set("x", value.Int(1))

	l := &value.List{}
	l.Append(value.ListOf(l), value.MapOf(m))

	tests := []struct {
		prop string
		want string
	}{
		{"x", "[null,1]"},
		{"x=1", `[{"x":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			got := Get(value.ListOf(l), value.String(tt.prop), nil)

			if s := value.JSON(got); s != tt.want {
				t.Errorf("Get(cycle, %q) = %s, want %s", tt.prop, s, tt.want)
			}
		})
	}

	var meta Meta
	if got := Get(value.ListOf(l), value.String("id=1"), &meta); !got.IsUndefined() {
		t.Errorf("Get(cycle, id=1) = %v, want undefined", got)
	}

	if s := value.Text(meta.Property); s != "2" {
		t.Errorf("meta.Property = %q, want 2", s)
	}
}

func FuzzGet(f *testing.F) {
	for _, s := range []string{"name", "id=5", "status=", "=", "0", "length", ""} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, prop string) {
		var meta Meta

		// Must never panic, whatever the property.
		Get(people(), value.String(prop), &meta)

		if meta.Property.IsUndefined() {
			t.Errorf("Get(%q) left meta.Property undefined", prop)
		}
	})
}
