package value

import (
	"iter"
	"slices"
	"strings"
)

// Kind identifies which member of the [Value] union is populated.
type Kind uint8

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

const (
	// KindUndefined is the zero Kind. Resolution never hands it to callers
	// that expect a definite result; it marks "no value was produced".
	KindUndefined Kind = iota // undefined

	// KindNull represents an explicit null.
	KindNull // null

	// KindBool represents a boolean.
	KindBool // boolean

	// KindNumber represents a float64 number.
	KindNumber // number

	// KindString represents a string.
	KindString // string

	// KindList represents an ordered sequence of values.
	KindList // list

	// KindMap represents an ordered mapping from string keys to values.
	KindMap // map

	// KindFunc represents a callable.
	KindFunc // function

	// KindNode represents a node shadow: a live, bound object that happens to
	// share its name with a callable.
	KindNode // node
)

// Value is a tagged union over every type the expression language handles.
// The zero Value is undefined.
//
// Lists, maps, funcs and nodes are held by pointer, so copies of a Value
// share the same underlying container.
type Value struct {
	str  string
	list *List
	dict *Map
	fn   *Func
	node *Node
	num  float64
	kind Kind
	b    bool
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int returns a numeric value from an int.
func Int(i int) Value { return Number(float64(i)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ListOf wraps l as a value. A nil list is replaced by an empty one.
func ListOf(l *List) Value {
	if l == nil {
		l = &List{}
	}

	return Value{kind: KindList, list: l}
}

// NewList returns a list value holding items.
func NewList(items ...Value) Value {
	return ListOf(&List{Items: items})
}

// MapOf wraps m as a value. A nil map is replaced by an empty one.
func MapOf(m *Map) Value {
	if m == nil {
		m = NewMap()
	}

	return Value{kind: KindMap, dict: m}
}

// FuncOf wraps f as a value. A nil func yields undefined.
func FuncOf(f *Func) Value {
	if f == nil {
		return Undefined()
	}

	return Value{kind: KindFunc, fn: f}
}

// NodeOf wraps n as a value. A nil node yields undefined.
func NodeOf(n *Node) Value {
	if n == nil {
		return Undefined()
	}

	return Value{kind: KindNode, node: n}
}

// Kind returns the populated member of the union.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool {
	return v.kind == KindNull || v.kind == KindUndefined
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// List returns the list held by v, or nil.
func (v Value) List() *List { return v.list }

// Map returns the map held by v, or nil.
func (v Value) Map() *Map { return v.dict }

// Func returns the callable held by v, or nil.
func (v Value) Func() *Func { return v.fn }

// Node returns the node shadow held by v, or nil.
func (v Value) Node() *Node { return v.node }

// String implements fmt.Stringer using [Text].
func (v Value) String() string { return Text(v) }

// Same reports whether a and b are the same value under strict identity:
// scalars compare by value (NaN is never the same), containers by reference.
func Same(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindUndefined, KindNull:
		return true

	case KindBool:
		return a.b == b.b

	case KindNumber:
		return a.num == b.num

	case KindString:
		return a.str == b.str

	case KindList:
		return a.list == b.list

	case KindMap:
		return a.dict == b.dict

	case KindFunc:
		return a.fn == b.fn

	case KindNode:
		return a.node == b.node

	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

// List is an ordered, mutable sequence of values.
type List struct {
	Items []Value
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return len(l.Items)
}

// At returns the item at index i, or undefined when out of range.
func (l *List) At(i int) Value {
	if l == nil || i < 0 || i >= len(l.Items) {
		return Undefined()
	}

	return l.Items[i]
}

// Set stores v at index i. Indices at or past the end extend the list with
// undefined items.
func (l *List) Set(i int, v Value) {
	if i < 0 {
		return
	}

	for len(l.Items) <= i {
		l.Items = append(l.Items, Undefined())
	}

	l.Items[i] = v
}

// Append adds items to the end of the list.
func (l *List) Append(items ...Value) {
	l.Items = append(l.Items, items...)
}

// Insert adds v at index i, clamped to the list bounds.
func (l *List) Insert(i int, v Value) {
	i = max(0, min(i, len(l.Items)))
	l.Items = slices.Insert(l.Items, i, v)
}

// RemoveAt removes the item at index i and reports whether it existed.
func (l *List) RemoveAt(i int) bool {
	if i < 0 || i >= len(l.Items) {
		return false
	}

	l.Items = slices.Delete(l.Items, i, i+1)

	return true
}

// Clear removes all items.
func (l *List) Clear() { l.Items = l.Items[:0] }

// Clone returns a shallow copy of the list.
func (l *List) Clone() *List {
	if l == nil {
		return &List{}
	}

	return &List{Items: slices.Clone(l.Items)}
}

// ---------------------------------------------------------------------------
// Map
// ---------------------------------------------------------------------------

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	vals map[string]Value
	keys []string
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: map[string]Value{}}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// Get returns the value stored under key k (exact match).
func (m *Map) Get(k string) (Value, bool) {
	if m == nil {
		return Undefined(), false
	}

	v, ok := m.vals[k]

	return v, ok
}

// Set stores v under key k, keeping the original position of existing keys.
func (m *Map) Set(k string, v Value) {
	if m.vals == nil {
		m.vals = map[string]Value{}
	}

	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}

	m.vals[k] = v
}

// Delete removes key k and reports whether it existed.
func (m *Map) Delete(k string) bool {
	if m == nil {
		return false
	}

	if _, ok := m.vals[k]; !ok {
		return false
	}

	delete(m.vals, k)
	m.keys = slices.DeleteFunc(m.keys, func(s string) bool { return s == k })

	return true
}

// Clear removes all entries.
func (m *Map) Clear() {
	m.keys = m.keys[:0]
	m.vals = map[string]Value{}
}

// All returns an iterator over entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of the map.
func (m *Map) Clone() *Map {
	c := NewMap()

	for k, v := range m.All() {
		c.Set(k, v)
	}

	return c
}

// ---------------------------------------------------------------------------
// Func
// ---------------------------------------------------------------------------

// BoundPrefix marks the name of a callable that already carries a receiver.
const BoundPrefix = "bound "

// Impl is the implementation behind a [Func]. The receiver this is undefined
// unless the func was bound or called with an explicit receiver.
type Impl func(this Value, args []Value) Value

// Func is a named callable.
type Func struct {
	Impl     Impl
	Receiver Value
	Name     string
	Alias    string
}

// NewFunc returns a callable value named name.
func NewFunc(name string, impl Impl) Value {
	return FuncOf(&Func{Name: name, Impl: impl})
}

// IsBound reports whether f already carries its receiver.
func (f *Func) IsBound() bool {
	return strings.HasPrefix(f.Name, BoundPrefix)
}

// Bind returns a copy of f whose receiver is this.
func (f *Func) Bind(this Value) *Func {
	c := *f
	c.Name = BoundPrefix + f.Name
	c.Receiver = this

	return &c
}

// WithAlias returns a copy of f whose text form is alias.
func (f *Func) WithAlias(alias string) *Func {
	c := *f
	c.Alias = alias

	return &c
}

// Call invokes f. A bound func ignores this in favor of its own receiver.
func (f *Func) Call(this Value, args []Value) Value {
	if f == nil || f.Impl == nil {
		return Undefined()
	}

	if f.IsBound() {
		this = f.Receiver
	}

	return f.Impl(this, args)
}

// String returns the alias when set, else the declared name.
func (f *Func) String() string {
	if f.Alias != "" {
		return f.Alias
	}

	return strings.TrimPrefix(f.Name, BoundPrefix)
}

// ---------------------------------------------------------------------------
// Node
// ---------------------------------------------------------------------------

// Node is a node shadow: a live object bound under Property whose current
// contents are Value.
type Node struct {
	Value    Value
	Property string
}
