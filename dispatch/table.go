package dispatch

import (
	"github.com/ardnew/tmplfn/value"
)

// Table is an ordered namespace of values looked up without regard to case.
// Entries are stored under their declared name, which is what Lookup
// reports back regardless of the spelling it was asked for.
type Table struct {
	entries *value.Map
	getters map[string]func() value.Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		entries: value.NewMap(),
		getters: map[string]func() value.Value{},
	}
}

// Set declares name in the table.
func (t *Table) Set(name string, v value.Value) *Table {
	delete(t.getters, name)
	t.entries.Set(name, v)

	return t
}

// Func declares a callable under name.
func (t *Table) Func(name string, impl value.Impl) *Table {
	return t.Set(name, value.NewFunc(name, impl))
}

// Getter declares name as a live entry whose value is computed by get on
// every lookup.
func (t *Table) Getter(name string, get func() value.Value) *Table {
	t.entries.Set(name, value.Undefined())
	t.getters[name] = get

	return t
}

// Lookup finds name ignoring case and returns the entry along with its
// declared name.
func (t *Table) Lookup(name string) (value.Value, string, bool) {
	if t == nil {
		return value.Undefined(), "", false
	}

	key, ok := value.CanonicalKey(t.entries, name)
	if !ok {
		return value.Undefined(), "", false
	}

	if get, ok := t.getters[key]; ok {
		return get(), key, true
	}

	v, _ := t.entries.Get(key)

	return v, key, true
}

// Names returns the declared names in declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}

	return t.entries.Keys()
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return t.entries.Len()
}
