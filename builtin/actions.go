package builtin

import (
	"math"
	"slices"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/resolve"
	"github.com/ardnew/tmplfn/value"
)

// actionTable holds the mutating built-ins. They shadow the regular table
// only while an action is running.
func (s *Set) actionTable() *dispatch.Table {
	return dispatch.NewTable().
		Func("set", set).
		Func("add", add).
		Func("delete", remove).
		Func("clear", clearAll)
}

// set writes args[2] to property args[1] of args[0] and returns it.
//
// The property is resolved first, so everything the resolver understands
// can be written: a key=value filter writes each matching index, and a
// filter that matches nothing appends. A property mapped over a list is
// written on every element, visiting each list once. List indices past the
// append position are not written.
func set(_ value.Value, args []value.Value) value.Value {
	val := arg(args, 2)
	assign(value.Current(arg(args, 0)), arg(args, 1), val, map[*value.List]bool{})

	return val
}

func assign(target, prop, val value.Value, seen map[*value.List]bool) {
	var meta resolve.Meta

	resolve.Get(target, prop, &meta)

	if !meta.Writable {
		l := target.List()
		if seen[l] {
			return
		}

		seen[l] = true

		for _, e := range l.Items {
			assign(value.Current(e), prop, val, seen)
		}

		return
	}

	switch {
	case target.Map() != nil:
		target.Map().Set(value.Text(meta.Property), val)

	case target.List() != nil:
		l := target.List()

		for _, i := range indices(meta.Property) {
			if i <= l.Len() {
				l.Set(i, val)
			}
		}
	}
}

// indices extracts the list positions recorded in a resolved property.
func indices(p value.Value) []int {
	var out []int

	for _, v := range value.ArrayOf(p) {
		n := value.ToNumber(v)
		if n >= 0 && n == math.Trunc(n) && n < math.MaxInt32 {
			out = append(out, int(n))
		}
	}

	return out
}

// add inserts args[1] into the list args[0], at index args[2] when given or
// at the end otherwise, and returns the item.
func add(_ value.Value, args []value.Value) value.Value {
	l := value.Current(arg(args, 0)).List()
	if l == nil {
		return value.Undefined()
	}

	item := arg(args, 1)

	if idx := arg(args, 2); !idx.IsUndefined() {
		l.Insert(integer(idx), item)
	} else {
		l.Append(item)
	}

	return item
}

// remove deletes entries from the collection args[0]. Each further argument
// is either an element of the list, removed by identity, or a property
// resolved against the collection.
func remove(_ value.Value, args []value.Value) value.Value {
	coll := value.Current(arg(args, 0))

	for _, p := range args[min(1, len(args)):] {
		if l := coll.List(); l != nil {
			if i := slices.IndexFunc(l.Items, func(e value.Value) bool {
				return value.Same(value.Current(e), value.Current(p))
			}); i >= 0 && !isScalar(p) {
				l.RemoveAt(i)

				continue
			}
		}

		var meta resolve.Meta

		if resolve.Get(coll, p, &meta).IsNull() || !meta.Writable {
			continue
		}

		switch {
		case coll.Map() != nil:
			coll.Map().Delete(value.Text(meta.Property))

		case coll.List() != nil:
			idx := indices(meta.Property)
			slices.Sort(idx)

			for _, i := range slices.Backward(idx) {
				coll.List().RemoveAt(i)
			}
		}
	}

	return coll
}

func isScalar(v value.Value) bool {
	switch value.Current(v).Kind() {
	case value.KindList, value.KindMap, value.KindFunc:
		return false

	default:
		return true
	}
}

// clearAll empties every list or map argument.
func clearAll(_ value.Value, args []value.Value) value.Value {
	for _, a := range args {
		a = value.Current(a)

		if l := a.List(); l != nil {
			l.Clear()
		} else if m := a.Map(); m != nil {
			m.Clear()
		}
	}

	return value.Undefined()
}
