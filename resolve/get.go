package resolve

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tmplfn/value"
)

// lengthProperty is exposed on lists and strings.
const lengthProperty = "length"

// Query is the filter recorded when a property of the form key=value is
// applied to a list.
type Query struct {
	Property string
	Value    string
}

// Meta is the side channel filled in by [Get]. A caller that wants to write
// back through the same path reads it to learn which key or index was
// touched.
type Meta struct {
	// Query is set only when a key=value filter was applied.
	Query *Query

	// Property is the canonical key that was used. After a filter it holds
	// the matching index (a number) for id queries or the list of matching
	// indices otherwise. When nothing matched it holds the append position.
	Property value.Value

	// Writable is false when Property does not identify a single location,
	// which is the case when a property is mapped over every list element.
	Writable bool
}

// Get resolves property against target.
//
// Property names match case-insensitively, with the exact-cased key winning
// when several spellings exist. Lists and strings expose their indices and
// length. A callable found on target is returned bound to target, unless it
// is already bound.
//
// When target is a list and property is neither a direct match nor numeric,
// property is applied to the elements: key=value filters the list, and any
// other name is mapped over every element. A property that cannot be
// resolved yields null.
//
// A list reached again while its elements are being resolved yields null.
//
// meta may be nil.
func Get(target, property value.Value, meta *Meta) value.Value {
	return get(target, property, meta, nil)
}

// get is Get tracking the lists whose elements are being resolved.
func get(target, property value.Value, meta *Meta, seen map[*value.List]bool) value.Value {
	if meta == nil {
		meta = &Meta{}
	}

	target = value.Current(target)
	prop := value.Text(property)

	meta.Property = value.String(prop)
	meta.Query = nil
	meta.Writable = true

	if ret, key, ok := canonical(target, prop); ok {
		meta.Property = value.String(key)

		if f := ret.Func(); f != nil && !f.IsBound() {
			return value.FuncOf(f.Bind(target))
		}

		return ret
	}

	if l := target.List(); l != nil && prop != "" && !value.IsNumericString(prop) {
		if seen[l] {
			return value.Null()
		}

		if seen == nil {
			seen = map[*value.List]bool{}
		}

		seen[l] = true
		defer delete(seen, l)

		if key, val, ok := strings.Cut(prop, "="); ok {
			return query(l, key, val, meta, seen)
		}

		meta.Writable = false

		out := &value.List{Items: make([]value.Value, len(l.Items))}
		for i, e := range l.Items {
			out.Items[i] = get(e, value.String(prop), nil, seen)
		}

		return value.ListOf(out)
	}

	return value.Null()
}

// canonical looks up prop on target with one code path per kind.
func canonical(target value.Value, prop string) (value.Value, string, bool) {
	switch target.Kind() {
	case value.KindMap:
		m := target.Map()

		key, ok := value.CanonicalKey(m, prop)
		if !ok {
			return value.Undefined(), "", false
		}

		v, _ := m.Get(key)

		return v, key, true

	case value.KindList:
		l := target.List()

		if prop == lengthProperty {
			return value.Int(l.Len()), prop, true
		}

		if i, ok := index(prop, l.Len()); ok {
			return l.At(i), prop, true
		}

	case value.KindString:
		s, _ := target.AsString()

		if prop == lengthProperty {
			return value.Int(utf8.RuneCountInString(s)), prop, true
		}

		if i, ok := index(prop, utf8.RuneCountInString(s)); ok {
			return value.String(string([]rune(s)[i])), prop, true
		}
	}

	return value.Undefined(), "", false
}

// index parses prop as an index into a sequence of length n. Only the
// canonical decimal spelling is accepted, so "01" is not an index.
func index(prop string, n int) (int, bool) {
	i, err := strconv.Atoi(prop)
	if err != nil || i < 0 || i >= n || strconv.Itoa(i) != prop {
		return 0, false
	}

	return i, true
}

func query(l *value.List, key, val string, meta *Meta, seen map[*value.List]bool) value.Value {
	meta.Query = &Query{Property: key, Value: val}

	want := value.String(val)

	var (
		matches value.List
		indices value.List
	)

	for i, e := range l.Items {
		if value.LooseEqual(get(e, value.String(key), nil, seen), want) {
			matches.Append(e)
			indices.Append(value.Int(i))
		}
	}

	if key == "id" {
		if len(matches.Items) == 0 {
			meta.Property = value.Int(l.Len())

			return value.Undefined()
		}

		meta.Property = indices.Items[0]

		return matches.Items[0]
	}

	if len(matches.Items) == 0 {
		meta.Property = value.NewList(value.Int(l.Len()))

		return value.NewList()
	}

	meta.Property = value.ListOf(&indices)

	return value.ListOf(&matches)
}
