package value

import (
	"fmt"
	"reflect"
	"slices"
)

// FromAny converts a native Go value into a Value.
//
// Scalars map onto their kinds, slices become lists and string-keyed maps
// become maps with their keys sorted so the result is deterministic. A Value
// or one of the container pointer types is returned as-is. Anything else is
// rendered with fmt.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()

	case Value:
		return t

	case *List:
		return ListOf(t)

	case *Map:
		return MapOf(t)

	case *Func:
		return FuncOf(t)

	case *Node:
		return NodeOf(t)

	case bool:
		return Bool(t)

	case string:
		return String(t)

	case float64:
		return Number(t)

	case float32:
		return Number(float64(t))

	case int:
		return Number(float64(t))

	case int8:
		return Number(float64(t))

	case int16:
		return Number(float64(t))

	case int32:
		return Number(float64(t))

	case int64:
		return Number(float64(t))

	case uint:
		return Number(float64(t))

	case uint8:
		return Number(float64(t))

	case uint16:
		return Number(float64(t))

	case uint32:
		return Number(float64(t))

	case uint64:
		return Number(float64(t))

	case []any:
		l := &List{Items: make([]Value, len(t))}
		for i, e := range t {
			l.Items[i] = FromAny(e)
		}

		return ListOf(l)

	case []Value:
		return NewList(t...)

	case map[string]any:
		m := NewMap()

		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			m.Set(k, FromAny(t[k]))
		}

		return MapOf(m)

	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, e := range t {
			conv[fmt.Sprint(k)] = e
		}

		return FromAny(conv)

	case fmt.Stringer:
		return String(t.String())
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		l := &List{Items: make([]Value, rv.Len())}
		for i := range rv.Len() {
			l.Items[i] = FromAny(rv.Index(i).Interface())
		}

		return ListOf(l)

	case reflect.Map:
		conv := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			conv[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}

		return FromAny(conv)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}

		return FromAny(rv.Elem().Interface())

	default:
		return String(fmt.Sprint(rv.Interface()))
	}
}

// ToAny converts scalars to their native Go form (nil, bool, float64 or
// string). Containers, callables and nodes are returned as the Value itself.
// Undefined is nil.
func ToAny(v Value) any {
	switch v.kind {
	case KindUndefined, KindNull:
		return nil

	case KindBool:
		return v.b

	case KindNumber:
		return v.num

	case KindString:
		return v.str

	default:
		return v
	}
}

// Native deeply converts v into plain Go values: lists become []any and maps
// become []Entry in insertion order. Callables become their text form and
// cycles become nil.
func Native(v Value) any {
	return native(v, map[any]bool{})
}

// Entry is a single key/value pair of a map in [Native] form.
type Entry struct {
	Value any
	Key   string
}

func native(v Value, seen map[any]bool) any {
	v = Current(v)

	switch v.kind {
	case KindList:
		if seen[v.list] {
			return nil
		}

		seen[v.list] = true
		defer delete(seen, v.list)

		out := make([]any, len(v.list.Items))
		for i, e := range v.list.Items {
			out[i] = native(e, seen)
		}

		return out

	case KindMap:
		if seen[v.dict] {
			return nil
		}

		seen[v.dict] = true
		defer delete(seen, v.dict)

		out := make([]Entry, 0, v.dict.Len())
		for k, e := range v.dict.All() {
			out = append(out, Entry{Key: k, Value: native(e, seen)})
		}

		return out

	case KindFunc:
		return v.fn.String()

	default:
		return ToAny(v)
	}
}
