package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
)

// JSON serializes v without failing: cycles are written as null, callables
// and undefined map entries are skipped, undefined list items and non-finite
// numbers become null.
func JSON(v Value) string {
	var buf bytes.Buffer

	writeJSON(&buf, v, map[any]bool{})

	return buf.String()
}

// MarshalJSON implements json.Marshaler using [JSON].
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(JSON(v)), nil
}

// LogValue implements [slog.LogValuer]. Scalars log as themselves and
// containers as their JSON encoding.
func (v Value) LogValue() slog.Value {
	v = Current(v)

	switch v.kind {
	case KindUndefined, KindNull:
		return slog.AnyValue(nil)

	case KindBool:
		return slog.BoolValue(v.b)

	case KindNumber:
		return slog.Float64Value(v.num)

	case KindString:
		return slog.StringValue(v.str)

	case KindFunc:
		return slog.StringValue(v.fn.String())

	default:
		return slog.AnyValue(json.RawMessage(JSON(v)))
	}
}

func writeJSON(buf *bytes.Buffer, v Value, seen map[any]bool) {
	v = Current(v)

	switch v.kind {
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))

	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.WriteString("null")

			return
		}

		buf.WriteString(FormatNumber(v.num))

	case KindString:
		b, _ := json.Marshal(v.str)
		buf.Write(b)

	case KindList:
		if seen[v.list] {
			buf.WriteString("null")

			return
		}

		seen[v.list] = true
		defer delete(seen, v.list)

		buf.WriteByte('[')

		for i, e := range v.list.Items {
			if i > 0 {
				buf.WriteByte(',')
			}

			writeJSON(buf, e, seen)
		}

		buf.WriteByte(']')

	case KindMap:
		if seen[v.dict] {
			buf.WriteString("null")

			return
		}

		seen[v.dict] = true
		defer delete(seen, v.dict)

		buf.WriteByte('{')

		n := 0

		for k, e := range v.dict.All() {
			if c := Current(e); c.kind == KindUndefined || c.kind == KindFunc {
				continue
			}

			if n > 0 {
				buf.WriteByte(',')
			}

			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			writeJSON(buf, e, seen)

			n++
		}

		buf.WriteByte('}')

	default:
		buf.WriteString("null")
	}
}

// Decode parses a JSON or YAML document into a Value. Mapping keys keep the
// order in which they appear in the document.
func Decode(data []byte) (Value, error) {
	var doc any

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return Undefined(), err
	}

	return fromDocument(doc), nil
}

func fromDocument(x any) Value {
	switch t := x.(type) {
	case yaml.MapSlice:
		m := NewMap()
		for _, item := range t {
			m.Set(fmt.Sprint(item.Key), fromDocument(item.Value))
		}

		return MapOf(m)

	case []any:
		l := &List{Items: make([]Value, len(t))}
		for i, e := range t {
			l.Items[i] = fromDocument(e)
		}

		return ListOf(l)

	default:
		return FromAny(x)
	}
}
