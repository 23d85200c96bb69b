package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Current unwraps a node shadow to its live value. Every other value is
// returned unchanged.
func Current(v Value) Value {
	for v.kind == KindNode && v.node != nil {
		v = v.node.Value
	}

	return v
}

// Text converts v to its string form.
//
// Undefined, null, false and NaN collapse to the empty string, but numeric
// zero is preserved as "0". Numbers render the way a JavaScript host would
// print them, so 3.0 is "3" and 1e21 is "1e+21". Inside a list, NaN and
// false print as "NaN" and "false".
func Text(v Value) string {
	v = Current(v)

	if n, ok := v.AsNumber(); ok && math.IsNaN(n) {
		return ""
	}

	return text(v, nil)
}

func text(v Value, seen map[*List]bool) string {
	switch v.kind {
	case KindUndefined, KindNull:
		return ""

	case KindBool:
		if v.b {
			return "true"
		}

		return ""

	case KindNumber:
		return FormatNumber(v.num)

	case KindString:
		return v.str

	case KindList:
		if seen[v.list] {
			return ""
		}

		if seen == nil {
			seen = map[*List]bool{}
		}

		seen[v.list] = true
		defer delete(seen, v.list)

		var sb strings.Builder

		for i, item := range v.list.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			// Inside a joined list, false prints as "false" like the host does.
			if b, ok := Current(item).AsBool(); ok && !b {
				sb.WriteString("false")

				continue
			}

			sb.WriteString(text(Current(item), seen))
		}

		return sb.String()

	case KindMap:
		return "[object Object]"

	case KindFunc:
		return v.fn.String()

	default:
		return ""
	}
}

// FormatNumber renders f using the shortest round-trip representation with
// the same notation rules as a JavaScript host.
func FormatNumber(f float64) string {
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

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// d.ddddde±XX
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)

	x, _ := strconv.Atoi(exp)
	k := len(digits)
	n := x + 1

	var s string

	switch {
	case k <= n && n <= 21:
		s = digits + strings.Repeat("0", n-k)

	case 0 < n && n <= 21:
		s = digits[:n] + "." + digits[n:]

	case -6 < n && n <= 0:
		s = "0." + strings.Repeat("0", -n) + digits

	default:
		s = digits[:1]
		if k > 1 {
			s += "." + digits[1:]
		}

		if n-1 >= 0 {
			s += "e+" + strconv.Itoa(n-1)
		} else {
			s += "e-" + strconv.Itoa(1-n)
		}
	}

	return sign + s
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber converts s to a number with the rules of a JavaScript unary
// plus: surrounding whitespace is ignored, the empty string is zero, and
// anything unparseable is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0

	case "Infinity", "+Infinity":
		return math.Inf(1)

	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0

		switch s[1] {
		case 'x', 'X':
			base = 16

		case 'o', 'O':
			base = 8

		case 'b', 'B':
			base = 2
		}

		if base != 0 {
			if strings.ContainsRune(s[2:], '_') {
				return math.NaN()
			}

			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}

			return float64(u)
		}
	}

	if !decimalPattern.MatchString(s) {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values saturate to ±Inf, which is what we want.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}

		return math.NaN()
	}

	return f
}

// ToNumber converts v to a number with the rules of a JavaScript unary plus.
func ToNumber(v Value) float64 {
	v = Current(v)

	switch v.kind {
	case KindNull:
		return 0

	case KindBool:
		if v.b {
			return 1
		}

		return 0

	case KindNumber:
		return v.num

	case KindString:
		return ParseNumber(v.str)

	case KindList:
		switch len(v.list.Items) {
		case 0:
			return 0

		case 1:
			return ParseNumber(Text(v))
		}

		return math.NaN()

	default:
		return math.NaN()
	}
}

// IsNumeric reports whether v coerces to a number other than NaN.
func IsNumeric(v Value) bool {
	return !math.IsNaN(ToNumber(v))
}

// IsNumericString reports whether s is a purely numeric string.
func IsNumericString(s string) bool {
	return !math.IsNaN(ParseNumber(s))
}

// Truthy reports the truthiness of v. Containers and callables are always
// truthy, as are nodes.
func Truthy(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false

	case KindBool:
		return v.b

	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)

	case KindString:
		return v.str != ""

	default:
		return true
	}
}

// IsEmpty reports whether the current value of v is null, false or the empty
// string. Undefined counts as empty too.
func IsEmpty(v Value) bool {
	v = Current(v)

	switch v.kind {
	case KindUndefined, KindNull:
		return true

	case KindBool:
		return !v.b

	case KindString:
		return v.str == ""

	default:
		return false
	}
}

// Numbers extracts the numeric entries from args. When the first argument is
// a list its items are used instead of args. Entries that are not numeric,
// or whose current value is null or "", are dropped. Order is preserved.
func Numbers(args ...Value) []float64 {
	items := args
	if len(args) > 0 {
		if l := Current(args[0]).List(); l != nil {
			items = l.Items
		}
	}

	out := make([]float64, 0, len(items))

	for _, item := range items {
		c := Current(item)
		if c.IsNullish() {
			continue
		}

		if s, ok := c.AsString(); ok && s == "" {
			continue
		}

		if n := ToNumber(c); !math.IsNaN(n) {
			out = append(out, n)
		}
	}

	return out
}

// ArrayOf normalizes v into a sequence: undefined is empty, a list yields its
// items, and anything else becomes a single-element sequence.
func ArrayOf(v Value) []Value {
	switch v.kind {
	case KindUndefined:
		return nil

	case KindList:
		return v.list.Items

	default:
		return []Value{v}
	}
}

// LooseEqual compares a and b with the coercive equality of a JavaScript
// host (==), restricted to the value union.
func LooseEqual(a, b Value) bool {
	a, b = Current(a), Current(b)

	if a.kind == b.kind {
		return Same(a, b)
	}

	switch {
	case a.IsNullish() || b.IsNullish():
		return a.IsNullish() && b.IsNullish()

	case a.kind == KindBool:
		return LooseEqual(Number(ToNumber(a)), b)

	case b.kind == KindBool:
		return LooseEqual(a, Number(ToNumber(b)))

	case a.kind == KindNumber && b.kind == KindString:
		return a.num == ParseNumber(b.str)

	case a.kind == KindString && b.kind == KindNumber:
		return ParseNumber(a.str) == b.num

	case isObject(a) && !isObject(b):
		return LooseEqual(String(Text(a)), b)

	case isObject(b) && !isObject(a):
		return LooseEqual(a, String(Text(b)))

	default:
		return false
	}
}

func isObject(v Value) bool {
	switch v.kind {
	case KindList, KindMap, KindFunc:
		return true

	default:
		return false
	}
}

// CanonicalKey finds the key in m that matches k ignoring case. An exact
// match wins; otherwise the first key in insertion order that folds to k is
// returned.
func CanonicalKey(m *Map, k string) (string, bool) {
	if m == nil {
		return "", false
	}

	if _, ok := m.vals[k]; ok {
		return k, true
	}

	for _, key := range m.keys {
		if strings.EqualFold(key, k) {
			return key, true
		}
	}

	return "", false
}
