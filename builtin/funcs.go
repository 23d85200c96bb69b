package builtin

import (
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/resolve"
	"github.com/ardnew/tmplfn/strfn"
	"github.com/ardnew/tmplfn/value"
)

func (s *Set) builtinTable() *dispatch.Table {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	return dispatch.NewTable().
		Func("get", get).
		Func("call", s.call).
		Func("url", s.url).
		Func("first", first).
		Func("last", last).
		Func("unique", unique).
		Func("intersects", intersects).
		Func("sum", sum).
		Func("average", average).
		Func("min", minimum).
		Func("max", maximum).
		Func("count", count).
		Func("reverse", reverse).
		Func("round", round).
		Func("ordinal", ordinal).
		Func("digits", digits).
		Func("iff", iff).
		Func("group", group).
		Func("list", list).
		Func("random", s.random).
		Func("shuffle", s.shuffle).
		Func("replace", replace).
		Func("len", length).
		Func("search", search).
		Func("starts", starts).
		Func("ends", ends).
		Func("join", join).
		Func("idify", unary(strfn.Idify)).
		Func("readable", unary(strfn.Readable)).
		Func("uppercase", unary(upper.String)).
		Func("lowercase", unary(lower.String)).
		Func("from", binary(strfn.From)).
		Func("fromlast", binary(strfn.FromLast)).
		Func("to", binary(strfn.To)).
		Func("tofirst", binary(strfn.ToFirst)).
		Func("between", between).
		Func("filename", unary(strfn.Filename)).
		Func("json", jsonOf).
		Func("split", split).
		Func("log", s.log).
		Getter("$mouse", s.mouse).
		Getter("$hash", func() value.Value { return value.String(s.host.Hash()) })
}

// ---------------------------------------------------------------------------
// Access
// ---------------------------------------------------------------------------

func get(_ value.Value, args []value.Value) value.Value {
	return resolve.Get(arg(args, 0), arg(args, 1), nil)
}

// call invokes args[0] with the items of args[1] under receiver args[2].
func (s *Set) call(_ value.Value, args []value.Value) value.Value {
	return s.calls.Call(dispatch.Scope{}, arg(args, 0), value.ArrayOf(arg(args, 1)), arg(args, 2))
}

// url returns the current location when called without arguments, or the
// value of parameter args[0] in the location args[1] (default current).
func (s *Set) url(_ value.Value, args []value.Value) value.Value {
	if arg(args, 0).IsUndefined() {
		return value.String(s.host.Href())
	}

	href := s.host.Href()
	if v := arg(args, 1); !v.IsUndefined() {
		href = value.Text(v)
	}

	if ret, ok := strfn.URLParam(href, text(args, 0)); ok {
		return value.String(ret)
	}

	return value.Null()
}

func (s *Set) mouse() value.Value {
	x, y := s.host.Mouse()

	m := value.NewMap()
	m.Set("x", value.Number(x))
	m.Set("y", value.Number(y))

	return value.MapOf(m)
}

// ---------------------------------------------------------------------------
// Collections
// ---------------------------------------------------------------------------

// at returns the element at i (negative counts from the end) of a list or
// string, or "" when it is absent or falsy.
func at(v value.Value, i int) value.Value {
	v = value.Current(v)

	var ret value.Value

	if l := v.List(); l != nil {
		if i < 0 {
			i += l.Len()
		}

		ret = l.At(i)
	} else if str, ok := v.AsString(); ok {
		rs := []rune(str)
		if i < 0 {
			i += len(rs)
		}

		if i >= 0 && i < len(rs) {
			ret = value.String(string(rs[i]))
		}
	}

	if !value.Truthy(ret) {
		return value.String("")
	}

	return ret
}

func first(_ value.Value, args []value.Value) value.Value { return at(arg(args, 0), 0) }

func last(_ value.Value, args []value.Value) value.Value { return at(arg(args, 0), -1) }

func unique(_ value.Value, args []value.Value) value.Value {
	l := value.Current(arg(args, 0)).List()
	if l == nil {
		return arg(args, 0)
	}

	out := &value.List{}

	for _, e := range l.Items {
		e = value.Current(e)

		if !slices.ContainsFunc(out.Items, func(x value.Value) bool { return sameValueZero(x, e) }) {
			out.Append(e)
		}
	}

	return value.ListOf(out)
}

// sameValueZero is strict identity where NaN equals itself.
func sameValueZero(a, b value.Value) bool {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()

	if aok && bok && math.IsNaN(an) && math.IsNaN(bn) {
		return true
	}

	return value.Same(a, b)
}

func intersects(_ value.Value, args []value.Value) value.Value {
	a, b := value.Current(arg(args, 0)), value.Current(arg(args, 1))
	if !value.Truthy(a) || !value.Truthy(b) {
		return value.Bool(false)
	}

	set := elements(b)

	for _, x := range elements(a) {
		if slices.ContainsFunc(set, func(y value.Value) bool { return sameValueZero(x, y) }) {
			return value.Bool(true)
		}
	}

	return value.Bool(false)
}

// elements returns the current values of the items of a list, or of the
// characters of a string.
func elements(v value.Value) []value.Value {
	if str, ok := v.AsString(); ok {
		out := make([]value.Value, 0, utf8.RuneCountInString(str))
		for _, r := range str {
			out = append(out, value.String(string(r)))
		}

		return out
	}

	items := value.ArrayOf(v)

	out := make([]value.Value, len(items))
	for i, e := range items {
		out[i] = value.Current(e)
	}

	return out
}

func count(_ value.Value, args []value.Value) value.Value {
	n := 0

	for _, e := range value.ArrayOf(value.Current(arg(args, 0))) {
		if !value.IsEmpty(e) {
			n++
		}
	}

	return value.Int(n)
}

func reverse(_ value.Value, args []value.Value) value.Value {
	items := slices.Clone(value.ArrayOf(value.Current(arg(args, 0))))
	slices.Reverse(items)

	return value.NewList(items...)
}

func iff(_ value.Value, args []value.Value) value.Value {
	cond := arg(args, 0)
	ifTrue := argOr(args, 1, cond)
	ifFalse := argOr(args, 2, value.String(""))

	pick := func(c value.Value) value.Value {
		if value.Truthy(value.Current(c)) {
			return ifTrue
		}

		return ifFalse
	}

	l := value.Current(cond).List()
	if l == nil {
		return pick(cond)
	}

	out := &value.List{Items: make([]value.Value, len(l.Items))}

	for i, c := range l.Items {
		ret := pick(c)

		if rl := value.Current(ret).List(); rl != nil {
			ret = rl.At(min(i, rl.Len()-1))
		}

		out.Items[i] = ret
	}

	return value.ListOf(out)
}

// group merges its map arguments, later keys overriding earlier ones, into a
// new map.
func group(_ value.Value, args []value.Value) value.Value {
	out := value.NewMap()

	for _, a := range args {
		if m := value.Current(a).Map(); m != nil {
			for k, v := range m.All() {
				out.Set(k, v)
			}
		}
	}

	return value.MapOf(out)
}

func list(_ value.Value, args []value.Value) value.Value {
	return value.NewList(slices.Clone(args)...)
}

func (s *Set) random(_ value.Value, args []value.Value) value.Value {
	lo := value.ToNumber(argOr(args, 0, value.Int(0)))
	hi := value.ToNumber(argOr(args, 1, value.Int(100)))
	step := value.ToNumber(argOr(args, 2, value.Int(1)))

	if len(args) == 1 {
		lo, hi = 0, lo
	}

	if step <= 0 || math.IsNaN(step) {
		step = 1
	}

	span := (hi - lo) / step

	return value.Number(math.Floor(s.rand.Float64()*(span+1))*step + lo)
}

// shuffle reorders a list in place and returns it. Anything else is returned
// unchanged.
func (s *Set) shuffle(_ value.Value, args []value.Value) value.Value {
	v := arg(args, 0)

	if l := value.Current(v).List(); l != nil {
		s.rand.Shuffle(l.Len(), func(i, j int) {
			l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
		})

		return value.Current(v)
	}

	return v
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

func sum(_ value.Value, args []value.Value) value.Value {
	total := 0.0
	for _, n := range value.Numbers(args...) {
		total += n
	}

	return value.Number(total)
}

func average(_ value.Value, args []value.Value) value.Value {
	nums := value.Numbers(args...)
	if len(nums) == 0 {
		return value.Int(0)
	}

	total := 0.0
	for _, n := range nums {
		total += n
	}

	return value.Number(total / float64(len(nums)))
}

// minimum of no numbers is +Inf, like the host's Math.min.
func minimum(_ value.Value, args []value.Value) value.Value {
	ret := math.Inf(1)
	for _, n := range value.Numbers(args...) {
		ret = math.Min(ret, n)
	}

	return value.Number(ret)
}

// maximum of no numbers is -Inf, like the host's Math.max.
func maximum(_ value.Value, args []value.Value) value.Value {
	ret := math.Inf(-1)
	for _, n := range value.Numbers(args...) {
		ret = math.Max(ret, n)
	}

	return value.Number(ret)
}

func round(_ value.Value, args []value.Value) value.Value {
	num := value.ToNumber(arg(args, 0))

	if !value.Truthy(value.Current(arg(args, 1))) {
		return value.Number(strfn.RoundHalfUp(num))
	}

	return value.Number(strfn.Round(num, integer(arg(args, 1))))
}

func ordinal(_ value.Value, args []value.Value) value.Value {
	if value.IsEmpty(arg(args, 0)) {
		return value.String("")
	}

	return value.String(strfn.Ordinal(value.ToNumber(arg(args, 0))))
}

// digits is digits(width, decimals, num) or digits(width, num).
func digits(_ value.Value, args []value.Value) value.Value {
	num, decimals := arg(args, 2), arg(args, 1)
	if num.IsUndefined() {
		num, decimals = decimals, value.Undefined()
	}

	if !value.IsNumeric(num) {
		return value.Null()
	}

	dec := -1
	if !decimals.IsUndefined() {
		dec = max(integer(decimals), 0)
	}

	return value.String(strfn.Digits(integer(arg(args, 0)), dec, value.ToNumber(num)))
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// replace is replace(haystack, needle, replacement = "", iterations = 1). A
// list haystack is replaced item by item. Zero or NaN iterations make no
// pass, and a list nested in itself is replaced once.
func replace(_ value.Value, args []value.Value) value.Value {
	needle := text(args, 1)
	replacement := text(args, 2)
	iterations := integer(argOr(args, 3, value.Int(1)))

	seen := map[*value.List]bool{}

	var apply func(value.Value) value.Value

	apply = func(h value.Value) value.Value {
		if l := value.Current(h).List(); l != nil {
			if seen[l] {
				return value.Null()
			}

			seen[l] = true
			defer delete(seen, l)

			out := &value.List{Items: make([]value.Value, len(l.Items))}
			for i, item := range l.Items {
				out.Items[i] = apply(item)
			}

			return value.ListOf(out)
		}

		return value.String(strfn.Replace(value.Text(h), needle, replacement, iterations))
	}

	return apply(arg(args, 0))
}

func length(_ value.Value, args []value.Value) value.Value {
	return value.Int(utf8.RuneCountInString(text(args, 0)))
}

func search(_ value.Value, args []value.Value) value.Value {
	if !value.Truthy(value.Current(arg(args, 0))) || !value.Truthy(value.Current(arg(args, 1))) {
		return value.Int(-1)
	}

	return value.Int(strfn.Search(text(args, 0), text(args, 1)))
}

func starts(_ value.Value, args []value.Value) value.Value {
	return value.Bool(strfn.Starts(text(args, 0), text(args, 1)))
}

func ends(_ value.Value, args []value.Value) value.Value {
	return value.Bool(strfn.Ends(text(args, 0), text(args, 1)))
}

// join concatenates the non-empty items of a list with glue.
func join(_ value.Value, args []value.Value) value.Value {
	var parts []string

	for _, e := range value.ArrayOf(value.Current(arg(args, 0))) {
		if !value.IsEmpty(e) {
			parts = append(parts, value.Text(e))
		}
	}

	return value.String(strings.Join(parts, text(args, 1)))
}

func between(_ value.Value, args []value.Value) value.Value {
	tight := value.Truthy(value.Current(arg(args, 3)))

	return value.String(strfn.Between(text(args, 0), text(args, 1), text(args, 2), tight))
}

func jsonOf(_ value.Value, args []value.Value) value.Value {
	return value.String(value.JSON(arg(args, 0)))
}

// split breaks text around a separator, by default runs of whitespace. A
// list of texts is split item by item.
func split(_ value.Value, args []value.Value) value.Value {
	sep := arg(args, 1)

	var apply func(value.Value) value.Value

	apply = func(t value.Value) value.Value {
		if l := value.Current(t).List(); l != nil {
			out := &value.List{Items: make([]value.Value, len(l.Items))}
			for i, item := range l.Items {
				out.Items[i] = apply(item)
			}

			return value.ListOf(out)
		}

		var parts []string
		if sep.IsUndefined() {
			parts = strfn.SplitSpace(value.Text(t))
		} else {
			parts = strings.Split(value.Text(t), value.Text(sep))
		}

		out := &value.List{Items: make([]value.Value, len(parts))}
		for i, p := range parts {
			out.Items[i] = value.String(p)
		}

		return value.ListOf(out)
	}

	return apply(arg(args, 0))
}

// log writes its arguments to the logger and returns the first one.
func (s *Set) log(_ value.Value, args []value.Value) value.Value {
	attrs := make([]slog.Attr, 0, len(args))
	for i, a := range args {
		attrs = append(attrs, slog.Any("arg"+strconv.Itoa(i), value.Current(a)))
	}

	s.logger.Info("log", attrs...)

	return arg(args, 0)
}
