package builtin

import (
	"math"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/strfn"
	"github.com/ardnew/tmplfn/value"
)

// mathTable holds the constants and functions of the host's Math object.
// Names that also exist as regular built-ins (log, max, min, random, round)
// are only reachable here when the built-in table is bypassed.
func (s *Set) mathTable() *dispatch.Table {
	t := dispatch.NewTable().
		Set("E", value.Number(math.E)).
		Set("LN2", value.Number(math.Ln2)).
		Set("LN10", value.Number(math.Ln10)).
		Set("LOG2E", value.Number(math.Log2E)).
		Set("LOG10E", value.Number(math.Log10E)).
		Set("PI", value.Number(math.Pi)).
		Set("SQRT1_2", value.Number(math.Sqrt2/2)).
		Set("SQRT2", value.Number(math.Sqrt2))

	for _, e := range []struct {
		fn   func(float64) float64
		name string
	}{
		{name: "abs", fn: math.Abs},
		{name: "acos", fn: math.Acos},
		{name: "acosh", fn: math.Acosh},
		{name: "asin", fn: math.Asin},
		{name: "asinh", fn: math.Asinh},
		{name: "atan", fn: math.Atan},
		{name: "atanh", fn: math.Atanh},
		{name: "cbrt", fn: math.Cbrt},
		{name: "ceil", fn: math.Ceil},
		{name: "cos", fn: math.Cos},
		{name: "cosh", fn: math.Cosh},
		{name: "exp", fn: math.Exp},
		{name: "expm1", fn: math.Expm1},
		{name: "floor", fn: math.Floor},
		{name: "fround", fn: func(x float64) float64 { return float64(float32(x)) }},
		{name: "log", fn: math.Log},
		{name: "log10", fn: math.Log10},
		{name: "log1p", fn: math.Log1p},
		{name: "log2", fn: math.Log2},
		{name: "round", fn: strfn.RoundHalfUp},
		{name: "sign", fn: sign},
		{name: "sin", fn: math.Sin},
		{name: "sinh", fn: math.Sinh},
		{name: "sqrt", fn: math.Sqrt},
		{name: "tan", fn: math.Tan},
		{name: "tanh", fn: math.Tanh},
		{name: "trunc", fn: math.Trunc},
	} {
		t.Func(e.name, number1(e.fn))
	}

	return t.
		Func("atan2", number2(math.Atan2)).
		Func("pow", number2(pow)).
		Func("hypot", numberN(0, math.Hypot)).
		Func("max", numberN(math.Inf(-1), math.Max)).
		Func("min", numberN(math.Inf(1), math.Min)).
		Func("random", func(value.Value, []value.Value) value.Value {
			return value.Number(s.rand.Float64())
		})
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1

	case x < 0:
		return -1

	default:
		// Keeps NaN and signed zero.
		return x
	}
}

// pow differs from math.Pow where the host returns NaN for a base of ±1 and
// an infinite exponent.
func pow(x, y float64) float64 {
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}

	return math.Pow(x, y)
}

func number1(fn func(float64) float64) value.Impl {
	return func(_ value.Value, args []value.Value) value.Value {
		return value.Number(fn(value.ToNumber(arg(args, 0))))
	}
}

func number2(fn func(float64, float64) float64) value.Impl {
	return func(_ value.Value, args []value.Value) value.Value {
		return value.Number(fn(value.ToNumber(arg(args, 0)), value.ToNumber(arg(args, 1))))
	}
}

// numberN folds every argument into acc with fn. Any NaN argument makes the
// result NaN.
func numberN(acc float64, fn func(float64, float64) float64) value.Impl {
	return func(_ value.Value, args []value.Value) value.Value {
		ret := acc

		for _, a := range args {
			n := value.ToNumber(a)
			if math.IsNaN(n) {
				return value.Number(math.NaN())
			}

			ret = fn(ret, n)
		}

		return value.Number(ret)
	}
}
