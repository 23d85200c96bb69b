package builtin

import (
	"math"
	"math/rand/v2"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/value"
)

// Set is the complete namespace of functions available to expressions.
type Set struct {
	host     Host
	rand     *rand.Rand
	logger   log.Logger
	builtins *dispatch.Table
	actions  *dispatch.Table
	math     *dispatch.Table
	globals  *dispatch.Table
	calls    *dispatch.Dispatcher
}

// Option configures a [Set].
type Option func(*Set)

// WithHost sets the host environment behind url, $hash and $mouse.
func WithHost(h Host) Option {
	return func(s *Set) {
		if h != nil {
			s.host = h
		}
	}
}

// WithRand sets the random source used by random, shuffle and the math
// table.
func WithRand(r *rand.Rand) Option {
	return func(s *Set) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithLogger sets the logger the log built-in writes to.
func WithLogger(l log.Logger) Option {
	return func(s *Set) { s.logger = l }
}

// WithGlobals sets the host's global scope, consulted after every built-in.
func WithGlobals(t *dispatch.Table) Option {
	return func(s *Set) { s.globals = t }
}

// New returns a Set with every table populated.
func New(opts ...Option) *Set {
	s := &Set{
		host:   &StaticHost{},
		rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.builtins = s.builtinTable()
	s.actions = s.actionTable()
	s.math = s.mathTable()

	// call goes through a dispatcher of its own; it never sees action scope.
	s.calls = s.Dispatcher()

	return s
}

// Dispatcher returns a dispatcher over the tables of s. Additional options
// are applied after the tables are wired in.
func (s *Set) Dispatcher(opts ...dispatch.Option) *dispatch.Dispatcher {
	base := []dispatch.Option{
		dispatch.WithBuiltins(s.builtins),
		dispatch.WithActions(s.actions),
		dispatch.WithMath(s.math),
		dispatch.WithGlobals(s.globals),
	}

	return dispatch.New(append(base, opts...)...)
}

// Builtins returns the table of regular built-ins.
func (s *Set) Builtins() *dispatch.Table { return s.builtins }

// Actions returns the table of action built-ins.
func (s *Set) Actions() *dispatch.Table { return s.actions }

// Math returns the table of math constants and functions.
func (s *Set) Math() *dispatch.Table { return s.math }

// arg returns args[i], or undefined when absent.
func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}

	return value.Undefined()
}

// argOr returns args[i], or def when absent or undefined.
func argOr(args []value.Value, i int, def value.Value) value.Value {
	if v := arg(args, i); !v.IsUndefined() {
		return v
	}

	return def
}

// text coerces args[i] to a string.
func text(args []value.Value, i int) string {
	return value.Text(arg(args, i))
}

// integer coerces v to an int, mapping NaN to zero and saturating infinities.
func integer(v value.Value) int {
	n := value.ToNumber(v)

	switch {
	case math.IsNaN(n):
		return 0

	case n >= math.MaxInt:
		return math.MaxInt

	case n <= math.MinInt:
		return math.MinInt

	default:
		return int(n)
	}
}

// unary adapts a function of one string into an [value.Impl].
func unary(fn func(string) string) value.Impl {
	return func(_ value.Value, args []value.Value) value.Value {
		return value.String(fn(text(args, 0)))
	}
}

// binary adapts a function of two strings into an [value.Impl].
func binary(fn func(string, string) string) value.Impl {
	return func(_ value.Value, args []value.Value) value.Value {
		return value.String(fn(text(args, 0), text(args, 1)))
	}
}
