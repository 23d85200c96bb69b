package dispatch

import (
	"strings"

	"github.com/ardnew/tmplfn/value"
)

// DefaultReserved is the identifier of the evaluation context object.
const DefaultReserved = "data"

// Scope is the execution context of a single resolution or call.
type Scope struct {
	// ActionRunning lets action built-ins shadow the regular ones. The
	// evaluator sets it only while it runs an action body.
	ActionRunning bool
}

// Stage is one step of identifier resolution. It reports whether it
// produced a value for name.
type Stage func(d *Dispatcher, scope Scope, name string) (value.Value, bool)

// Dispatcher turns bare identifiers into values and invokes callables.
type Dispatcher struct {
	builtins *Table
	actions  *Table
	math     *Table
	globals  *Table
	reserved string
	stages   []Stage
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithBuiltins sets the table of regular built-ins.
func WithBuiltins(t *Table) Option { return func(d *Dispatcher) { d.builtins = t } }

// WithActions sets the table of built-ins that take precedence while an
// action is running.
func WithActions(t *Table) Option { return func(d *Dispatcher) { d.actions = t } }

// WithMath sets the table of math constants and functions consulted after
// the built-ins.
func WithMath(t *Table) Option { return func(d *Dispatcher) { d.math = t } }

// WithGlobals sets the host's global scope, consulted last.
func WithGlobals(t *Table) Option { return func(d *Dispatcher) { d.globals = t } }

// WithReserved sets the identifier that is never claimed by the dispatcher.
func WithReserved(name string) Option { return func(d *Dispatcher) { d.reserved = name } }

// WithStages replaces the resolution stages.
func WithStages(stages ...Stage) Option {
	return func(d *Dispatcher) { d.stages = stages }
}

// DefaultStages returns the standard resolution order.
func DefaultStages() []Stage {
	return []Stage{ActionStage, BuiltinStage, GlobalStage, IdentityStage}
}

// New returns a dispatcher configured with opts.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{reserved: DefaultReserved}

	for _, opt := range opts {
		opt(d)
	}

	if d.stages == nil {
		d.stages = DefaultStages()
	}

	return d
}

// Has reports whether the dispatcher claims name. Every identifier is
// claimed except the reserved context name, in any casing, so that it always
// goes through ordinary variable lookup.
func (d *Dispatcher) Has(name string) bool {
	return !strings.EqualFold(name, d.reserved)
}

// Resolve turns name into a value by running each stage in order. The first
// stage to produce a value wins. It never returns undefined: with the default
// stages an unknown name resolves to itself as a string.
func (d *Dispatcher) Resolve(scope Scope, name string) value.Value {
	for _, stage := range d.stages {
		if v, ok := stage(d, scope, name); ok && !v.IsUndefined() {
			return v
		}
	}

	return value.String(name)
}

// Lookup is like Resolve but without the identity fallback: it reports
// whether name is known to any table.
func (d *Dispatcher) Lookup(scope Scope, name string) (value.Value, bool) {
	for _, stage := range d.stages {
		v, ok := stage(d, scope, name)
		if ok && !v.IsUndefined() && !isIdentity(v, name) {
			return v, true
		}
	}

	return value.Undefined(), false
}

func isIdentity(v value.Value, name string) bool {
	s, ok := v.AsString()

	return ok && s == name
}

// Call invokes fn with args under receiver this.
//
// A falsy fn is a no-op. A node shadow is redirected to whatever its
// property name resolves to. Anything that is still not callable yields
// undefined.
func (d *Dispatcher) Call(scope Scope, fn value.Value, args []value.Value, this value.Value) value.Value {
	if !value.Truthy(fn) {
		return value.Undefined()
	}

	if n := fn.Node(); n != nil {
		fn = d.Resolve(scope, n.Property)
	}

	if f := fn.Func(); f != nil {
		return f.Call(this, args)
	}

	return value.Undefined()
}

// Builtins returns the table of regular built-ins.
func (d *Dispatcher) Builtins() *Table { return d.builtins }

// Actions returns the table of action built-ins.
func (d *Dispatcher) Actions() *Table { return d.actions }

// Math returns the math table.
func (d *Dispatcher) Math() *Table { return d.math }

// Globals returns the global scope table.
func (d *Dispatcher) Globals() *Table { return d.globals }

// ActionStage resolves action built-ins while an action is running.
func ActionStage(d *Dispatcher, scope Scope, name string) (value.Value, bool) {
	if !scope.ActionRunning {
		return value.Undefined(), false
	}

	v, _, ok := d.actions.Lookup(name)

	return alias(v, name), ok
}

// BuiltinStage resolves regular built-ins, then math entries.
func BuiltinStage(d *Dispatcher, _ Scope, name string) (value.Value, bool) {
	v, _, ok := d.builtins.Lookup(name)
	if !ok {
		v, _, ok = d.math.Lookup(name)
	}

	return alias(v, name), ok
}

// GlobalStage resolves names in the host's global scope.
func GlobalStage(d *Dispatcher, _ Scope, name string) (value.Value, bool) {
	v, _, ok := d.globals.Lookup(name)

	return v, ok
}

// IdentityStage resolves any name to itself as a string.
func IdentityStage(_ *Dispatcher, _ Scope, name string) (value.Value, bool) {
	return value.String(name), true
}

// alias wraps a callable so that its text form is the requested spelling.
// The stored callable is left untouched.
func alias(v value.Value, name string) value.Value {
	if f := v.Func(); f != nil {
		return value.FuncOf(f.WithAlias(name))
	}

	return v
}
