package eval

import (
	"errors"
	"strings"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/resolve"
	"github.com/ardnew/tmplfn/value"
)

// Names of the functions that lowered programs call at run time.
const (
	helperIdent  = "__fn"
	helperCallee = "__callee"
	helperGet    = "__get"
	helperCall   = "__call"
	helperTruthy = "__truthy"
	helperNative = "__native"

	// envIdent is expr-lang's name for the environment of a run. Lowered
	// programs pass it to the helpers that need the current frame.
	envIdent = "$env"
)

var (
	errFrame    = errors.New("helper called outside of a frame")
	errArgument = errors.New("helper called with missing arguments")
	errLowered  = errors.New("built-in called without lowering")
)

func isHelper(name string) bool {
	switch name {
	case helperIdent, helperCallee, helperGet, helperCall, helperTruthy, helperNative:
		return true

	default:
		return false
	}
}

// frame is the environment of a single run.
type frame struct {
	data  value.Value
	calls *dispatch.Dispatcher
	scope dispatch.Scope
}

// lookup resolves a bare identifier: the reserved name first, then the
// top-level keys of the data document, then the dispatcher.
func (f *frame) lookup(name string) value.Value {
	v, _ := f.lookupData(name)

	return v
}

// lookupData is lookup that also reports whether name matched a key of the
// data document.
func (f *frame) lookupData(name string) (value.Value, bool) {
	if strings.EqualFold(name, dispatch.DefaultReserved) {
		return f.data, false
	}

	if m := value.Current(f.data).Map(); m != nil {
		if key, ok := value.CanonicalKey(m, name); ok {
			v, _ := m.Get(key)

			return v, true
		}
	}

	return f.calls.Resolve(f.scope, name), false
}

// callee resolves name in call position. A data key sharing its name with a
// callable becomes a node shadow, so that calling it reaches the callable
// while reading it still yields the data.
func (f *frame) callee(name string) value.Value {
	v, fromData := f.lookupData(name)
	if !fromData {
		return v
	}

	if _, ok := f.calls.Lookup(f.scope, name); !ok {
		return v
	}

	return value.NodeOf(&value.Node{Property: name, Value: v})
}

func frameOf(params []any, n int) (*frame, error) {
	if len(params) < n {
		return nil, errArgument
	}

	f, ok := params[0].(*frame)
	if !ok || f == nil {
		return nil, errFrame
	}

	return f, nil
}

// lookup implements __fn($env, name).
func lookup(params ...any) (any, error) {
	f, err := frameOf(params, 2)
	if err != nil {
		return nil, err
	}

	name, _ := params[1].(string)

	return value.ToAny(f.lookup(name)), nil
}

// calleeOf implements __callee($env, name).
func calleeOf(params ...any) (any, error) {
	f, err := frameOf(params, 2)
	if err != nil {
		return nil, err
	}

	name, _ := params[1].(string)

	return value.ToAny(f.callee(name)), nil
}

// get implements __get(target, property).
func get(params ...any) (any, error) {
	if len(params) < 2 {
		return nil, errArgument
	}

	v := resolve.Get(value.FromAny(params[0]), value.FromAny(params[1]), nil)

	return value.ToAny(v), nil
}

// call implements __call($env, callee, args...).
func call(params ...any) (any, error) {
	f, err := frameOf(params, 2)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(params)-2)
	for i, p := range params[2:] {
		args[i] = value.FromAny(p)
	}

	v := f.calls.Call(f.scope, value.FromAny(params[1]), args, value.Undefined())

	return value.ToAny(v), nil
}

// truthy implements __truthy(x).
func truthy(params ...any) (any, error) {
	if len(params) < 1 {
		return nil, errArgument
	}

	return value.Truthy(value.FromAny(params[0])), nil
}

// native implements __native(x), which hands containers to expr-lang's own
// builtins and operators as plain slices and maps.
func native(params ...any) (any, error) {
	if len(params) < 1 {
		return nil, errArgument
	}

	return toGo(value.FromAny(params[0]), map[any]bool{}), nil
}

// unlowered stands in for every table name so that expr-lang parses those
// names as calls. Lowering replaces every such call before it can run.
func unlowered(...any) (any, error) { return nil, errLowered }

func toGo(v value.Value, seen map[any]bool) any {
	v = value.Current(v)

	switch v.Kind() {
	case value.KindList:
		l := v.List()
		if seen[l] {
			return nil
		}

		seen[l] = true
		defer delete(seen, l)

		out := make([]any, l.Len())
		for i := range out {
			out[i] = toGo(l.At(i), seen)
		}

		return out

	case value.KindMap:
		m := v.Map()
		if seen[m] {
			return nil
		}

		seen[m] = true
		defer delete(seen, m)

		out := make(map[string]any, m.Len())
		for k, e := range m.All() {
			out[k] = toGo(e, seen)
		}

		return out

	default:
		return value.ToAny(v)
	}
}
