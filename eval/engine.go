package eval

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/parser/utils"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/tmplfn/builtin"
	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/value"
)

// Engine compiles and runs expressions against data documents.
//
// Compiled programs are cached by source. An Engine is safe for concurrent
// use, although action built-ins mutate the documents they are given.
type Engine struct {
	logger   log.Logger
	set      *builtin.Set
	calls    *dispatch.Dispatcher
	setOpts  []builtin.Option
	options  []expr.Option
	programs sync.Map
	scope    dispatch.Scope
}

// program is a cache entry. Compilation happens once per source.
type program struct {
	prog *vm.Program
	err  error
	once sync.Once
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger of the engine and of the log built-in.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithGlobals declares values that are visible to every expression after
// the data document and the built-ins.
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		t := dispatch.NewTable()

		keys := make([]string, 0, len(globals))
		for k := range globals {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			t.Set(k, value.FromAny(globals[k]))
		}

		e.setOpts = append(e.setOpts, builtin.WithGlobals(t))
	}
}

// WithHost sets the host environment behind url, $hash and $mouse.
func WithHost(h builtin.Host) Option {
	return func(e *Engine) {
		e.setOpts = append(e.setOpts, builtin.WithHost(h))
	}
}

// WithRand sets the random source of random, shuffle and the math table.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.setOpts = append(e.setOpts, builtin.WithRand(r))
	}
}

// WithActionScope makes [Engine.Eval] run every expression as an action.
func WithActionScope(enable bool) Option {
	return func(e *Engine) { e.scope.ActionRunning = enable }
}

// New returns an engine with every built-in table wired in.
func New(opts ...Option) *Engine {
	e := &Engine{logger: log.Default()}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.set = builtin.New(append(e.setOpts, builtin.WithLogger(e.logger))...)
	e.calls = e.set.Dispatcher()
	e.options = e.compileOptions()

	return e
}

// Set returns the built-in namespace of e.
func (e *Engine) Set() *builtin.Set { return e.set }

// Dispatcher returns the dispatcher expressions resolve names through.
func (e *Engine) Dispatcher() *dispatch.Dispatcher { return e.calls }

// Names returns the declared name of every built-in, action, math entry and
// global, without duplicates, in table order.
func (e *Engine) Names() []string {
	var names []string

	seen := map[string]bool{}

	for _, t := range []*dispatch.Table{
		e.calls.Builtins(), e.calls.Actions(), e.calls.Math(), e.calls.Globals(),
	} {
		for _, name := range t.Names() {
			if key := strings.ToLower(name); !seen[key] {
				seen[key] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// compileOptions registers the runtime helpers, and overrides every table
// name so that expr-lang parses it as an ordinary call instead of one of its
// own builtins or predicates.
func (e *Engine) compileOptions() []expr.Option {
	opts := []expr.Option{
		expr.Patch(&lowering{logger: e.logger}),
		expr.Function(helperIdent, lookup),
		expr.Function(helperCallee, calleeOf),
		expr.Function(helperGet, get),
		expr.Function(helperCall, call),
		expr.Function(helperTruthy, truthy),
		expr.Function(helperNative, native),
	}

	for _, name := range e.Names() {
		for _, spelling := range []string{name, strings.ToLower(name)} {
			if utils.IsValidIdentifier(spelling) {
				opts = append(opts, expr.Function(spelling, unlowered))
			}
		}
	}

	return opts
}

// Compile returns the program for src, compiling it on first use.
func (e *Engine) Compile(ctx context.Context, src string) (*vm.Program, error) {
	entry, hit := e.programs.LoadOrStore(src, &program{})

	p, ok := entry.(*program)
	if !ok {
		return nil, pkg.ErrCompile.With(slog.String("issue", "invalid cache entry"))
	}

	e.logger.TraceContext(
		ctx,
		"program cache lookup",
		slog.Int("source_length", len(src)),
		slog.Bool("cache_hit", hit),
	)

	p.once.Do(func() {
		p.prog, p.err = expr.Compile(src, e.options...)
		if p.err != nil {
			p.err = pkg.ErrCompile.Wrap(p.err).With(slog.String("source", src))
		}
	})

	return p.prog, p.err
}

// Eval evaluates src against data. The data document is visible as data
// and through its top-level keys, which take precedence over built-ins.
// Blank source evaluates to undefined.
func (e *Engine) Eval(ctx context.Context, src string, data value.Value) (value.Value, error) {
	return e.run(ctx, src, data, e.scope)
}

// EvalAction evaluates src as the body of an action, so that set, add,
// delete and clear mutate data.
func (e *Engine) EvalAction(
	ctx context.Context,
	src string,
	data value.Value,
) (value.Value, error) {
	return e.run(ctx, src, data, dispatch.Scope{ActionRunning: true})
}

func (e *Engine) run(
	ctx context.Context,
	src string,
	data value.Value,
	scope dispatch.Scope,
) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Undefined(), pkg.ErrEvaluate.Wrap(err).
			With(slog.String("source", src))
	}

	if strings.TrimSpace(src) == "" {
		return value.Undefined(), nil
	}

	prog, err := e.Compile(ctx, src)
	if err != nil {
		return value.Undefined(), err
	}

	out, err := expr.Run(prog, &frame{data: data, calls: e.calls, scope: scope})
	if err != nil {
		return value.Undefined(), pkg.ErrEvaluate.Wrap(err).
			With(slog.String("source", src))
	}

	result := value.FromAny(out)

	e.logger.DebugContext(
		ctx,
		"evaluated",
		slog.String("expr", src),
		slog.Bool("action", scope.ActionRunning),
		slog.Any("result", result),
	)

	return result, nil
}
