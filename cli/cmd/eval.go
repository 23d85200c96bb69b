package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
)

// Eval evaluates expressions against the merged data document.
type Eval struct {
	Exprs  []string    `arg:"" help:"Expressions to evaluate, in order"                                    name:"expr"`
	Action bool        `       help:"Evaluate as actions, allowing data mutation"                                       short:"a"`
	Output eval.Output `       help:"Result format (${enum})"                       enum:"native,json,yaml" default:"native"   short:"o"`
	Indent int         `       help:"Indent width for structured output (0 for compact)"             default:"2"`
	Dump   bool        `       help:"Print the data document after all expressions"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	engine := engineFrom(ctx)
	out := stdout(ctx)

	evaluate := engine.Eval
	if e.Action {
		evaluate = engine.EvalAction
	}

	for _, src := range e.Exprs {
		result, err := evaluate(ctx, src, data)
		if err != nil {
			return err
		}

		if err := eval.Write(ctx, out, result, e.Output, e.Indent); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "evaluated expressions",
		slog.Int("count", len(e.Exprs)),
		slog.Bool("action", e.Action),
		slog.String("output", e.Output.String()),
	)

	if e.Dump {
		return eval.Write(ctx, out, data, e.Output, e.Indent)
	}

	return nil
}
