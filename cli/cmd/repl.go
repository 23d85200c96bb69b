package cmd

import (
	"context"

	"github.com/ardnew/tmplfn/cli/cmd/repl"
	"github.com/ardnew/tmplfn/log"
)

// Repl starts an interactive session over the merged data document.
type Repl struct {
	Action bool `help:"Start in action mode" short:"a"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	ktx := kongContextFrom(ctx)

	var cacheDir string
	if ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, engineFrom(ctx), data, cacheDir, log.Default(),
		repl.WithActionMode(r.Action))
}
