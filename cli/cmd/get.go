package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/resolve"
	"github.com/ardnew/tmplfn/value"
)

// Get resolves a dotted property path against the merged data document.
//
// Each segment is resolved the way a template property would be, so
// segments match case-insensitively, numeric segments index lists, and
// key=value segments filter them. At least one data document is required.
type Get struct {
	Path   string      `arg:"" help:"Dotted property path, e.g. items.id=2.name" name:"path" optional:""`
	Output eval.Output `       help:"Result format (${enum})"                    enum:"native,json,yaml" default:"native" short:"o"`
	Indent int         `       help:"Indent width for structured output"                                 default:"2"`
	Meta   bool        `       help:"Report how the final segment was resolved"                                           short:"m"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !hasData(ctx) {
		return pkg.ErrNoData
	}

	data, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	result, meta := walk(data, g.Path)

	log.DebugContext(ctx, "resolved path",
		slog.String("path", g.Path),
		slog.String("kind", result.Kind().String()),
	)

	out := stdout(ctx)

	if err := eval.Write(ctx, out, result, g.Output, g.Indent); err != nil {
		return err
	}

	if !g.Meta {
		return nil
	}

	fmt.Fprintf(out, "property: %s\nwritable: %t\n", value.JSON(meta.Property), meta.Writable)

	if q := meta.Query; q != nil {
		fmt.Fprintf(out, "query: %s=%s\n", q.Property, q.Value)
	}

	return nil
}

// walk resolves each segment of path in turn, returning the final value and
// the resolution details of the last segment.
func walk(data value.Value, path string) (value.Value, resolve.Meta) {
	var meta resolve.Meta

	cur := data

	for seg := range strings.SplitSeq(path, ".") {
		if seg == "" {
			continue
		}

		cur = resolve.Get(cur, value.String(seg), &meta)
	}

	return cur, meta
}
