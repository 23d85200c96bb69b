package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tmplfn/dispatch"
	"github.com/ardnew/tmplfn/log"
)

// Funcs lists the names callable from expressions.
type Funcs struct {
	Query string `arg:"" help:"Fuzzy filter applied to names" name:"query" optional:""`
	Table string `       help:"Only list names from this table (${enum})" enum:"all,builtin,action,math,global" default:"all" short:"t"`
}

// entry is a name and the table that provides it.
type entry struct {
	table string
	name  string
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	entries := f.entries(ctx)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}

	var matches fuzzy.Matches

	if f.Query == "" {
		matches = make(fuzzy.Matches, len(names))
		for i, n := range names {
			matches[i] = fuzzy.Match{Str: n, Index: i}
		}
	} else {
		matches = fuzzy.Find(f.Query, names)
	}

	log.DebugContext(ctx, "listing names",
		slog.String("query", f.Query),
		slog.String("table", f.Table),
		slog.Int("matches", len(matches)),
	)

	out := stdout(ctx)
	r := lipgloss.NewRenderer(out)
	tableStyle := r.NewStyle().Foreground(lipgloss.Color("8")).Width(8)
	matchStyle := r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)

	for _, m := range matches {
		fmt.Fprintf(out, "%s %s\n",
			tableStyle.Render(entries[m.Index].table),
			highlight(m, matchStyle))
	}

	return nil
}

// entries returns every name of the selected tables in dispatch order.
func (f *Funcs) entries(ctx context.Context) []entry {
	d := engineFrom(ctx).Dispatcher()

	tables := []struct {
		table *dispatch.Table
		name  string
	}{
		{d.Builtins(), "builtin"},
		{d.Actions(), "action"},
		{d.Math(), "math"},
		{d.Globals(), "global"},
	}

	var entries []entry

	for _, t := range tables {
		if f.Table != "" && f.Table != "all" && f.Table != t.name {
			continue
		}

		names := t.table.Names()
		slices.Sort(names)

		for _, n := range names {
			entries = append(entries, entry{table: t.name, name: n})
		}
	}

	return entries
}

// highlight renders the matched characters of m with style.
func highlight(m fuzzy.Match, style lipgloss.Style) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Str
	}

	var b strings.Builder

	for i, r := range m.Str {
		if slices.Contains(m.MatchedIndexes, i) {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
