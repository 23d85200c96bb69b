// Package builtin provides the function namespace of the expression
// language: the regular built-ins, the action built-ins that mutate data
// while an action runs, and a table mirroring the host's Math object.
//
// A [Set] owns the three tables and hands out a [dispatch.Dispatcher] over
// them:
//
//	fns := builtin.New(builtin.WithHost(builtin.NewStaticHost(href)))
//	d := fns.Dispatcher()
//	sum := d.Resolve(dispatch.Scope{}, "SUM")
//
// Built-ins never fail. Arguments of the wrong kind are coerced, and a
// result that cannot be computed is null or an empty string.
package builtin
