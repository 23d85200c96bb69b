// Package eval runs template expressions against data documents.
//
// Expressions use the syntax of [github.com/expr-lang/expr]. Before a
// program is compiled, its syntax tree is lowered so that names, properties
// and calls follow template semantics rather than Go reflection:
//
//   - A bare name is looked up in the data document first, ignoring case,
//     and then in the built-in tables through a [dispatch.Dispatcher]. A
//     name that resolves to nothing evaluates to itself as a string.
//   - Property access goes through [resolve.Get], so a.b finds a key of any
//     case, indexes lists and strings, and maps or filters over lists.
//   - Calls go through [dispatch.Dispatcher.Call]. Calling something that is
//     not callable yields undefined instead of failing.
//
// The document itself is visible as data. expr-lang's own operators and the
// builtins that no table shadows, such as filter and map, keep working on
// plain Go copies of the values they are given.
//
//	e := eval.New()
//	v, err := e.Eval(ctx, "sum(items.price) * 2", data)
//
// Programs are compiled once per source and cached in the [Engine].
package eval
