// Package dispatch resolves bare identifiers to callables and invokes them.
//
// Resolution runs an explicit, ordered list of [Stage] functions against
// static tables:
//
//  1. action built-ins, only while [Scope.ActionRunning] is set
//  2. regular built-ins, then the math table
//  3. the host's global scope
//  4. the identifier itself, as a string
//
// Lookups ignore case. A callable found among the built-ins is returned as
// a copy whose text form is the spelling that was asked for, so a bare
// function name can double as a string literal.
//
// [Dispatcher.Call] treats a falsy callee as a no-op and redirects a node
// shadow, a live object that happens to share a name with a built-in, to
// whatever that name resolves to.
package dispatch
