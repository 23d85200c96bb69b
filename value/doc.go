// Package value defines the dynamic value union shared by the resolver, the
// dispatcher and the built-in functions, together with the coercions those
// components rely on.
//
// A [Value] is one of undefined, null, boolean, number, string, list, map,
// callable or node shadow. Lists and maps are mutable and shared by
// reference. Maps remember insertion order so that serialization and
// case-insensitive key matching are deterministic.
//
// Coercions follow the semantics of the JavaScript host the expression
// language was designed for:
//
//	Text(Number(3))                   // "3"
//	Text(Bool(false))                 // ""
//	LooseEqual(Int(5), String("5"))   // true
//	Numbers(String("1"), String(""))  // [1]
package value
