// Package strfn implements the string and number formatting algorithms
// behind the text built-ins: bounded literal replacement, delimiter-based
// extraction, slug and label conversion, truncating digit formatting and
// ordinal suffixes.
//
// Every function takes and returns plain Go strings and numbers. Coercion
// from dynamic values and distribution over lists happen in the caller.
package strfn
