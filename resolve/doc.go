// Package resolve implements property access for the expression language.
//
// [Get] is what the "." operator lowers to. It serves three kinds of access
// through one entry point:
//
//   - plain reads, matched case-insensitively against map keys or list and
//     string indices
//   - query filters, where a property such as status=open applied to a list
//     selects the elements whose status loosely equals "open"
//   - implicit mapping, where any other name applied to a list is resolved on
//     every element
//
// Every call reports in a [Meta] which key or indices were touched, so that a
// caller can write back through the same path.
package resolve
