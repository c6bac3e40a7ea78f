// Package argkey derives cache keys from argument lists.
//
// Encode serializes an argument list into a canonical, JSON-like string so that
// argument lists that are structurally equal produce the same key regardless of
// pointer identity, and argument lists that differ in value produce different keys.
// The encoding follows these rules:
//
//   - nil, nil pointers, nil interfaces, nil slices and nil maps encode as null
//   - pointers and interfaces encode as the value they refer to
//   - booleans encode as true or false
//   - strings encode as Go quoted strings, so "1" never collides with 1
//   - integers, unsigned integers and floats encode by numeric value at float64
//     precision, as JSON numbers do; NaN and infinities encode as NaN, +Inf and -Inf
//   - slices and arrays encode as [elem,...]
//   - maps encode as {key:value,...} ordered by the encoded keys; keys are encoded
//     like any other value, so the key 1 and the key "1" differ
//   - structs encode as their type name followed by {"Field":value,...} over every
//     field, exported or not, in declaration order; struct tags are ignored
//   - values implementing encoding.TextMarshaler encode as <type>"text"
//
// Functions, channels, complex numbers, unsafe pointers, cyclic structures and values
// nested deeper than MaxDepth are rejected with an *Error naming the offending argument
// position and the path inside it.
package argkey
