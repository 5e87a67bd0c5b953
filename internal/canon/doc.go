// Package canon canonicalizes type references into C# type names.
//
// TypeName is deterministic: its output depends only on the reference and
// its two flags. Built-in framework types map to their keywords
// (System.Int32 -> int), generic arity suffixes are stripped, arrays append
// "[" + ","x(rank-1) + "]" composing outermost-last, pointers append "*"
// per level, and by-ref references are rendered as their referent.
package canon
