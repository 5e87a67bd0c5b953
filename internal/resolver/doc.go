// Package resolver maps documentation identifiers onto entities of a
// metadata model.
//
// Type lookups go through a concurrent memo: hits and misses are both
// cached, and simultaneous first lookups of one name share a single scan of
// the model. Member lookups filter the owning type's members by kind and
// name. Methods are further filtered by generic arity and a positional match
// of the argument list, where "``N" and "`N" tokens refer back to the
// candidate's own or its owning type's generic parameters.
//
// When more than one member survives filtering the first in declaration
// order wins and a warning is logged. Options.StrictOverloads reports
// types.ErrAmbiguousMethod instead.
package resolver
