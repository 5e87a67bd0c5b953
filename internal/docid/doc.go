// Package docid parses and generates documentation identifiers.
//
// A documentation identifier names one program entity compactly:
//
//	T:N.C                          type
//	M:N.C.#ctor(System.String)     constructor
//	M:N.C.Method``1(``0,System.Int32@)
//	P:N.C.Item(System.Int32)       indexer
//	F:N.C.X
//	E:N.C.Changed
//
// Member identifiers split into the owning type path and a member token.
// The member token carries an optional method arity ("``N") and an
// argument list. Arguments are dotted type names, constructed generics
// ("List{System.Int32}"), or generic back-references ("``N" for the
// method's own parameters, "`N" for the owning type's), followed by array
// ("[]", "[0:,0:]") and pointer ("*") suffixes and an optional "@" by-ref
// marker. Only commas at the top level of the argument list separate
// arguments.
//
// Parse rejects kind letters other than T, M, P, F and E with
// types.ErrUnsupportedIdentifierKind and structurally broken input with
// types.ErrMalformedIdentifier. For computes the identifier of an entity,
// so Parse(For(e)) names e again.
package docid
