package types

import "errors"

// Identifier resolution errors
var (
	ErrUnsupportedIdentifierKind = errors.New("unsupported identifier kind")
	ErrMalformedIdentifier       = errors.New("malformed documentation identifier")
	ErrTypeNotFound              = errors.New("type not found")
	ErrMissingMember             = errors.New("missing member")
	ErrMissingField              = errors.New("missing field")
	ErrMissingMethod             = errors.New("missing method")
	ErrAmbiguousMethod           = errors.New("ambiguous method match")
)

// Rendering and model errors
var (
	ErrUnsupportedEntity = errors.New("no rendering strategy supports entity")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrNoScopes          = errors.New("metadata model has no scopes")
)
