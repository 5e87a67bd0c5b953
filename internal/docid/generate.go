package docid

import (
	"strings"

	"github.com/dshills/csdocs/pkg/types"
)

// For computes the documentation identifier of a linked entity
func For(e *types.Entity) string {
	return ForEntity(e).String()
}

// ForEntity computes the parsed identifier of a linked entity
func ForEntity(e *types.Entity) *Identifier {
	if e.IsTypeLike() || e.DeclaringType == nil {
		return &Identifier{Kind: KindType, TypePath: e.FullName()}
	}

	id := &Identifier{
		Kind:     KindOf(e.Kind),
		TypePath: e.DeclaringType.FullName(),
		Member:   strings.ReplaceAll(e.Name, ".", "#"),
	}
	if e.Kind == types.EntityMethod {
		id.Arity = len(e.GenericParameters)
	}

	if len(e.Parameters) > 0 && (e.Kind == types.EntityMethod || e.Kind == types.EntityProperty) {
		id.HasArgs = true
		for i := range e.Parameters {
			p := &e.Parameters[i]
			t := TokenFor(p.Type)
			if p.Direction != types.DirectionNone {
				t.ByRef = true
			}
			id.Args = append(id.Args, t)
		}
	}

	if e.Name == "op_Implicit" || e.Name == "op_Explicit" {
		id.Return = TokenFor(e.Type)
	}
	return id
}

// TokenFor converts a type reference to its identifier token
func TokenFor(t *types.TypeRef) *TypeToken {
	if t == nil {
		return &TypeToken{Name: "System.Void"}
	}

	switch t.Kind {
	case types.TypeRefByRef:
		tok := TokenFor(t.Elem)
		tok.ByRef = true
		return tok
	case types.TypeRefGenericParameter:
		return &TypeToken{GenericRef: true, MethodGeneric: t.MethodOwned, Ordinal: t.Position}
	case types.TypeRefNullable:
		return &TypeToken{Name: "System.Nullable", Args: []*TypeToken{TokenFor(t.Elem)}}
	case types.TypeRefArray:
		tok := TokenFor(t.Elem)
		tok.Suffixes = append(tok.Suffixes, Suffix{Rank: t.Rank})
		return tok
	case types.TypeRefPointer:
		tok := TokenFor(t.Elem)
		for i := 0; i < t.Depth; i++ {
			tok.Suffixes = append(tok.Suffixes, Suffix{Pointer: true})
		}
		return tok
	}

	tok := &TypeToken{Name: t.Name}
	if len(t.Args) > 0 {
		tok.Name = types.StripArity(t.Name)
		for _, a := range t.Args {
			tok.Args = append(tok.Args, TokenFor(a))
		}
	}
	return tok
}
