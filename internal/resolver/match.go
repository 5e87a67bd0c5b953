package resolver

import (
	"github.com/dshills/csdocs/internal/docid"
	"github.com/dshills/csdocs/pkg/types"
)

// paramsMatch compares a parameter list position by position
func paramsMatch(params []types.Parameter, args []*docid.TypeToken) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		p := &params[i]
		tok := args[i]
		// "@" stands for any of ref, in and out
		if tok.ByRef != p.IsByRef() {
			return false
		}
		if !shapeMatches(tok, len(tok.Suffixes), p.Type.StripByRef()) {
			return false
		}
	}
	return true
}

// typeMatches compares a complete token, by-ref marker included
func typeMatches(tok *docid.TypeToken, t *types.TypeRef) bool {
	if t == nil {
		return !tok.ByRef && len(tok.Suffixes) == 0 && !tok.GenericRef && tok.Name == "System.Void"
	}
	if tok.ByRef != t.IsByRef() {
		return false
	}
	return shapeMatches(tok, len(tok.Suffixes), t.StripByRef())
}

// shapeMatches compares tok, limited to its first n suffixes, against t.
// Suffixes are peeled from the outermost (last) one inward.
func shapeMatches(tok *docid.TypeToken, n int, t *types.TypeRef) bool {
	if t == nil {
		return false
	}

	if n > 0 {
		sfx := tok.Suffixes[n-1]
		if sfx.Pointer {
			if t.Kind != types.TypeRefPointer {
				return false
			}
			if t.Depth > 1 {
				return shapeMatches(tok, n-1, types.PointerOf(t.Elem, t.Depth-1))
			}
			return shapeMatches(tok, n-1, t.Elem)
		}
		if t.Kind != types.TypeRefArray || t.Rank != max(sfx.Rank, 1) {
			return false
		}
		return shapeMatches(tok, n-1, t.Elem)
	}

	switch t.Kind {
	case types.TypeRefGenericParameter:
		return tok.GenericRef && tok.MethodGeneric == t.MethodOwned && tok.Ordinal == t.Position
	case types.TypeRefNullable:
		return !tok.GenericRef && tok.Name == "System.Nullable" && len(tok.Args) == 1 &&
			argMatches(tok.Args[0], t.Elem)
	case types.TypeRefNamed:
		if tok.GenericRef || len(tok.Args) != len(t.Args) {
			return false
		}
		name := t.Name
		if len(t.Args) > 0 {
			name = types.StripArity(name)
		}
		if tok.Name != name {
			return false
		}
		for i, a := range tok.Args {
			if !argMatches(a, t.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func argMatches(tok *docid.TypeToken, t *types.TypeRef) bool {
	return !tok.ByRef && shapeMatches(tok, len(tok.Suffixes), t)
}
