package types

import (
	"fmt"
	"strings"
)

// TypeRefKind discriminates the shape of a TypeRef
type TypeRefKind string

const (
	TypeRefNamed            TypeRefKind = ""
	TypeRefGenericParameter TypeRefKind = "generic_parameter"
	TypeRefNullable         TypeRefKind = "nullable"
	TypeRefByRef            TypeRefKind = "byref"
	TypeRefArray            TypeRefKind = "array"
	TypeRefPointer          TypeRefKind = "pointer"
)

// TypeRef is a reference to a type from a signature position
type TypeRef struct {
	Kind TypeRefKind `json:"kind,omitempty"`

	// Name is the fully qualified metadata name for named types (nested
	// types joined with '.', generic types may carry a "`N" suffix) and the
	// parameter name for generic parameter references.
	Name string `json:"name,omitempty"`

	// Args are the type arguments of a constructed generic type
	Args []*TypeRef `json:"args,omitempty"`

	// Elem is the wrapped type for nullable, byref, array and pointer refs
	Elem *TypeRef `json:"elem,omitempty"`

	Rank  int `json:"rank,omitempty"`  // arrays
	Depth int `json:"depth,omitempty"` // pointers

	// Position and MethodOwned identify a generic parameter. Type-owned
	// positions count the parameters of enclosing types first.
	Position    int  `json:"position,omitempty"`
	MethodOwned bool `json:"method_owned,omitempty"`
}

// Named returns a reference to a named type
func Named(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}

// TypeParam returns a reference to the type's generic parameter at position
func TypeParam(name string, position int) *TypeRef {
	return &TypeRef{Kind: TypeRefGenericParameter, Name: name, Position: position}
}

// MethodParam returns a reference to the method's generic parameter at position
func MethodParam(name string, position int) *TypeRef {
	return &TypeRef{Kind: TypeRefGenericParameter, Name: name, Position: position, MethodOwned: true}
}

// NullableOf wraps a value type in System.Nullable
func NullableOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeRefNullable, Elem: elem}
}

// ByRefOf returns a by-reference type
func ByRefOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeRefByRef, Elem: elem}
}

// ArrayOf returns an array type of the given rank
func ArrayOf(elem *TypeRef, rank int) *TypeRef {
	return &TypeRef{Kind: TypeRefArray, Elem: elem, Rank: rank}
}

// PointerOf returns a pointer type with the given indirection depth
func PointerOf(elem *TypeRef, depth int) *TypeRef {
	return &TypeRef{Kind: TypeRefPointer, Elem: elem, Depth: depth}
}

// IsByRef reports whether the reference is by-ref at the top level
func (t *TypeRef) IsByRef() bool {
	return t != nil && t.Kind == TypeRefByRef
}

// StripByRef returns the referent of a by-ref type, or t itself
func (t *TypeRef) StripByRef() *TypeRef {
	if t.IsByRef() {
		return t.Elem
	}
	return t
}

// Validate checks that the reference is structurally sound
func (t *TypeRef) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil type reference", ErrInvalidEntity)
	}

	switch t.Kind {
	case TypeRefNamed:
		if t.Name == "" {
			return fmt.Errorf("%w: named type reference without a name", ErrInvalidEntity)
		}
		for _, arg := range t.Args {
			if err := arg.Validate(); err != nil {
				return err
			}
		}
		return nil
	case TypeRefGenericParameter:
		if t.Name == "" || t.Position < 0 {
			return fmt.Errorf("%w: generic parameter reference needs a name and position", ErrInvalidEntity)
		}
		return nil
	case TypeRefArray:
		if t.Rank < 1 {
			return fmt.Errorf("%w: array rank must be >= 1", ErrInvalidEntity)
		}
	case TypeRefPointer:
		if t.Depth < 1 {
			return fmt.Errorf("%w: pointer depth must be >= 1", ErrInvalidEntity)
		}
	case TypeRefNullable, TypeRefByRef:
	default:
		return fmt.Errorf("%w: unknown type reference kind %q", ErrInvalidEntity, t.Kind)
	}

	if t.Elem == nil {
		return fmt.Errorf("%w: %s reference without an element type", ErrInvalidEntity, t.Kind)
	}
	return t.Elem.Validate()
}

// StripArity removes a trailing "`N" generic arity suffix from every
// segment of a metadata name.
func StripArity(name string) string {
	if !strings.Contains(name, "`") {
		return name
	}

	segments := strings.Split(name, ".")
	for i, seg := range segments {
		if idx := strings.IndexByte(seg, '`'); idx >= 0 {
			segments[i] = seg[:idx]
		}
	}
	return strings.Join(segments, ".")
}

// SimpleName returns the last dotted segment of a metadata name without its
// arity suffix.
func SimpleName(name string) string {
	name = StripArity(name)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
