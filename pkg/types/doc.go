// Package types provides shared type definitions for csdocs.
//
// This package defines the metadata entity model consumed by the rendering
// and resolution engines, and the DeclarationRecord tree they produce.
//
// # Entities
//
// Entity represents one declared program element (type, delegate, method,
// event, property or field) loaded from a metadata model snapshot:
//
//	field := &types.Entity{
//	    Kind:       types.EntityField,
//	    Name:       "X",
//	    Visibility: types.VisibilityPublic,
//	    Flags:      types.FlagStatic | types.FlagInitOnly,
//	    Type:       types.Named("System.Int32"),
//	}
//
// Entities carry raw visibility codes and attribute Flags. Accessibility and
// ModifierSet values are derived from them by the classify package and are
// never stored on the entity.
//
// # Type References
//
// TypeRef describes a type in a signature position: named (possibly a
// constructed generic), generic parameter, nullable, by-ref, array or
// pointer. Helper constructors build the common shapes:
//
//	types.ArrayOf(types.Named("System.String"), 1)  // string[]
//	types.MethodParam("T", 0)                       // ``0
//
// # Declaration Records
//
// DeclarationRecord is the serialized output for a documented entity. Its
// JSON field names (Title, Declaration, Kind, Id, Documentation, IsDeclared,
// Methods, Events, Properties, Fields) are a stable contract, and Kind is
// serialized as an integer (Type=0 through Field=5).
//
// A Payload groups records by namespace display name:
//
//	{"AssemblyFile": "Lib.dll", "Declarations": {"N": [ ... ]}}
//
// # Modifiers
//
// ModifierSet keeps modifiers as a bitset whose iteration order is the
// declared order New, Const, Static, Abstract, Virtual, Sealed, Readonly,
// InitOnly, Override, Extern, Volatile. Keywords never lists InitOnly.
package types
