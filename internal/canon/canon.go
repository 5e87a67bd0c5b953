package canon

import (
	"strings"

	"github.com/dshills/csdocs/pkg/types"
)

// builtins maps framework type identities to their C# keyword
var builtins = map[string]string{
	"System.Boolean": "bool",
	"System.SByte":   "sbyte",
	"System.Byte":    "byte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.IntPtr":  "nint",
	"System.UIntPtr": "nuint",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "decimal",
	"System.Char":    "char",
	"System.String":  "string",
	"System.Object":  "object",
	"System.Void":    "void",
}

// Keyword returns the C# keyword for a built-in type name
func Keyword(fullName string) (string, bool) {
	kw, ok := builtins[fullName]
	return kw, ok
}

// BuiltinNames returns the full names of all built-in types
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

// TypeName converts a type reference into canonical C# text. nullable
// appends '?' unless the reference is already a nullable wrapper. raw
// selects simple names instead of fully qualified ones.
func TypeName(t *types.TypeRef, nullable, raw bool) string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case types.TypeRefByRef:
		return TypeName(t.Elem, nullable, raw)
	case types.TypeRefNullable:
		return TypeName(t.Elem, false, raw) + "?"
	}

	var sb strings.Builder
	writeType(&sb, t, raw)
	if nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

func writeType(sb *strings.Builder, t *types.TypeRef, raw bool) {
	switch t.Kind {
	case types.TypeRefGenericParameter:
		sb.WriteString(t.Name)
	case types.TypeRefNullable, types.TypeRefByRef:
		sb.WriteString(TypeName(t, false, raw))
	case types.TypeRefArray:
		writeType(sb, t.Elem, raw)
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", max(t.Rank-1, 0)))
		sb.WriteByte(']')
	case types.TypeRefPointer:
		writeType(sb, t.Elem, raw)
		sb.WriteString(strings.Repeat("*", t.Depth))
	default:
		writeNamed(sb, t, raw)
	}
}

func writeNamed(sb *strings.Builder, t *types.TypeRef, raw bool) {
	if kw, ok := builtins[t.Name]; ok && len(t.Args) == 0 {
		sb.WriteString(kw)
		return
	}

	if raw {
		sb.WriteString(types.SimpleName(t.Name))
	} else {
		sb.WriteString(types.StripArity(t.Name))
	}

	if len(t.Args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, arg := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeType(sb, arg, raw)
	}
	sb.WriteByte('>')
}
