package types

// LiteralType is the constant type of a default value or annotation argument
type LiteralType string

const (
	LiteralBool    LiteralType = "bool"
	LiteralSByte   LiteralType = "sbyte"
	LiteralByte    LiteralType = "byte"
	LiteralInt16   LiteralType = "int16"
	LiteralUInt16  LiteralType = "uint16"
	LiteralInt32   LiteralType = "int32"
	LiteralUInt32  LiteralType = "uint32"
	LiteralInt64   LiteralType = "int64"
	LiteralUInt64  LiteralType = "uint64"
	LiteralNInt    LiteralType = "nint"
	LiteralNUInt   LiteralType = "nuint"
	LiteralDecimal LiteralType = "decimal"
	LiteralDouble  LiteralType = "double"
	LiteralSingle  LiteralType = "single"
	LiteralChar    LiteralType = "char"
	LiteralString  LiteralType = "string"
	LiteralNull    LiteralType = "null"
	LiteralEnum    LiteralType = "enum"
	LiteralTypeOf  LiteralType = "type"
)

// IsInteger reports whether the literal belongs to the integer family
func (t LiteralType) IsInteger() bool {
	switch t {
	case LiteralSByte, LiteralByte, LiteralInt16, LiteralUInt16, LiteralInt32,
		LiteralUInt32, LiteralInt64, LiteralUInt64, LiteralNInt, LiteralNUInt:
		return true
	default:
		return false
	}
}

// Literal is a compile-time constant
type Literal struct {
	Type LiteralType `json:"type"`

	// Value is the invariant text of the constant: "true", "42", "1.5", a
	// single character, or the unescaped string contents.
	Value string `json:"value,omitempty"`

	// EnumType is the enum type for enum literals; Member optionally names
	// the enum member the value corresponds to.
	EnumType *TypeRef `json:"enum_type,omitempty"`
	Member   string   `json:"member,omitempty"`

	// TypeOf is the operand of a typeof(...) literal
	TypeOf *TypeRef `json:"typeof,omitempty"`
}

// Annotation is an attribute attached to an entity, parameter or accessor
type Annotation struct {
	// Name is the attribute type's fully qualified name
	Name  string          `json:"name"`
	Args  []Literal       `json:"args,omitempty"`
	Named []NamedArgument `json:"named,omitempty"`
}

// NamedArgument is a named attribute argument (property or field assignment)
type NamedArgument struct {
	Name  string  `json:"name"`
	Value Literal `json:"value"`
}
