package docid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/csdocs/pkg/types"
)

// Kind is the leading letter of a documentation identifier
type Kind byte

const (
	KindType     Kind = 'T'
	KindMethod   Kind = 'M'
	KindProperty Kind = 'P'
	KindField    Kind = 'F'
	KindEvent    Kind = 'E'
)

func (k Kind) String() string {
	return string(rune(k))
}

// EntityKind returns the entity kind named by a member identifier kind.
// Type identifiers name either a type or a delegate and return EntityType.
func (k Kind) EntityKind() types.EntityKind {
	switch k {
	case KindMethod:
		return types.EntityMethod
	case KindProperty:
		return types.EntityProperty
	case KindField:
		return types.EntityField
	case KindEvent:
		return types.EntityEvent
	default:
		return types.EntityType
	}
}

// KindOf returns the identifier kind for an entity kind
func KindOf(k types.EntityKind) Kind {
	switch k {
	case types.EntityMethod:
		return KindMethod
	case types.EntityProperty:
		return KindProperty
	case types.EntityField:
		return KindField
	case types.EntityEvent:
		return KindEvent
	default:
		return KindType
	}
}

// Identifier is a parsed documentation identifier
type Identifier struct {
	Kind Kind

	// TypePath is the dotted owning type path of a member, or the type
	// itself for T: identifiers. Arity suffixes are kept as written.
	TypePath string

	// Member is the member name; "#ctor" and "#cctor" name constructors
	Member string

	// Arity is the method generic parameter count ("``N"), 0 when absent
	Arity int

	// HasArgs is set when a parenthesized argument list was present
	HasArgs bool
	Args    []*TypeToken

	// Return is the "~T" return type of conversion operators
	Return *TypeToken
}

// IsMember reports whether the identifier names a member rather than a type
func (id *Identifier) IsMember() bool {
	return id.Kind != KindType
}

// String renders the identifier in canonical form
func (id *Identifier) String() string {
	var sb strings.Builder
	sb.WriteString(id.Kind.String())
	sb.WriteByte(':')
	sb.WriteString(id.TypePath)
	if !id.IsMember() {
		return sb.String()
	}

	sb.WriteByte('.')
	sb.WriteString(id.Member)
	if id.Arity > 0 {
		sb.WriteString("``")
		sb.WriteString(strconv.Itoa(id.Arity))
	}
	if id.HasArgs {
		sb.WriteByte('(')
		for i, arg := range id.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte(')')
	}
	if id.Return != nil {
		sb.WriteByte('~')
		sb.WriteString(id.Return.String())
	}
	return sb.String()
}

// TypeToken is one type in an identifier's argument list
type TypeToken struct {
	// Name is the dotted type name for named types
	Name string
	Args []*TypeToken

	// GenericRef marks a generic parameter back-reference: "``N" when
	// MethodGeneric is set, "`N" otherwise.
	GenericRef    bool
	MethodGeneric bool
	Ordinal       int

	// Suffixes lists array and pointer suffixes in textual order; the
	// last one is the outermost type constructor.
	Suffixes []Suffix
	ByRef    bool
}

// Suffix is an array ("[]", "[0:,0:]") or pointer ("*") type suffix
type Suffix struct {
	Pointer bool
	Rank    int
}

// String renders the token in identifier syntax
func (t *TypeToken) String() string {
	var sb strings.Builder
	switch {
	case t.GenericRef && t.MethodGeneric:
		sb.WriteString("``" + strconv.Itoa(t.Ordinal))
	case t.GenericRef:
		sb.WriteString("`" + strconv.Itoa(t.Ordinal))
	default:
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('{')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(a.String())
			}
			sb.WriteByte('}')
		}
	}

	for _, sfx := range t.Suffixes {
		switch {
		case sfx.Pointer:
			sb.WriteByte('*')
		case sfx.Rank <= 1:
			sb.WriteString("[]")
		default:
			sb.WriteByte('[')
			for i := 0; i < sfx.Rank; i++ {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString("0:")
			}
			sb.WriteByte(']')
		}
	}
	if t.ByRef {
		sb.WriteByte('@')
	}
	return sb.String()
}

func malformed(id, format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", types.ErrMalformedIdentifier, id, fmt.Sprintf(format, args...))
}
