package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/pkg/types"
)

// ErrInvalidLiteral is returned for constants that cannot be rendered
var ErrInvalidLiteral = errors.New("invalid literal")

// Literal renders a constant in C# syntax
func Literal(l *types.Literal) (string, error) {
	switch t := l.Type; {
	case t == types.LiteralNull:
		return "null", nil
	case t == types.LiteralBool:
		b, err := strconv.ParseBool(l.Value)
		if err != nil {
			return "", fmt.Errorf("%w: bool %q", ErrInvalidLiteral, l.Value)
		}
		return strconv.FormatBool(b), nil
	case t.IsInteger():
		if !isInteger(l.Value) {
			return "", fmt.Errorf("%w: %s %q", ErrInvalidLiteral, t, l.Value)
		}
		return l.Value, nil
	case t == types.LiteralDecimal:
		return l.Value + "D", nil
	case t == types.LiteralDouble:
		return l.Value, nil
	case t == types.LiteralSingle:
		return l.Value + "F", nil
	case t == types.LiteralChar:
		r, size := utf8.DecodeRuneInString(l.Value)
		if size == 0 || size != len(l.Value) {
			return "", fmt.Errorf("%w: char %q", ErrInvalidLiteral, l.Value)
		}
		return "'" + escapeRune(r, '\'') + "'", nil
	case t == types.LiteralString:
		return QuoteString(l.Value), nil
	case t == types.LiteralEnum:
		if l.EnumType == nil {
			return "", fmt.Errorf("%w: enum literal without a type", ErrInvalidLiteral)
		}
		name := canon.TypeName(l.EnumType, false, false)
		if l.Member != "" {
			return name + "." + l.Member, nil
		}
		if strings.HasPrefix(l.Value, "-") {
			return "(" + name + ")(" + l.Value + ")", nil
		}
		return "(" + name + ")" + l.Value, nil
	case t == types.LiteralTypeOf:
		if l.TypeOf == nil {
			return "", fmt.Errorf("%w: typeof literal without a type", ErrInvalidLiteral)
		}
		return "typeof(" + canon.TypeName(l.TypeOf, false, false) + ")", nil
	default:
		return "", fmt.Errorf("%w: unknown literal type %q", ErrInvalidLiteral, t)
	}
}

func isInteger(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// QuoteString returns s as a regular C# string literal
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		sb.WriteString(escapeRune(r, '"'))
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeRune(r rune, quote rune) string {
	switch r {
	case quote:
		return `\` + string(quote)
	case '\\':
		return `\\`
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\v':
		return `\v`
	case '\u0085', '\u2028', '\u2029':
		return fmt.Sprintf(`\u%04X`, r)
	}
	if r < 0x20 || r == 0x7f {
		return fmt.Sprintf(`\u%04X`, r)
	}
	return string(r)
}
