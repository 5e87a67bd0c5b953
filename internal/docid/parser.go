package docid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/csdocs/pkg/types"
)

// Parse parses a documentation identifier such as
// "M:N.C.Method``1(``0,System.Int32@)".
func Parse(s string) (*Identifier, error) {
	if len(s) < 2 || s[1] != ':' {
		return nil, malformed(s, "missing kind prefix")
	}

	kind := Kind(s[0])
	switch kind {
	case KindType, KindMethod, KindProperty, KindField, KindEvent:
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedIdentifierKind, s[:1])
	}

	body := s[2:]
	if body == "" {
		return nil, malformed(s, "empty name")
	}

	id := &Identifier{Kind: kind}
	if kind == KindType {
		if strings.ContainsAny(body, "(){}@~") {
			return nil, malformed(s, "type identifiers take no arguments")
		}
		if err := checkPath(s, body); err != nil {
			return nil, err
		}
		id.TypePath = body
		return id, nil
	}

	// Argument types contain dots, so the owning path ends at the last dot
	// before the argument list.
	head := body
	if idx := strings.IndexAny(body, "(~"); idx >= 0 {
		head = body[:idx]
	}
	dot := strings.LastIndexByte(head, '.')
	if dot <= 0 {
		return nil, malformed(s, "member identifiers need an owning type")
	}
	id.TypePath = body[:dot]
	if err := checkPath(s, id.TypePath); err != nil {
		return nil, err
	}

	if err := parseMember(s, body[dot+1:], id); err != nil {
		return nil, err
	}
	return id, nil
}

func checkPath(id, path string) error {
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return malformed(id, "empty path segment")
		}
	}
	return nil
}

func parseMember(id, token string, out *Identifier) error {
	sc := &scanner{id: id, s: token}

	start := sc.pos
	for !sc.done() && !sc.peekString("``") && !strings.ContainsRune("(~", rune(sc.peek())) {
		if strings.ContainsRune("){},", rune(sc.peek())) {
			return malformed(id, "unexpected %q in member name", sc.peek())
		}
		sc.pos++
	}
	out.Member = token[start:sc.pos]
	if out.Member == "" {
		return malformed(id, "empty member name")
	}

	if sc.peekString("``") {
		sc.pos += 2
		n, err := sc.number()
		if err != nil {
			return err
		}
		out.Arity = n
	}

	if sc.peek() == '(' {
		sc.pos++
		out.HasArgs = true
		args, err := sc.typeList(')')
		if err != nil {
			return err
		}
		out.Args = args
	}

	if sc.peek() == '~' {
		sc.pos++
		ret, err := sc.typeToken()
		if err != nil {
			return err
		}
		out.Return = ret
	}

	if !sc.done() {
		return malformed(id, "trailing text %q", token[sc.pos:])
	}
	return nil
}

// scanner is a cursor over the member token
type scanner struct {
	id  string
	s   string
	pos int
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.s)
}

func (sc *scanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *scanner) peekString(p string) bool {
	return strings.HasPrefix(sc.s[sc.pos:], p)
}

func (sc *scanner) number() (int, error) {
	start := sc.pos
	for !sc.done() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.pos++
	}
	if start == sc.pos {
		return 0, malformed(sc.id, "expected a number at offset %d", start)
	}
	n, err := strconv.Atoi(sc.s[start:sc.pos])
	if err != nil {
		return 0, malformed(sc.id, "bad number %q", sc.s[start:sc.pos])
	}
	return n, nil
}

// typeList parses comma separated types up to the closing delimiter.
// Commas nested inside braces belong to the inner list.
func (sc *scanner) typeList(closing byte) ([]*TypeToken, error) {
	var list []*TypeToken
	if sc.peek() == closing {
		sc.pos++
		return list, nil
	}

	for {
		t, err := sc.typeToken()
		if err != nil {
			return nil, err
		}
		list = append(list, t)

		switch sc.peek() {
		case ',':
			sc.pos++
		case closing:
			sc.pos++
			return list, nil
		default:
			return nil, malformed(sc.id, "expected ',' or %q at offset %d", closing, sc.pos)
		}
	}
}

func (sc *scanner) typeToken() (*TypeToken, error) {
	t := &TypeToken{}

	switch {
	case sc.peekString("``"):
		sc.pos += 2
		n, err := sc.number()
		if err != nil {
			return nil, err
		}
		t.GenericRef, t.MethodGeneric, t.Ordinal = true, true, n
	case sc.peek() == '`':
		sc.pos++
		n, err := sc.number()
		if err != nil {
			return nil, err
		}
		t.GenericRef, t.Ordinal = true, n
	default:
		start := sc.pos
		for !sc.done() && !strings.ContainsRune("{}[]*@,()~", rune(sc.peek())) {
			sc.pos++
		}
		t.Name = sc.s[start:sc.pos]
		if t.Name == "" {
			return nil, malformed(sc.id, "expected a type name at offset %d", start)
		}
		if err := checkPath(sc.id, t.Name); err != nil {
			return nil, err
		}
		if sc.peek() == '{' {
			sc.pos++
			args, err := sc.typeList('}')
			if err != nil {
				return nil, err
			}
			if len(args) == 0 {
				return nil, malformed(sc.id, "empty type argument list")
			}
			t.Args = args
		}
	}

	for !sc.done() {
		switch sc.peek() {
		case '[':
			rank, err := sc.arrayRank()
			if err != nil {
				return nil, err
			}
			t.Suffixes = append(t.Suffixes, Suffix{Rank: rank})
		case '*':
			sc.pos++
			t.Suffixes = append(t.Suffixes, Suffix{Pointer: true})
		case '@':
			sc.pos++
			t.ByRef = true
			return t, nil
		default:
			return t, nil
		}
	}
	return t, nil
}

// arrayRank parses "[]" or a bounded form such as "[0:,0:]"
func (sc *scanner) arrayRank() (int, error) {
	end := strings.IndexByte(sc.s[sc.pos:], ']')
	if end < 0 {
		return 0, malformed(sc.id, "unterminated array suffix")
	}
	inner := sc.s[sc.pos+1 : sc.pos+end]
	sc.pos += end + 1
	return strings.Count(inner, ",") + 1, nil
}
