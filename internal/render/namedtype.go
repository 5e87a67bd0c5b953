package render

import (
	"strings"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

// implicitBases are base types never written in a declaration
var implicitBases = map[string]struct{}{
	"System.Object":    {},
	"System.ValueType": {},
	"System.Enum":      {},
}

type namedTypeStrategy struct{}

func (namedTypeStrategy) Kind() types.DeclarationKind { return types.DeclarationType }

func (namedTypeStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityType }

func (namedTypeStrategy) Render(e *types.Entity) (string, error) {
	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}

	d.classification(classify.Classify(e))
	if e.Flags.Has(types.FlagByRefLike) {
		d.token("ref")
	}

	keyword := e.TypeKeyword
	if keyword == "" {
		keyword = types.KeywordClass
	}
	d.token(string(keyword), canon.EscapeIdentifier(e.Name)+genericList(e.GenericParameters))

	if bases := baseList(e); len(bases) > 0 {
		d.token(":", strings.Join(bases, ", "))
	}

	clauses, err := constraintClauses(e.GenericParameters)
	if err != nil {
		return "", err
	}
	d.token(clauses...)
	return d.String(), nil
}

func baseList(e *types.Entity) []string {
	var bases []string
	if e.BaseType != nil && !isImplicitBase(e, e.BaseType) {
		bases = append(bases, canon.TypeName(e.BaseType, false, false))
	}
	for _, iface := range e.Interfaces {
		bases = append(bases, canon.TypeName(iface, false, false))
	}
	return bases
}

// isImplicitBase reports whether the base type is implied by the keyword.
// For enums BaseType holds the underlying type, which defaults to int.
func isImplicitBase(e *types.Entity, base *types.TypeRef) bool {
	if base.Kind != types.TypeRefNamed || len(base.Args) > 0 {
		return false
	}
	if _, ok := implicitBases[base.Name]; ok {
		return true
	}
	return e.TypeKeyword == types.KeywordEnum && base.Name == "System.Int32"
}
