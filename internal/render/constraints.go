package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/pkg/types"
)

// ErrConflictingConstraints is returned when a generic parameter is
// constrained to be both a reference type and a value type.
var ErrConflictingConstraints = errors.New("conflicting generic constraints")

const valueTypeName = "System.ValueType"

// Constraints returns the constraint list of a generic parameter, or nil
// when it has none. Explicit type constraints come first, then the special
// constraints class/class?, new(), notnull and finally struct/unmanaged,
// which replaces new() and notnull.
func Constraints(gp *types.GenericParameter) ([]string, error) {
	valueType := gp.ValueType || gp.Unmanaged
	var out []string

	for _, t := range gp.ConstraintTypes {
		// struct is encoded in metadata as a System.ValueType constraint
		if t.Kind == types.TypeRefNamed && t.Name == valueTypeName && len(t.Args) == 0 {
			valueType = true
			continue
		}
		out = append(out, canon.TypeName(t, false, false))
	}

	reference := gp.ReferenceType || gp.NullableReferenceType
	if reference && valueType {
		return nil, fmt.Errorf("%w: %s is both class and struct", ErrConflictingConstraints, gp.Name)
	}

	switch {
	case gp.NullableReferenceType:
		out = append(out, "class?")
	case gp.ReferenceType:
		out = append(out, "class")
	}

	if gp.DefaultConstructor {
		out = append(out, "new()")
	}
	if gp.NotNull && !reference {
		out = append(out, "notnull")
	}

	switch {
	case gp.Unmanaged:
		out = withoutImpliedByValueType(append(out, "unmanaged"))
	case valueType:
		out = withoutImpliedByValueType(append(out, "struct"))
	}
	return out, nil
}

// withoutImpliedByValueType drops new() and notnull, which a value type
// constraint already implies.
func withoutImpliedByValueType(cs []string) []string {
	out := cs[:0]
	for _, c := range cs {
		if c == "new()" || c == "notnull" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// constraintClauses renders one "where T : ..." clause per constrained
// parameter.
func constraintClauses(params []types.GenericParameter) ([]string, error) {
	var clauses []string
	for i := range params {
		cs, err := Constraints(&params[i])
		if err != nil {
			return nil, err
		}
		if len(cs) == 0 {
			continue
		}
		clauses = append(clauses, "where "+params[i].Name+" : "+strings.Join(cs, ", "))
	}
	return clauses, nil
}
