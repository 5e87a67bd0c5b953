package render

import (
	"fmt"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

type methodStrategy struct{}

func (methodStrategy) Kind() types.DeclarationKind { return types.DeclarationMethod }

func (methodStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityMethod }

func (methodStrategy) Render(e *types.Entity) (string, error) {
	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}
	if err := d.returnAttributes(e.ReturnAnnotations); err != nil {
		return "", err
	}

	c := classify.Classify(e)
	if e.Name == ".cctor" {
		// static constructors never declare an accessibility
		c.Accessibility = types.AccessibilityNone
	}
	d.classification(c)

	name := canon.EscapeIdentifier(e.Name)
	if e.IsConstructor() {
		if e.DeclaringType == nil {
			return "", fmt.Errorf("%w: constructor without a declaring type", types.ErrInvalidEntity)
		}
		name = canon.EscapeIdentifier(e.DeclaringType.Name)
	} else {
		d.refKind(e.RefKind)
		d.token(typeName(e.Type, e.ReturnAnnotations))
	}

	params, err := parameterList(e.Parameters)
	if err != nil {
		return "", err
	}
	d.token(name + genericList(e.GenericParameters) + "(" + params + ")")

	clauses, err := constraintClauses(e.GenericParameters)
	if err != nil {
		return "", err
	}
	for _, c := range clauses {
		d.suffix.WriteString("\n" + indent + c)
	}
	d.suffix.WriteByte(';')
	return d.String(), nil
}
