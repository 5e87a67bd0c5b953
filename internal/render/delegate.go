package render

import (
	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

const invokeMethod = "Invoke"

type delegateStrategy struct{}

func (delegateStrategy) Kind() types.DeclarationKind { return types.DeclarationDelegate }

func (delegateStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityDelegate }

func (delegateStrategy) Render(e *types.Entity) (string, error) {
	sig := signatureOf(e)

	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}
	if err := d.returnAttributes(sig.ReturnAnnotations); err != nil {
		return "", err
	}

	d.classification(classify.Classify(e))
	d.token("delegate")
	d.refKind(sig.RefKind)
	d.token(typeName(sig.Type, sig.ReturnAnnotations))

	params, err := parameterList(sig.Parameters)
	if err != nil {
		return "", err
	}
	d.token(canon.EscapeIdentifier(e.Name) + genericList(e.GenericParameters) + "(" + params + ")")

	clauses, err := constraintClauses(e.GenericParameters)
	if err != nil {
		return "", err
	}
	d.token(clauses...)
	d.suffix.WriteByte(';')
	return d.String(), nil
}

// signatureOf returns the entity carrying the delegate's signature: the
// delegate itself when it declares one, otherwise its Invoke method.
func signatureOf(e *types.Entity) *types.Entity {
	if e.Type != nil || len(e.Parameters) > 0 {
		return e
	}
	for _, m := range e.Members {
		if m.Kind == types.EntityMethod && canon.TypeName(types.Named(m.Name), false, true) == invokeMethod {
			return m
		}
	}
	return e
}
