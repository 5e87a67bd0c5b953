package render

import (
	"strconv"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

type fieldStrategy struct{}

func (fieldStrategy) Kind() types.DeclarationKind { return types.DeclarationField }

func (fieldStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityField }

func (fieldStrategy) Render(e *types.Entity) (string, error) {
	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}

	d.classification(classify.Classify(e))
	if e.FixedSize > 0 {
		d.token("fixed")
	}
	d.token(typeName(e.Type, e.Annotations), canon.EscapeIdentifier(e.Name))

	if e.FixedSize > 0 {
		d.suffix.WriteString("[" + strconv.Itoa(e.FixedSize) + "]")
	}
	d.suffix.WriteByte(';')
	return d.String(), nil
}
