package render

import (
	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

type propertyStrategy struct{}

func (propertyStrategy) Kind() types.DeclarationKind { return types.DeclarationProperty }

func (propertyStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityProperty }

func (propertyStrategy) Render(e *types.Entity) (string, error) {
	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}

	c := classify.Classify(e)
	d.classification(c)
	d.refKind(e.RefKind)
	d.token(typeName(e.Type, e.Annotations))

	if e.IsIndexer {
		params, err := parameterList(e.Parameters)
		if err != nil {
			return "", err
		}
		d.token("this[" + params + "]")
	} else {
		d.token(canon.EscapeIdentifier(e.Name))
	}

	pair := classify.Accessors(e)
	block, err := accessorBlock([]accessorSlot{
		{keyword: "get", accessor: e.Getter, info: pair.First},
		{keyword: "set", accessor: e.Setter, info: pair.Second},
	}, pair, c.Modifiers)
	if err != nil {
		return "", err
	}
	d.suffix.WriteString(block)
	return d.String(), nil
}
