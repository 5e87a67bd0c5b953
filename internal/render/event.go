package render

import (
	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

type eventStrategy struct{}

func (eventStrategy) Kind() types.DeclarationKind { return types.DeclarationEvent }

func (eventStrategy) IsSupported(e *types.Entity) bool { return e.Kind == types.EntityEvent }

func (eventStrategy) Render(e *types.Entity) (string, error) {
	var d declaration
	if err := d.attributes(e.Annotations); err != nil {
		return "", err
	}

	c := classify.Classify(e)
	d.classification(c)
	d.token("event", typeName(e.Type, e.Annotations), canon.EscapeIdentifier(e.Name))

	pair := classify.Accessors(e)
	block, err := accessorBlock([]accessorSlot{
		{keyword: "add", accessor: e.Adder, info: pair.First},
		{keyword: "remove", accessor: e.Remover, info: pair.Second},
	}, pair, c.Modifiers)
	if err != nil {
		return "", err
	}
	// field-like events have no accessors in metadata but still declare both
	if block == ";" {
		block = " { add; remove; }"
	}
	d.suffix.WriteString(block)
	return d.String(), nil
}
