package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_FullName(t *testing.T) {
	outer := &Entity{
		Kind:              EntityType,
		Name:              "Outer",
		Namespace:         "N",
		GenericParameters: []GenericParameter{{Name: "T"}},
	}
	inner := &Entity{Kind: EntityType, Name: "Inner", Namespace: "N", DeclaringType: outer}
	method := &Entity{Kind: EntityMethod, Name: "Run", DeclaringType: inner}

	assert.Equal(t, "N.Outer`1", outer.FullName())
	assert.Equal(t, "N.Outer`1.Inner", inner.FullName())
	assert.Equal(t, "N.Outer`1.Inner.Run", method.FullName())
	assert.Equal(t, 1, inner.OuterGenericCount())
	assert.Equal(t, 0, outer.OuterGenericCount())
}

func TestEntity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr bool
	}{
		{
			name:   "valid field",
			entity: Entity{Kind: EntityField, Name: "X", Type: Named("System.Int32")},
		},
		{
			name:    "missing name",
			entity:  Entity{Kind: EntityField, Type: Named("System.Int32")},
			wantErr: true,
		},
		{
			name:    "bad kind",
			entity:  Entity{Kind: "widget", Name: "X"},
			wantErr: true,
		},
		{
			name:    "field without type",
			entity:  Entity{Kind: EntityField, Name: "X"},
			wantErr: true,
		},
		{
			name:    "property without accessors",
			entity:  Entity{Kind: EntityProperty, Name: "P", Type: Named("System.Int32")},
			wantErr: true,
		},
		{
			name:    "array without rank",
			entity:  Entity{Kind: EntityField, Name: "A", Type: &TypeRef{Kind: TypeRefArray, Elem: Named("System.Int32")}},
			wantErr: true,
		},
		{
			name:    "method with members",
			entity:  Entity{Kind: EntityMethod, Name: "M", Members: []*Entity{{Kind: EntityField, Name: "X"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlags_JSON(t *testing.T) {
	data, err := json.Marshal(FlagStatic | FlagInitOnly)
	require.NoError(t, err)
	assert.JSONEq(t, `["static","init_only"]`, string(data))

	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`["virtual","new_slot"]`), &f))
	assert.True(t, f.Has(FlagVirtual|FlagNewSlot))
	assert.False(t, f.Has(FlagStatic))

	assert.Error(t, json.Unmarshal([]byte(`["bogus"]`), &f))
}

func TestStripArity(t *testing.T) {
	assert.Equal(t, "N.Outer.Inner", StripArity("N.Outer`1.Inner`2"))
	assert.Equal(t, "System.Int32", StripArity("System.Int32"))
	assert.Equal(t, "List", SimpleName("System.Collections.Generic.List`1"))
}
