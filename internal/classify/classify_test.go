package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/csdocs/pkg/types"
)

func TestAccessibility(t *testing.T) {
	tests := []struct {
		vis  types.Visibility
		want types.Accessibility
	}{
		{types.VisibilityCompilerControlled, types.AccessibilityNone},
		{types.VisibilityPrivate, types.AccessibilityPrivate},
		{types.VisibilityFamilyAndAssembly, types.AccessibilityPrivateProtected},
		{types.VisibilityFamily, types.AccessibilityProtected},
		{types.VisibilityFamilyOrAssembly, types.AccessibilityProtectedOrInternal},
		{types.VisibilityAssembly, types.AccessibilityInternal},
		{types.VisibilityNotPublic, types.AccessibilityInternal},
		{types.VisibilityPublic, types.AccessibilityPublic},
	}

	for _, tt := range tests {
		t.Run(string(tt.vis), func(t *testing.T) {
			assert.Equal(t, tt.want, Accessibility(tt.vis))
		})
	}
}

func TestMethodModifiers(t *testing.T) {
	class := &types.Entity{Kind: types.EntityType, Name: "C", TypeKeyword: types.KeywordClass}
	iface := &types.Entity{Kind: types.EntityType, Name: "I", TypeKeyword: types.KeywordInterface}

	tests := []struct {
		name  string
		owner *types.Entity
		flags types.Flags
		want  types.ModifierSet
	}{
		{"plain", class, 0, 0},
		{"static", class, types.FlagStatic, types.NewModifierSet(types.ModifierStatic)},
		{"virtual", class, types.FlagVirtual | types.FlagNewSlot, types.NewModifierSet(types.ModifierVirtual)},
		{"override", class, types.FlagVirtual, types.NewModifierSet(types.ModifierOverride)},
		{"sealed override", class, types.FlagVirtual | types.FlagFinal, types.NewModifierSet(types.ModifierSealed, types.ModifierOverride)},
		{"interface impl", class, types.FlagVirtual | types.FlagFinal | types.FlagNewSlot, 0},
		{"abstract", class, types.FlagAbstract | types.FlagVirtual | types.FlagNewSlot, types.NewModifierSet(types.ModifierAbstract)},
		{"abstract override", class, types.FlagAbstract | types.FlagVirtual, types.NewModifierSet(types.ModifierAbstract, types.ModifierOverride)},
		{"extern", class, types.FlagStatic | types.FlagPInvoke, types.NewModifierSet(types.ModifierStatic, types.ModifierExtern)},
		{"new", class, types.FlagHidesBase, types.NewModifierSet(types.ModifierNew)},
		{"interface member", iface, types.FlagAbstract | types.FlagVirtual | types.FlagNewSlot, 0},
		{"static abstract interface member", iface, types.FlagStatic | types.FlagAbstract | types.FlagVirtual, types.NewModifierSet(types.ModifierStatic, types.ModifierAbstract)},
		{"no owner", nil, types.FlagVirtual | types.FlagNewSlot, types.NewModifierSet(types.ModifierVirtual)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MethodModifiers(tt.owner, tt.flags))
		})
	}
}

func TestFieldModifiers(t *testing.T) {
	tests := []struct {
		name  string
		flags types.Flags
		want  types.ModifierSet
	}{
		{"static readonly", types.FlagStatic | types.FlagInitOnly, types.NewModifierSet(types.ModifierStatic, types.ModifierReadonly)},
		{"const is not static", types.FlagStatic | types.FlagLiteral, types.NewModifierSet(types.ModifierConst)},
		{"volatile", types.FlagVolatile, types.NewModifierSet(types.ModifierVolatile)},
		{"new", types.FlagHidesBase, types.NewModifierSet(types.ModifierNew)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &types.Entity{Kind: types.EntityField, Name: "F", Flags: tt.flags}
			assert.Equal(t, tt.want, FieldModifiers(e))
		})
	}
}

func TestTypeModifiers(t *testing.T) {
	tests := []struct {
		name    string
		keyword types.TypeKeyword
		kind    types.EntityKind
		flags   types.Flags
		want    types.ModifierSet
	}{
		{"static class", types.KeywordClass, types.EntityType, types.FlagAbstract | types.FlagSealed, types.NewModifierSet(types.ModifierStatic)},
		{"abstract class", types.KeywordClass, types.EntityType, types.FlagAbstract, types.NewModifierSet(types.ModifierAbstract)},
		{"sealed record", types.KeywordRecord, types.EntityType, types.FlagSealed, types.NewModifierSet(types.ModifierSealed)},
		{"interface never abstract", types.KeywordInterface, types.EntityType, types.FlagAbstract, 0},
		{"struct never sealed", types.KeywordStruct, types.EntityType, types.FlagSealed, 0},
		{"readonly struct", types.KeywordStruct, types.EntityType, types.FlagSealed | types.FlagReadonly, types.NewModifierSet(types.ModifierReadonly)},
		{"delegate", "", types.EntityDelegate, types.FlagSealed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &types.Entity{Kind: tt.kind, Name: "T", TypeKeyword: tt.keyword, Flags: tt.flags}
			assert.Equal(t, tt.want, TypeModifiers(e))
		})
	}
}

func TestAccessors_Property(t *testing.T) {
	owner := &types.Entity{Kind: types.EntityType, Name: "C", TypeKeyword: types.KeywordClass}

	t.Run("compiler generated readonly getter is suppressed", func(t *testing.T) {
		prop := &types.Entity{
			Kind:          types.EntityProperty,
			Name:          "Property",
			DeclaringType: owner,
			Type:          types.Named("System.String"),
			Getter: &types.Accessor{
				Visibility: types.VisibilityPublic,
				Flags:      types.FlagReadonly | types.FlagCompilerGenerated,
			},
		}

		pair := Accessors(prop)
		assert.True(t, pair.First.Present)
		assert.False(t, pair.Second.Present)
		assert.True(t, pair.First.Modifiers.Empty())

		c := Classify(prop)
		assert.Equal(t, types.AccessibilityPublic, c.Accessibility)
		assert.True(t, c.Modifiers.Empty())
		assert.Nil(t, pair.Restricted())
	})

	t.Run("asymmetric accessibility", func(t *testing.T) {
		prop := &types.Entity{
			Kind:          types.EntityProperty,
			Name:          "X",
			DeclaringType: owner,
			Type:          types.Named("System.Int32"),
			Getter:        &types.Accessor{Visibility: types.VisibilityPublic, Flags: types.FlagStatic},
			Setter:        &types.Accessor{Visibility: types.VisibilityPrivate, Flags: types.FlagStatic},
		}

		pair := Accessors(prop)
		restricted := pair.Restricted()
		if assert.NotNil(t, restricted) {
			assert.Equal(t, types.AccessibilityPrivate, restricted.Accessibility)
		}

		c := Classify(prop)
		assert.Equal(t, types.AccessibilityPublic, c.Accessibility)
		assert.Equal(t, types.NewModifierSet(types.ModifierStatic), c.Modifiers)
	})

	t.Run("init setter", func(t *testing.T) {
		prop := &types.Entity{
			Kind:          types.EntityProperty,
			Name:          "P",
			DeclaringType: owner,
			Type:          types.Named("System.String"),
			Getter:        &types.Accessor{Visibility: types.VisibilityPublic},
			Setter:        &types.Accessor{Visibility: types.VisibilityPublic, Flags: types.FlagExternalInit},
		}

		pair := Accessors(prop)
		assert.True(t, pair.Second.Modifiers.Has(types.ModifierInitOnly))
		assert.Equal(t, types.NewModifierSet(types.ModifierInitOnly), pair.Second.Modifiers.Minus(pair.First.Modifiers))
		assert.True(t, Classify(prop).Modifiers.Empty())
	})

	t.Run("setter only", func(t *testing.T) {
		prop := &types.Entity{
			Kind:          types.EntityProperty,
			Name:          "P",
			DeclaringType: owner,
			Flags:         types.FlagHidesBase,
			Type:          types.Named("System.String"),
			Setter:        &types.Accessor{Visibility: types.VisibilityAssembly, Flags: types.FlagExternalInit | types.FlagVirtual | types.FlagNewSlot},
		}

		c := Classify(prop)
		assert.Equal(t, types.AccessibilityInternal, c.Accessibility)
		assert.Equal(t, types.NewModifierSet(types.ModifierNew, types.ModifierVirtual), c.Modifiers)
	})
}

func TestAccessors_Event(t *testing.T) {
	ev := &types.Entity{
		Kind:    types.EntityEvent,
		Name:    "Changed",
		Type:    types.Named("System.EventHandler"),
		Adder:   &types.Accessor{Visibility: types.VisibilityFamily, Flags: types.FlagVirtual | types.FlagNewSlot},
		Remover: &types.Accessor{Visibility: types.VisibilityFamily, Flags: types.FlagVirtual | types.FlagNewSlot},
	}

	c := Classify(ev)
	assert.Equal(t, types.AccessibilityProtected, c.Accessibility)
	assert.Equal(t, types.NewModifierSet(types.ModifierVirtual), c.Modifiers)
	assert.Nil(t, Accessors(ev).Restricted())
}
