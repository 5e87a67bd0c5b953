package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/csdocs/pkg/types"
)

func nullableAnnotation() types.Annotation {
	return types.Annotation{
		Name: "System.Runtime.CompilerServices.NullableAttribute",
		Args: []types.Literal{{Type: types.LiteralByte, Value: "2"}},
	}
}

func testClass() *types.Entity {
	return &types.Entity{
		Kind:        types.EntityType,
		Name:        "C",
		Namespace:   "N",
		Visibility:  types.VisibilityPublic,
		TypeKeyword: types.KeywordClass,
	}
}

func member(owner *types.Entity, m *types.Entity) *types.Entity {
	m.DeclaringType = owner
	owner.Members = append(owner.Members, m)
	return m
}

func TestStrategies_Order(t *testing.T) {
	kinds := make([]types.DeclarationKind, 0, 6)
	for _, s := range Strategies() {
		kinds = append(kinds, s.Kind())
	}

	assert.Equal(t, []types.DeclarationKind{
		types.DeclarationDelegate,
		types.DeclarationEvent,
		types.DeclarationField,
		types.DeclarationMethod,
		types.DeclarationType,
		types.DeclarationProperty,
	}, kinds)
}

type alwaysStrategy struct{ text string }

func (alwaysStrategy) Kind() types.DeclarationKind { return types.DeclarationType }

func (alwaysStrategy) IsSupported(*types.Entity) bool { return true }

func (s alwaysStrategy) Render(*types.Entity) (string, error) { return s.text, nil }

func TestEngine_FirstSupportedStrategyWins(t *testing.T) {
	engine := NewEngineWithStrategies(alwaysStrategy{"first"}, alwaysStrategy{"second"})

	text, err := engine.Render(testClass())
	require.NoError(t, err)
	assert.Equal(t, "first", text)
}

func TestEngine_Unsupported(t *testing.T) {
	engine := NewEngineWithStrategies(fieldStrategy{})

	_, err := engine.Render(testClass())
	assert.ErrorIs(t, err, types.ErrUnsupportedEntity)
}

func TestEngine_InvalidEntity(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Render(&types.Entity{Kind: types.EntityField, Name: "X"})
	assert.ErrorIs(t, err, types.ErrInvalidEntity)

	_, err = engine.Render(nil)
	assert.ErrorIs(t, err, types.ErrInvalidEntity)
}

func TestEngine_DoesNotMutate(t *testing.T) {
	owner := testClass()
	prop := member(owner, &types.Entity{
		Kind:        types.EntityProperty,
		Name:        "Property",
		Visibility:  types.VisibilityPublic,
		Type:        types.Named("System.String"),
		Annotations: []types.Annotation{nullableAnnotation()},
		Getter:      &types.Accessor{Visibility: types.VisibilityPublic, Flags: types.FlagReadonly | types.FlagCompilerGenerated},
	})
	before := *prop
	before.Getter = &types.Accessor{Visibility: prop.Getter.Visibility, Flags: prop.Getter.Flags}

	_, err := NewEngine().Render(prop)
	require.NoError(t, err)

	assert.Equal(t, before.Getter, prop.Getter)
	assert.Equal(t, before.Annotations, prop.Annotations)
}

func TestRender_Field(t *testing.T) {
	owner := testClass()
	engine := NewEngine()

	tests := []struct {
		name  string
		field *types.Entity
		want  string
	}{
		{
			name: "static readonly",
			field: &types.Entity{
				Kind: types.EntityField, Name: "X", Visibility: types.VisibilityPublic,
				Flags: types.FlagStatic | types.FlagInitOnly, Type: types.Named("System.Int32"),
			},
			want: "public static readonly int X;",
		},
		{
			name: "volatile",
			field: &types.Entity{
				Kind: types.EntityField, Name: "Field", Visibility: types.VisibilityPublic,
				Flags: types.FlagVolatile, Type: types.Named("System.Int32"),
			},
			want: "public volatile int Field;",
		},
		{
			name: "const",
			field: &types.Entity{
				Kind: types.EntityField, Name: "Max", Visibility: types.VisibilityFamilyOrAssembly,
				Flags: types.FlagStatic | types.FlagLiteral, Type: types.Named("System.Int64"),
			},
			want: "protected internal const long Max;",
		},
		{
			name: "fixed buffer",
			field: &types.Entity{
				Kind: types.EntityField, Name: "FArr", Visibility: types.VisibilityPublic,
				Type: types.Named("System.Int32"), FixedSize: 16,
			},
			want: "public fixed int FArr[16];",
		},
		{
			name: "keyword name with attribute",
			field: &types.Entity{
				Kind: types.EntityField, Name: "event", Visibility: types.VisibilityPrivate,
				Type: types.Named("System.String"),
				Annotations: []types.Annotation{
					{Name: "System.ObsoleteAttribute", Args: []types.Literal{{Type: types.LiteralString, Value: "use \"other\""}}},
					nullableAnnotation(),
				},
			},
			want: "[System.Obsolete(\"use \\\"other\\\"\")]\nprivate string? @event;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := member(owner, tt.field)
			text, err := engine.Render(f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestRender_Property(t *testing.T) {
	owner := testClass()
	engine := NewEngine()
	public := types.VisibilityPublic

	tests := []struct {
		name string
		prop *types.Entity
		want string
	}{
		{
			name: "read-only auto property",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Property", Type: types.Named("System.String"),
				Annotations: []types.Annotation{nullableAnnotation()},
				Getter:      &types.Accessor{Visibility: public, Flags: types.FlagReadonly | types.FlagCompilerGenerated},
			},
			want: "public string? Property { get; }",
		},
		{
			name: "ref readonly indexer",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Item", IsIndexer: true, RefKind: types.RefReadonly,
				Type:       types.Named("System.Int32"),
				Parameters: []types.Parameter{{Name: "i", Type: types.Named("System.Int32")}},
				Getter:     &types.Accessor{Visibility: public},
			},
			want: "public ref readonly int this[int i] { get; }",
		},
		{
			name: "init setter",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Property", Type: types.Named("System.String"),
				Annotations: []types.Annotation{nullableAnnotation()},
				Getter:      &types.Accessor{Visibility: public},
				Setter:      &types.Accessor{Visibility: public, Flags: types.FlagExternalInit},
			},
			want: "public string? Property { get; init; }",
		},
		{
			name: "private setter",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Count", Type: types.Named("System.Int32"),
				Getter: &types.Accessor{Visibility: public, Flags: types.FlagVirtual | types.FlagNewSlot},
				Setter: &types.Accessor{Visibility: types.VisibilityPrivate, Flags: types.FlagVirtual | types.FlagNewSlot},
			},
			want: "public virtual int Count { get; private set; }",
		},
		{
			name: "symmetric",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Name", Type: types.Named("System.String"),
				Getter: &types.Accessor{Visibility: public, Flags: types.FlagStatic},
				Setter: &types.Accessor{Visibility: public, Flags: types.FlagStatic},
			},
			want: "public static string Name { get; set; }",
		},
		{
			name: "explicit readonly getter",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Length", Type: types.Named("System.Double"),
				Getter: &types.Accessor{Visibility: public, Flags: types.FlagReadonly},
			},
			want: "public double Length { readonly get; }",
		},
		{
			name: "multiline with accessor attributes",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "Value", Type: types.Named("System.Int32"),
				Getter: &types.Accessor{
					Visibility:  public,
					Annotations: []types.Annotation{{Name: "N.TracedAttribute"}},
				},
				Setter: &types.Accessor{
					Visibility:        types.VisibilityFamily,
					ReturnAnnotations: []types.Annotation{{Name: "N.CheckedAttribute"}},
				},
			},
			want: "public int Value\n{\n    [N.Traced]\n    get;\n    [return: N.Checked]\n    protected set;\n}",
		},
		{
			name: "compiler generated accessors stay compact",
			prop: &types.Entity{
				Kind: types.EntityProperty, Name: "X", Type: types.Named("System.Int32"),
				Getter: &types.Accessor{
					Visibility:  public,
					Annotations: []types.Annotation{{Name: "System.Runtime.CompilerServices.CompilerGeneratedAttribute"}},
				},
				Setter: &types.Accessor{
					Visibility:  public,
					Annotations: []types.Annotation{{Name: "System.Runtime.CompilerServices.CompilerGeneratedAttribute"}},
				},
			},
			want: "public int X { get; set; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := member(owner, tt.prop)
			text, err := engine.Render(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.NotContains(t, strings.Fields(text), "init")
		})
	}
}

func TestRender_Event(t *testing.T) {
	owner := testClass()
	ev := member(owner, &types.Entity{
		Kind:    types.EntityEvent,
		Name:    "Changed",
		Type:    types.Named("System.EventHandler"),
		Adder:   &types.Accessor{Visibility: types.VisibilityPublic, Flags: types.FlagVirtual | types.FlagNewSlot},
		Remover: &types.Accessor{Visibility: types.VisibilityPublic, Flags: types.FlagVirtual | types.FlagNewSlot},
	})

	text, err := NewEngine().Render(ev)
	require.NoError(t, err)
	assert.Equal(t, "public virtual event System.EventHandler Changed { add; remove; }", text)

	fieldLike := member(owner, &types.Entity{
		Kind: types.EntityEvent, Name: "Raised", Visibility: types.VisibilityAssembly,
		Type: types.Named("System.Action"),
	})
	text, err = NewEngine().Render(fieldLike)
	require.NoError(t, err)
	assert.Equal(t, "internal event System.Action Raised { add; remove; }", text)
}

func TestTitleAndDisplayName(t *testing.T) {
	owner := testClass()
	owner.GenericParameters = []types.GenericParameter{{Name: "T"}, {Name: "U", Variance: types.VarianceCovariant}}
	ctor := member(owner, &types.Entity{Kind: types.EntityMethod, Name: ".ctor"})
	method := member(owner, &types.Entity{Kind: types.EntityMethod, Name: "Map", GenericParameters: []types.GenericParameter{{Name: "V"}}})

	assert.Equal(t, "C<T, U>", Title(owner))
	assert.Equal(t, "C", Title(ctor))
	assert.Equal(t, "Map<V>", Title(method))
	assert.Equal(t, "C", DisplayName(owner))
	assert.Equal(t, "C.Map<V>", DisplayName(method))
}

// leadingModifiers collects the modifier keywords that follow the
// accessibility keywords at the start of a rendered declaration.
func leadingModifiers(t *testing.T, text string) (types.ModifierSet, string) {
	t.Helper()
	var (
		set   types.ModifierSet
		words []string
	)
	for _, tok := range strings.Fields(text) {
		switch tok {
		case "public", "private", "protected", "internal":
			continue
		}
		m, ok := types.ParseModifierKeyword(tok)
		if !ok {
			break
		}
		set = set.With(m)
		words = append(words, tok)
	}
	return set, strings.Join(words, " ")
}

func TestRender_ModifierOrderRoundTrip(t *testing.T) {
	owner := testClass()
	engine := NewEngine()
	public := types.VisibilityPublic

	tests := []struct {
		name   string
		entity *types.Entity
		want   types.ModifierSet
	}{
		{
			name: "method",
			entity: &types.Entity{
				Kind: types.EntityMethod, Name: "ToString", Visibility: public,
				Flags: types.FlagVirtual | types.FlagFinal | types.FlagHidesBase, Type: types.Named("System.String"),
			},
			want: types.NewModifierSet(types.ModifierNew, types.ModifierSealed, types.ModifierOverride),
		},
		{
			name: "field",
			entity: &types.Entity{
				Kind: types.EntityField, Name: "Default", Visibility: public,
				Flags: types.FlagStatic | types.FlagInitOnly, Type: types.Named("System.Int32"),
			},
			want: types.NewModifierSet(types.ModifierStatic, types.ModifierReadonly),
		},
		{
			name: "property",
			entity: &types.Entity{
				Kind: types.EntityProperty, Name: "Shared", Type: types.Named("System.Int32"),
				Getter: &types.Accessor{Visibility: public, Flags: types.FlagHidesBase | types.FlagVirtual | types.FlagNewSlot},
				Setter: &types.Accessor{Visibility: public, Flags: types.FlagHidesBase | types.FlagVirtual | types.FlagNewSlot},
			},
			want: types.NewModifierSet(types.ModifierNew, types.ModifierVirtual),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := engine.Render(member(owner, tt.entity))
			require.NoError(t, err)

			parsed, written := leadingModifiers(t, text)
			assert.Equal(t, tt.want, parsed)
			// the rendered order is the canonical order of the parsed set
			assert.Equal(t, parsed.String(), written)
		})
	}
}
