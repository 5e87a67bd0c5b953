package resolver

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/pkg/types"
)

func method(name string, params ...types.Parameter) *types.Entity {
	return &types.Entity{
		Kind:       types.EntityMethod,
		Name:       name,
		Visibility: types.VisibilityPublic,
		Parameters: params,
	}
}

func param(name string, t *types.TypeRef) types.Parameter {
	return types.Parameter{Name: name, Type: t}
}

// setupModel builds N.C with a set of overloads and a generic nested type
func setupModel(t *testing.T) *metadata.Model {
	t.Helper()

	intString := method("Method",
		param("i", types.Named("System.Int32")),
		param("s", types.Named("System.String")))
	intString.Documentation = "int, string"

	stringInt := method("Method",
		param("s", types.Named("System.String")),
		param("i", types.Named("System.Int32")))

	generic := method("Method", param("t", types.MethodParam("T", 0)))
	generic.GenericParameters = []types.GenericParameter{{Name: "T"}}

	genericInt := method("Method", param("i", types.Named("System.Int32")))
	genericInt.GenericParameters = []types.GenericParameter{{Name: "T"}}

	byRef := method("TryParse",
		param("s", types.Named("System.String")),
		types.Parameter{Name: "v", Direction: types.DirectionOut, Type: types.ByRefOf(types.Named("System.Int32"))})

	arrays := method("Sum",
		param("xs", types.ArrayOf(types.NullableOf(types.Named("System.Int32")), 1)),
		param("grid", types.ArrayOf(types.Named("System.Double"), 2)),
		param("p", types.PointerOf(types.Named("System.Byte"), 2)))

	item := &types.Entity{
		Kind: types.EntityProperty, Name: "Item", IsIndexer: true,
		Type:       types.Named("System.String"),
		Getter:     &types.Accessor{Visibility: types.VisibilityPublic},
		Parameters: []types.Parameter{param("i", types.Named("System.Int32"))},
	}
	itemByName := &types.Entity{
		Kind: types.EntityProperty, Name: "Item", IsIndexer: true,
		Type:       types.Named("System.String"),
		Getter:     &types.Accessor{Visibility: types.VisibilityPublic},
		Parameters: []types.Parameter{param("name", types.Named("System.String"))},
	}

	inner := &types.Entity{
		Kind: types.EntityType, Name: "Inner", TypeKeyword: types.KeywordClass,
		Visibility: types.VisibilityPublic,
		Members: []*types.Entity{
			method("Use", param("t", types.TypeParam("T", 0))),
		},
	}
	outer := &types.Entity{
		Kind: types.EntityType, Name: "Outer", Namespace: "N", TypeKeyword: types.KeywordClass,
		Visibility:        types.VisibilityPublic,
		GenericParameters: []types.GenericParameter{{Name: "T"}},
		Members: []*types.Entity{
			inner,
			method("Wrap", param("list", types.Named("System.Collections.Generic.List`1", types.TypeParam("T", 0)))),
		},
	}

	c := &types.Entity{
		Kind: types.EntityType, Name: "C", Namespace: "N", TypeKeyword: types.KeywordClass,
		Visibility: types.VisibilityPublic,
		Members: []*types.Entity{
			{Kind: types.EntityMethod, Name: ".ctor", Visibility: types.VisibilityPublic},
			intString, stringInt, generic, genericInt, byRef, arrays,
			method("Method"),
			item, itemByName,
			{Kind: types.EntityField, Name: "X", Type: types.Named("System.Int32"), Visibility: types.VisibilityPublic},
			{Kind: types.EntityEvent, Name: "Changed", Type: types.Named("System.EventHandler"), Visibility: types.VisibilityPublic},
		},
	}

	model, err := metadata.NewModel(&types.Scope{Name: "Lib", Types: []*types.Entity{c, outer}})
	require.NoError(t, err)
	require.Empty(t, model.Issues())
	return model
}

func TestResolveOverloadByParameters(t *testing.T) {
	r := New(setupModel(t), Options{})

	got, err := r.Resolve("M:N.C.Method(System.Int32,System.String)")
	require.NoError(t, err)
	assert.Equal(t, "int, string", got.Documentation)
	require.Len(t, got.Parameters, 2)
	assert.Equal(t, "System.Int32", got.Parameters[0].Type.Name)

	got, err = r.Resolve("M:N.C.Method(System.String,System.Int32)")
	require.NoError(t, err)
	assert.Equal(t, "System.String", got.Parameters[0].Type.Name)

	got, err = r.Resolve("M:N.C.Method")
	require.NoError(t, err)
	assert.Empty(t, got.Parameters)
	assert.Empty(t, got.GenericParameters)
}

func TestResolveGenericSelfReference(t *testing.T) {
	r := New(setupModel(t), Options{})

	got, err := r.Resolve("M:N.C.Method``1(``0)")
	require.NoError(t, err)
	require.Len(t, got.GenericParameters, 1)
	require.Len(t, got.Parameters, 1)
	assert.Equal(t, types.TypeRefGenericParameter, got.Parameters[0].Type.Kind)
	assert.True(t, got.Parameters[0].Type.MethodOwned)

	got, err = r.Resolve("M:N.C.Method``1(System.Int32)")
	require.NoError(t, err)
	assert.Equal(t, "System.Int32", got.Parameters[0].Type.Name)

	// arity must agree even when the parameter list does
	_, err = r.Resolve("M:N.C.Method(``0)")
	assert.ErrorIs(t, err, types.ErrMissingMethod)

	// type-owned back-reference does not match a method-owned parameter
	_, err = r.Resolve("M:N.C.Method``1(`0)")
	assert.ErrorIs(t, err, types.ErrMissingMethod)
}

func TestResolveIdentifiers(t *testing.T) {
	r := New(setupModel(t), Options{})

	tests := []struct {
		id   string
		kind types.EntityKind
		name string
	}{
		{"T:N.C", types.EntityType, "C"},
		{"T:N.Outer`1", types.EntityType, "Outer"},
		{"T:N.Outer`1.Inner", types.EntityType, "Inner"},
		{"T:System.Int32", types.EntityType, "Int32"},
		{"M:N.C.#ctor", types.EntityMethod, ".ctor"},
		{"M:N.C.TryParse(System.String,System.Int32@)", types.EntityMethod, "TryParse"},
		{"M:N.C.Sum(System.Nullable{System.Int32}[],System.Double[0:,0:],System.Byte**)", types.EntityMethod, "Sum"},
		{"M:N.Outer`1.Wrap(System.Collections.Generic.List{`0})", types.EntityMethod, "Wrap"},
		{"M:N.Outer`1.Inner.Use(`0)", types.EntityMethod, "Use"},
		{"P:N.C.Item(System.String)", types.EntityProperty, "Item"},
		{"F:N.C.X", types.EntityField, "X"},
		{"E:N.C.Changed", types.EntityEvent, "Changed"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := r.Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.name, got.Name)
			if got.DeclaringType != nil {
				assert.Equal(t, tt.id, got.DocID)
			}
		})
	}

	item, err := r.Resolve("P:N.C.Item(System.String)")
	require.NoError(t, err)
	assert.Equal(t, "name", item.Parameters[0].Name)
}

func TestResolveErrors(t *testing.T) {
	r := New(setupModel(t), Options{})

	tests := []struct {
		id   string
		want error
	}{
		{"N:N.C", types.ErrUnsupportedIdentifierKind},
		{"M:Method", types.ErrMalformedIdentifier},
		{"T:N.Missing", types.ErrTypeNotFound},
		{"M:N.Missing.Method", types.ErrTypeNotFound},
		{"F:N.C.Y", types.ErrMissingField},
		{"P:N.C.Missing", types.ErrMissingMember},
		{"P:N.C.Item(System.Double)", types.ErrMissingMember},
		{"P:N.C.Item", types.ErrMissingMember},
		{"E:N.C.Missing", types.ErrMissingMember},
		{"M:N.C.Method(System.Int64)", types.ErrMissingMethod},
		{"M:N.C.TryParse(System.String,System.Int32)", types.ErrMissingMethod},
		{"M:N.C.Sum(System.Int32[],System.Double[0:,0:],System.Byte**)", types.ErrMissingMethod},
		{"M:N.C.Sum(System.Nullable{System.Int32}[],System.Double[],System.Byte**)", types.ErrMissingMethod},
		{"M:N.C.Sum(System.Nullable{System.Int32}[],System.Double[0:,0:],System.Byte*)", types.ErrMissingMethod},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := r.Resolve(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestResolveSingleIndexer(t *testing.T) {
	item := &types.Entity{
		Kind: types.EntityProperty, Name: "Item", IsIndexer: true,
		Type:       types.Named("System.String"),
		Getter:     &types.Accessor{Visibility: types.VisibilityPublic},
		Parameters: []types.Parameter{param("i", types.Named("System.Int32"))},
	}
	count := &types.Entity{
		Kind: types.EntityProperty, Name: "Count", Type: types.Named("System.Int32"),
		Getter: &types.Accessor{Visibility: types.VisibilityPublic},
	}
	c := &types.Entity{
		Kind: types.EntityType, Name: "C", Namespace: "N", TypeKeyword: types.KeywordClass,
		Visibility: types.VisibilityPublic,
		Members:    []*types.Entity{item, count},
	}
	model, err := metadata.NewModel(&types.Scope{Name: "Lib", Types: []*types.Entity{c}})
	require.NoError(t, err)
	r := New(model, Options{})

	got, err := r.Resolve("P:N.C.Item(System.Int32)")
	require.NoError(t, err)
	assert.Same(t, item, got)

	got, err = r.Resolve("P:N.C.Count")
	require.NoError(t, err)
	assert.Same(t, count, got)

	// a lone candidate is still checked against the parameter list
	_, err = r.Resolve("P:N.C.Item(System.String)")
	assert.ErrorIs(t, err, types.ErrMissingMember)
	_, err = r.Resolve("P:N.C.Item")
	assert.ErrorIs(t, err, types.ErrMissingMember)
	_, err = r.Resolve("P:N.C.Count(System.Int32)")
	assert.ErrorIs(t, err, types.ErrMissingMember)
}

func TestResolveAmbiguity(t *testing.T) {
	first := method("Run", param("x", types.Named("System.Int32")))
	first.Documentation = "first"
	second := method("Run", param("x", types.Named("System.Int32")))
	c := &types.Entity{
		Kind: types.EntityType, Name: "C", Namespace: "N", TypeKeyword: types.KeywordClass,
		Members: []*types.Entity{first, second},
	}
	// the duplicate identifier is rejected by the model, so link by hand
	model, err := metadata.NewModel(&types.Scope{Name: "Lib", Types: []*types.Entity{c}})
	require.NoError(t, err)
	c.Members = append(c.Members, second)
	second.DeclaringType = c

	got, err := New(model, Options{}).Resolve("M:N.C.Run(System.Int32)")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Documentation)

	_, err = New(model, Options{StrictOverloads: true}).Resolve("M:N.C.Run(System.Int32)")
	assert.ErrorIs(t, err, types.ErrAmbiguousMethod)
}

func TestResolveTypeConcurrent(t *testing.T) {
	model := setupModel(t)
	r := New(model, Options{})

	want, ok := model.FindType("N.Outer`1.Inner")
	require.True(t, ok)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]*types.Entity, workers)
	misses := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.ResolveType("N.Outer`1.Inner")
			_, misses[i] = r.ResolveType("N.Nope")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		assert.Same(t, want, results[i])
		assert.ErrorIs(t, misses[i], types.ErrTypeNotFound)
	}

	// each name is scanned once, whoever gets there first
	stats := r.CacheStats()
	assert.Equal(t, int64(2), stats.Entries)
	assert.Equal(t, int64(2), stats.Misses)
	// every other lookup was served by the cache or a shared scan
	assert.Equal(t, int64(2*workers-2), stats.Hits)
}

func TestResolveTypeMemoizesMisses(t *testing.T) {
	r := New(setupModel(t), Options{})

	_, err := r.ResolveType("N.Nope")
	require.ErrorIs(t, err, types.ErrTypeNotFound)
	_, err = r.ResolveType("N.Nope")
	require.ErrorIs(t, err, types.ErrTypeNotFound)

	stats := r.CacheStats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Entries)
}

func TestFindReferences(t *testing.T) {
	doc := `<summary>See <see cref="T:N.C"/> and <see cref='M:N.C.Method(System.Int32,System.String)'/>,
also <seealso cref="T:N.C"/> and <see cref="Unprefixed"/>.</summary>`

	assert.Equal(t, []string{"T:N.C", "M:N.C.Method(System.Int32,System.String)"}, FindReferences(doc))
	assert.Empty(t, FindReferences("no references"))
}
