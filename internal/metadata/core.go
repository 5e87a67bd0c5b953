package metadata

import (
	"strings"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/pkg/types"
)

// CoreScopeName names the built-in scope holding framework primitives
const CoreScopeName = "System.Runtime"

// referenceTypes are the built-ins that are not value types
var referenceTypes = map[string]bool{
	"System.Object": true,
	"System.String": true,
}

// CoreScope returns a scope with the framework types that identifiers and
// signatures may name without the model declaring them.
func CoreScope() *types.Scope {
	scope := &types.Scope{Name: CoreScopeName}

	add := func(fullName string, keyword types.TypeKeyword, generics ...string) {
		ns, name := splitName(fullName)
		t := &types.Entity{
			Kind:        types.EntityType,
			Name:        name,
			Namespace:   ns,
			Visibility:  types.VisibilityPublic,
			TypeKeyword: keyword,
		}
		for _, g := range generics {
			t.GenericParameters = append(t.GenericParameters, types.GenericParameter{Name: g})
		}
		scope.Types = append(scope.Types, t)
	}

	for _, name := range canon.BuiltinNames() {
		keyword := types.KeywordStruct
		if referenceTypes[name] {
			keyword = types.KeywordClass
		}
		add(name, keyword)
	}
	add("System.ValueType", types.KeywordClass)
	add("System.Enum", types.KeywordClass)
	add("System.Delegate", types.KeywordClass)
	add("System.Nullable", types.KeywordStruct, "T")
	return scope
}

func splitName(fullName string) (ns, name string) {
	idx := strings.LastIndexByte(fullName, '.')
	if idx < 0 {
		return "", fullName
	}
	return fullName[:idx], fullName[idx+1:]
}
