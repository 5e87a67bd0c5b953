package metadata

import (
	"fmt"

	"github.com/dshills/csdocs/internal/docid"
	"github.com/dshills/csdocs/pkg/types"
)

// Model is a linked, indexed metadata model snapshot. Once built it is
// treated as immutable.
type Model struct {
	scopes []*types.Scope
	core   *types.Scope

	// typeIndex holds one full-name index per scope, in scope order
	typeIndex []map[string]*types.Entity
	byDocID   map[string]*types.Entity
	all       []*types.Entity
	issues    []Issue
}

// Issue is a non-fatal problem found while linking the model
type Issue struct {
	Scope   string
	Entity  string
	Message string
}

func (i Issue) String() string {
	if i.Entity == "" {
		return fmt.Sprintf("%s: %s", i.Scope, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Scope, i.Entity, i.Message)
}

// NewModel links the given scopes and builds lookup indexes. A built-in
// core scope with the framework primitives is appended after them. Invalid
// entities are dropped and reported through Issues.
func NewModel(scopes ...*types.Scope) (*Model, error) {
	if len(scopes) == 0 {
		return nil, types.ErrNoScopes
	}

	m := &Model{
		scopes:  scopes,
		core:    CoreScope(),
		byDocID: make(map[string]*types.Entity),
	}

	for _, scope := range append(append([]*types.Scope{}, scopes...), m.core) {
		if scope == nil {
			return nil, fmt.Errorf("%w: nil scope", types.ErrNoScopes)
		}
		index := make(map[string]*types.Entity)
		scope.Types = m.linkTypes(scope, scope.Types, nil, index)
		m.typeIndex = append(m.typeIndex, index)
	}
	return m, nil
}

// linkTypes sets back-references, fills in identifiers and indexes a list
// of sibling types, returning the valid ones.
func (m *Model) linkTypes(scope *types.Scope, list []*types.Entity, owner *types.Entity, index map[string]*types.Entity) []*types.Entity {
	kept := list[:0]
	for _, t := range list {
		if t == nil {
			continue
		}
		if !t.IsTypeLike() {
			m.issue(scope, t.Name, fmt.Sprintf("%s cannot appear in a type list", t.Kind))
			continue
		}

		t.Assembly = scope.Name
		t.DeclaringType = owner
		if owner != nil {
			t.Namespace = owner.Namespace
		}

		if err := t.Validate(); err != nil {
			m.issue(scope, t.Name, err.Error())
			continue
		}

		full := t.FullName()
		if _, dup := index[full]; dup {
			m.issue(scope, full, "duplicate type name")
			continue
		}
		if !m.register(scope, t) {
			continue
		}
		index[full] = t
		if scope != m.core {
			m.all = append(m.all, t)
		}

		t.Members = m.linkMembers(scope, t, index)
		kept = append(kept, t)
	}
	return kept
}

func (m *Model) linkMembers(scope *types.Scope, owner *types.Entity, index map[string]*types.Entity) []*types.Entity {
	var nested []*types.Entity
	kept := make([]*types.Entity, 0, len(owner.Members))

	for _, mem := range owner.Members {
		if mem == nil {
			continue
		}
		if mem.IsTypeLike() {
			nested = append(nested, mem)
			continue
		}

		mem.Assembly = scope.Name
		mem.DeclaringType = owner
		mem.Namespace = owner.Namespace
		if err := mem.Validate(); err != nil {
			m.issue(scope, owner.FullName()+"."+mem.Name, err.Error())
			continue
		}
		if !m.register(scope, mem) {
			continue
		}
		kept = append(kept, mem)
	}

	return append(kept, m.linkTypes(scope, nested, owner, index)...)
}

// register assigns the documentation identifier and indexes it
func (m *Model) register(scope *types.Scope, e *types.Entity) bool {
	if e.DocID == "" {
		e.DocID = docid.For(e)
	}
	if _, dup := m.byDocID[e.DocID]; dup {
		// loaded scopes may declare framework types themselves
		if scope != m.core {
			m.issue(scope, e.DocID, "duplicate documentation identifier")
		}
		return false
	}
	m.byDocID[e.DocID] = e
	return true
}

func (m *Model) issue(scope *types.Scope, entity, msg string) {
	m.issues = append(m.issues, Issue{Scope: scope.Name, Entity: entity, Message: msg})
}

// Scopes returns the loaded scopes, excluding the built-in core scope
func (m *Model) Scopes() []*types.Scope {
	return m.scopes
}

// Issues returns the non-fatal problems found while linking
func (m *Model) Issues() []Issue {
	return m.issues
}

// Types returns every type and delegate of the loaded scopes, nested types
// included, in declaration order.
func (m *Model) Types() []*types.Entity {
	return m.all
}

// FindType scans the scopes in order and returns the first type whose
// fully qualified metadata name matches.
func (m *Model) FindType(fullName string) (*types.Entity, bool) {
	for _, index := range m.typeIndex {
		if t, ok := index[fullName]; ok {
			return t, true
		}
	}
	return nil, false
}

// ByDocID returns the entity registered under a documentation identifier
func (m *Model) ByDocID(id string) (*types.Entity, bool) {
	e, ok := m.byDocID[id]
	return e, ok
}

// AssemblyFile returns the file identifier of the first scope
func (m *Model) AssemblyFile() string {
	for _, s := range m.scopes {
		if s.File != "" {
			return s.File
		}
	}
	if len(m.scopes) > 0 {
		return m.scopes[0].Name
	}
	return ""
}

// ScopeFile returns the file identifier of the named scope
func (m *Model) ScopeFile(name string) string {
	for _, s := range m.scopes {
		if s.Name == name {
			if s.File != "" {
				return s.File
			}
			return s.Name
		}
	}
	return name
}
