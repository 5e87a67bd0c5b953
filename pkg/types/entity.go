package types

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityKind represents the kind of declared program element
type EntityKind string

const (
	EntityType     EntityKind = "type"
	EntityDelegate EntityKind = "delegate"
	EntityMethod   EntityKind = "method"
	EntityEvent    EntityKind = "event"
	EntityProperty EntityKind = "property"
	EntityField    EntityKind = "field"
)

// Valid reports whether k is a known entity kind
func (k EntityKind) Valid() bool {
	switch k {
	case EntityType, EntityDelegate, EntityMethod, EntityEvent, EntityProperty, EntityField:
		return true
	default:
		return false
	}
}

// TypeKeyword is the declaration keyword of a type entity
type TypeKeyword string

const (
	KeywordClass        TypeKeyword = "class"
	KeywordStruct       TypeKeyword = "struct"
	KeywordInterface    TypeKeyword = "interface"
	KeywordEnum         TypeKeyword = "enum"
	KeywordRecord       TypeKeyword = "record"
	KeywordRecordStruct TypeKeyword = "record struct"
)

// IsValueType reports whether the keyword declares a value type
func (k TypeKeyword) IsValueType() bool {
	return k == KeywordStruct || k == KeywordRecordStruct || k == KeywordEnum
}

// Variance is the variance annotation of a generic parameter
type Variance string

const (
	VarianceNone          Variance = ""
	VarianceCovariant     Variance = "out"
	VarianceContravariant Variance = "in"
)

// Direction is how a parameter is passed
type Direction string

const (
	DirectionNone Direction = ""
	DirectionRef  Direction = "ref"
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
)

// RefKind describes a by-reference return
type RefKind string

const (
	RefNone     RefKind = ""
	RefReturn   RefKind = "ref"
	RefReadonly RefKind = "ref_readonly"
)

// GenericParameter is a type or method generic parameter with its constraints
type GenericParameter struct {
	Name     string   `json:"name"`
	Variance Variance `json:"variance,omitempty"`

	ReferenceType         bool `json:"reference_type,omitempty"`
	NullableReferenceType bool `json:"nullable_reference_type,omitempty"`
	ValueType             bool `json:"value_type,omitempty"`
	Unmanaged             bool `json:"unmanaged,omitempty"`
	NotNull               bool `json:"not_null,omitempty"`
	DefaultConstructor    bool `json:"default_constructor,omitempty"`

	ConstraintTypes []*TypeRef `json:"constraint_types,omitempty"`
}

// HasConstraints reports whether any constraint is present
func (g *GenericParameter) HasConstraints() bool {
	return g.ReferenceType || g.NullableReferenceType || g.ValueType || g.Unmanaged ||
		g.NotNull || g.DefaultConstructor || len(g.ConstraintTypes) > 0
}

// Parameter is a method, delegate or indexer parameter
type Parameter struct {
	Name        string       `json:"name"`
	Direction   Direction    `json:"direction,omitempty"`
	This        bool         `json:"this,omitempty"`
	Params      bool         `json:"params,omitempty"`
	Type        *TypeRef     `json:"type"`
	Default     *Literal     `json:"default,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// IsByRef reports whether the parameter is passed by reference
func (p *Parameter) IsByRef() bool {
	return p.Direction != DirectionNone || p.Type.IsByRef()
}

// Accessor is a property or event accessor
type Accessor struct {
	Visibility        Visibility   `json:"visibility,omitempty"`
	Flags             Flags        `json:"flags,omitempty"`
	Annotations       []Annotation `json:"annotations,omitempty"`
	ReturnAnnotations []Annotation `json:"return_annotations,omitempty"`
}

// Entity is one declared program element from the metadata model
type Entity struct {
	Kind      EntityKind `json:"kind"`
	Name      string     `json:"name"`
	Namespace string     `json:"namespace,omitempty"`

	// Assembly and DeclaringType are set when the model is linked
	Assembly      string  `json:"-"`
	DeclaringType *Entity `json:"-"`

	Visibility Visibility `json:"visibility,omitempty"`
	Flags      Flags      `json:"flags,omitempty"`

	// Types and delegates
	TypeKeyword TypeKeyword `json:"type_keyword,omitempty"`
	BaseType    *TypeRef    `json:"base_type,omitempty"`
	Interfaces  []*TypeRef  `json:"interfaces,omitempty"`
	Members     []*Entity   `json:"members,omitempty"`

	GenericParameters []GenericParameter `json:"generic_parameters,omitempty"`
	Parameters        []Parameter        `json:"parameters,omitempty"`

	// Type is the declared type of fields, properties and events, and the
	// return type of methods and delegates.
	Type    *TypeRef `json:"type,omitempty"`
	RefKind RefKind  `json:"ref_kind,omitempty"`

	Annotations       []Annotation `json:"annotations,omitempty"`
	ReturnAnnotations []Annotation `json:"return_annotations,omitempty"`

	Getter  *Accessor `json:"getter,omitempty"`
	Setter  *Accessor `json:"setter,omitempty"`
	Adder   *Accessor `json:"adder,omitempty"`
	Remover *Accessor `json:"remover,omitempty"`

	IsIndexer bool `json:"indexer,omitempty"`
	FixedSize int  `json:"fixed_size,omitempty"`

	DocID         string `json:"doc_id,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	IsDeclared    bool   `json:"declared,omitempty"`
}

// IsTypeLike reports whether the entity is a type or delegate
func (e *Entity) IsTypeLike() bool {
	return e.Kind == EntityType || e.Kind == EntityDelegate
}

// IsConstructor reports whether the entity is an instance or static constructor
func (e *Entity) IsConstructor() bool {
	return e.Kind == EntityMethod && (e.Name == ".ctor" || e.Name == ".cctor")
}

// HasDocumentation reports whether the entity has its own documentation text
func (e *Entity) HasDocumentation() bool {
	return strings.TrimSpace(e.Documentation) != ""
}

// MetadataName returns the entity name with the generic arity suffix used
// by metadata lookups, e.g. "List`1".
func (e *Entity) MetadataName() string {
	if e.IsTypeLike() && len(e.GenericParameters) > 0 {
		return e.Name + "`" + strconv.Itoa(len(e.GenericParameters))
	}
	return e.Name
}

// FullName returns the dotted, fully qualified metadata name
func (e *Entity) FullName() string {
	switch {
	case e.DeclaringType != nil:
		return e.DeclaringType.FullName() + "." + e.MetadataName()
	case e.Namespace != "":
		return e.Namespace + "." + e.MetadataName()
	default:
		return e.MetadataName()
	}
}

// OuterGenericCount returns the number of generic parameters declared by
// enclosing types. Type-owned generic positions start after them.
func (e *Entity) OuterGenericCount() int {
	n := 0
	for t := e.DeclaringType; t != nil; t = t.DeclaringType {
		n += len(t.GenericParameters)
	}
	return n
}

// Member returns the first direct member with the given name and kind
func (e *Entity) Member(kind EntityKind, name string) *Entity {
	for _, m := range e.Members {
		if m.Kind == kind && m.Name == name {
			return m
		}
	}
	return nil
}

// Validate performs structural validation of the entity and its members
func (e *Entity) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: entity name is required", ErrInvalidEntity)
	}

	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %s has invalid kind %q", ErrInvalidEntity, e.Name, e.Kind)
	}

	if !e.Visibility.Valid() {
		return fmt.Errorf("%w: %s has invalid visibility %q", ErrInvalidEntity, e.Name, e.Visibility)
	}

	// Only types nest members
	if !e.IsTypeLike() && len(e.Members) > 0 {
		return fmt.Errorf("%w: %s %s cannot declare members", ErrInvalidEntity, e.Kind, e.Name)
	}

	switch e.Kind {
	case EntityField, EntityProperty, EntityEvent:
		if e.Type == nil {
			return fmt.Errorf("%w: %s %s has no declared type", ErrInvalidEntity, e.Kind, e.Name)
		}
	}

	if e.Kind == EntityProperty && e.Getter == nil && e.Setter == nil {
		return fmt.Errorf("%w: property %s has no accessors", ErrInvalidEntity, e.Name)
	}

	if e.Type != nil {
		if err := e.Type.Validate(); err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
	}

	for i := range e.Parameters {
		if err := e.Parameters[i].Type.Validate(); err != nil {
			return fmt.Errorf("%s parameter %d: %w", e.Name, i, err)
		}
	}

	return nil
}

// Scope is one loaded program (assembly) and its top-level types
type Scope struct {
	Name  string    `json:"name"`
	File  string    `json:"file,omitempty"`
	Types []*Entity `json:"types"`
}
