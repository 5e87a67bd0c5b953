package types

import "fmt"

// DeclarationKind is the serialized kind of a DeclarationRecord. The
// numeric values are part of the output contract.
type DeclarationKind int

const (
	DeclarationType DeclarationKind = iota
	DeclarationDelegate
	DeclarationMethod
	DeclarationEvent
	DeclarationProperty
	DeclarationField
)

var declarationKindNames = [...]string{"Type", "Delegate", "Method", "Event", "Property", "Field"}

func (k DeclarationKind) String() string {
	if k < DeclarationType || k > DeclarationField {
		return fmt.Sprintf("DeclarationKind(%d)", int(k))
	}
	return declarationKindNames[k]
}

// ParseDeclarationKind maps a kind name (as returned by String) back to its value
func ParseDeclarationKind(name string) (DeclarationKind, error) {
	for i, n := range declarationKindNames {
		if n == name {
			return DeclarationKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown declaration kind %q", name)
}

// DeclarationKindOf maps an entity kind to its record kind
func DeclarationKindOf(k EntityKind) DeclarationKind {
	switch k {
	case EntityDelegate:
		return DeclarationDelegate
	case EntityMethod:
		return DeclarationMethod
	case EntityEvent:
		return DeclarationEvent
	case EntityProperty:
		return DeclarationProperty
	case EntityField:
		return DeclarationField
	default:
		return DeclarationType
	}
}

// DeclarationRecord is the emitted form of a documented entity
type DeclarationRecord struct {
	Title         string          `json:"Title"`
	AssemblyFile  string          `json:"AssemblyFile,omitempty"`
	Declaration   string          `json:"Declaration"`
	Kind          DeclarationKind `json:"Kind"`
	Id            string          `json:"Id"`
	Documentation string          `json:"Documentation"`
	IsDeclared    bool            `json:"IsDeclared"`

	Methods    []*DeclarationRecord `json:"Methods"`
	Events     []*DeclarationRecord `json:"Events"`
	Properties []*DeclarationRecord `json:"Properties"`
	Fields     []*DeclarationRecord `json:"Fields"`
}

// NewDeclarationRecord returns a record with empty, non-nil child collections
func NewDeclarationRecord() *DeclarationRecord {
	return &DeclarationRecord{
		Methods:    []*DeclarationRecord{},
		Events:     []*DeclarationRecord{},
		Properties: []*DeclarationRecord{},
		Fields:     []*DeclarationRecord{},
	}
}

// AddChild routes a member record into the collection for its kind
func (r *DeclarationRecord) AddChild(child *DeclarationRecord) error {
	switch child.Kind {
	case DeclarationMethod:
		r.Methods = append(r.Methods, child)
	case DeclarationEvent:
		r.Events = append(r.Events, child)
	case DeclarationProperty:
		r.Properties = append(r.Properties, child)
	case DeclarationField:
		r.Fields = append(r.Fields, child)
	default:
		return fmt.Errorf("%s record %s cannot be a member", child.Kind, child.Id)
	}
	return nil
}

// Children returns all child records in Methods, Events, Properties, Fields order
func (r *DeclarationRecord) Children() []*DeclarationRecord {
	out := make([]*DeclarationRecord, 0, len(r.Methods)+len(r.Events)+len(r.Properties)+len(r.Fields))
	out = append(out, r.Methods...)
	out = append(out, r.Events...)
	out = append(out, r.Properties...)
	out = append(out, r.Fields...)
	return out
}

// ChildCount returns the number of child records
func (r *DeclarationRecord) ChildCount() int {
	return len(r.Methods) + len(r.Events) + len(r.Properties) + len(r.Fields)
}

// GlobalNamespace is the display name used for types without a namespace
const GlobalNamespace = "<global namespace>"

// Payload is the complete output of one extraction run
type Payload struct {
	AssemblyFile string                          `json:"AssemblyFile"`
	Declarations map[string][]*DeclarationRecord `json:"Declarations"`
}

// RecordCount returns the number of records in the payload, children included
func (p *Payload) RecordCount() int {
	n := 0
	for _, records := range p.Declarations {
		for _, r := range records {
			n += 1 + r.ChildCount()
		}
	}
	return n
}
