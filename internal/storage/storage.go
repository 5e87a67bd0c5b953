package storage

import (
	"context"
	"time"

	"github.com/dshills/csdocs/pkg/types"
)

// Storage defines the interface for persisting and querying extracted documentation
type Storage interface {
	// Program operations
	UpsertProgram(ctx context.Context, program *Program) error
	GetProgram(ctx context.Context, assemblyFile string) (*Program, error)
	GetProgramByID(ctx context.Context, programID int64) (*Program, error)
	ListPrograms(ctx context.Context) ([]*Program, error)
	DeleteProgram(ctx context.Context, programID int64) error

	// Declaration operations
	InsertDeclaration(ctx context.Context, decl *Declaration) error
	GetDeclaration(ctx context.Context, programID int64, docID string) (*Declaration, error)
	GetDeclarationByID(ctx context.Context, declID int64) (*Declaration, error)
	ListDeclarations(ctx context.Context, programID int64) ([]*Declaration, error)
	ListChildren(ctx context.Context, parentID int64) ([]*Declaration, error)
	DeleteDeclarationsByProgram(ctx context.Context, programID int64) (deletedCount int, err error)
	ReplaceDeclarations(ctx context.Context, programID int64, payload *types.Payload) (insertedCount int, err error)

	// Search operations
	SearchDeclarations(ctx context.Context, programID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error)

	// Status operations
	GetStatus(ctx context.Context, programID int64) (*ProgramStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Program represents one extracted assembly
type Program struct {
	ID                int64
	AssemblyFile      string
	RunID             string
	TotalTypes        int
	TotalDeclarations int
	SchemaVersion     string
	LastExtractedAt   time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Declaration is a stored DeclarationRecord. Member rows point at their
// containing type through ParentID.
type Declaration struct {
	ID            int64
	ProgramID     int64
	ParentID      *int64 // Nullable
	Namespace     string
	Kind          types.DeclarationKind
	DocID         string
	Title         string
	Declaration   string
	Documentation string
	IsDeclared    bool
	AssemblyFile  string
	Position      int // Payload order within the program
	CreatedAt     time.Time
}

// ToRecord converts a stored declaration to a record without children
func (d *Declaration) ToRecord() *types.DeclarationRecord {
	rec := types.NewDeclarationRecord()
	rec.Title = d.Title
	rec.AssemblyFile = d.AssemblyFile
	rec.Declaration = d.Declaration
	rec.Kind = d.Kind
	rec.Id = d.DocID
	rec.Documentation = d.Documentation
	rec.IsDeclared = d.IsDeclared
	return rec
}

// FromRecord converts a record to a declaration row
func FromRecord(rec *types.DeclarationRecord, programID int64, namespace string) *Declaration {
	return &Declaration{
		ProgramID:     programID,
		Namespace:     namespace,
		Kind:          rec.Kind,
		DocID:         rec.Id,
		Title:         rec.Title,
		Declaration:   rec.Declaration,
		Documentation: rec.Documentation,
		IsDeclared:    rec.IsDeclared,
		AssemblyFile:  rec.AssemblyFile,
	}
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	Kinds        []types.DeclarationKind // Filter by record kind
	Namespace    string                  // Exact namespace match
	MinRelevance float64                 // Minimum relevance score
}

// TextResult represents a result from full-text search
type TextResult struct {
	DeclarationID int64
	BM25Score     float64
}

// ProgramStatus contains statistics about an extracted program
type ProgramStatus struct {
	Program           *Program
	DeclarationsCount int
	TypesCount        int
	MembersCount      int
	NamespacesCount   int
	DatabaseSizeBytes int64
	LastExtractedAt   time.Time
	Health            HealthStatus
}

// HealthStatus represents the health of the store
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}
