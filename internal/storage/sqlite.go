package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dshills/csdocs/pkg/types"
)

// ErrNotFound is returned when a requested entity doesn't exist
var ErrNotFound = errors.New("not found")

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Program operations

// upsertProgramWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertProgramWithQuerier(ctx context.Context, q querier, program *Program) error {
	query := `
		INSERT INTO programs (assembly_file, run_id, total_types, total_declarations, schema_version,
		                      last_extracted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(assembly_file) DO UPDATE SET
			run_id = excluded.run_id,
			total_types = excluded.total_types,
			total_declarations = excluded.total_declarations,
			schema_version = excluded.schema_version,
			last_extracted_at = excluded.last_extracted_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	if program.SchemaVersion == "" {
		program.SchemaVersion = CurrentSchemaVersion
	}
	if program.LastExtractedAt.IsZero() {
		program.LastExtractedAt = time.Now()
	}
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		program.AssemblyFile, program.RunID, program.TotalTypes, program.TotalDeclarations,
		program.SchemaVersion, program.LastExtractedAt, now, now).Scan(&program.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert program: %w", err)
	}
	program.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertProgram(ctx context.Context, program *Program) error {
	return s.upsertProgramWithQuerier(ctx, s.querier(), program)
}

const programColumns = `id, assembly_file, run_id, total_types, total_declarations, schema_version,
		       last_extracted_at, created_at, updated_at`

func scanProgram(row interface{ Scan(...any) error }) (*Program, error) {
	var program Program
	var lastExtractedAt sql.NullTime
	err := row.Scan(
		&program.ID, &program.AssemblyFile, &program.RunID, &program.TotalTypes,
		&program.TotalDeclarations, &program.SchemaVersion, &lastExtractedAt,
		&program.CreatedAt, &program.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastExtractedAt.Valid {
		program.LastExtractedAt = lastExtractedAt.Time
	}
	return &program, nil
}

// getProgramWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getProgramWithQuerier(ctx context.Context, q querier, assemblyFile string) (*Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE assembly_file = ?`
	return scanProgram(q.QueryRowContext(ctx, query, assemblyFile))
}

func (s *SQLiteStorage) GetProgram(ctx context.Context, assemblyFile string) (*Program, error) {
	return s.getProgramWithQuerier(ctx, s.querier(), assemblyFile)
}

func (s *SQLiteStorage) getProgramByIDWithQuerier(ctx context.Context, q querier, programID int64) (*Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = ?`
	return scanProgram(q.QueryRowContext(ctx, query, programID))
}

func (s *SQLiteStorage) GetProgramByID(ctx context.Context, programID int64) (*Program, error) {
	return s.getProgramByIDWithQuerier(ctx, s.querier(), programID)
}

func (s *SQLiteStorage) listProgramsWithQuerier(ctx context.Context, q querier) ([]*Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs ORDER BY assembly_file`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var programs []*Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, rows.Err()
}

func (s *SQLiteStorage) ListPrograms(ctx context.Context) ([]*Program, error) {
	return s.listProgramsWithQuerier(ctx, s.querier())
}

func (s *SQLiteStorage) deleteProgramWithQuerier(ctx context.Context, q querier, programID int64) error {
	result, err := q.ExecContext(ctx, "DELETE FROM programs WHERE id = ?", programID)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteProgram(ctx context.Context, programID int64) error {
	return s.deleteProgramWithQuerier(ctx, s.querier(), programID)
}

// Declaration operations

// insertDeclarationWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertDeclarationWithQuerier(ctx context.Context, q querier, decl *Declaration) error {
	query := `
		INSERT INTO declarations (program_id, parent_id, namespace, kind, doc_id, title, declaration,
		                          documentation, is_declared, assembly_file, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		decl.ProgramID, decl.ParentID, decl.Namespace, int(decl.Kind), decl.DocID, decl.Title,
		decl.Declaration, decl.Documentation, decl.IsDeclared, decl.AssemblyFile, decl.Position, now)
	if err != nil {
		return fmt.Errorf("failed to insert declaration %s: %w", decl.DocID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	decl.ID = id
	decl.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertDeclaration(ctx context.Context, decl *Declaration) error {
	return s.insertDeclarationWithQuerier(ctx, s.querier(), decl)
}

const declarationColumns = `id, program_id, parent_id, namespace, kind, doc_id, title, declaration,
		       documentation, is_declared, assembly_file, position, created_at`

func scanDeclaration(row interface{ Scan(...any) error }) (*Declaration, error) {
	var decl Declaration
	var parentID sql.NullInt64
	var documentation, assemblyFile sql.NullString
	var kind int
	err := row.Scan(
		&decl.ID, &decl.ProgramID, &parentID, &decl.Namespace, &kind, &decl.DocID, &decl.Title,
		&decl.Declaration, &documentation, &decl.IsDeclared, &assemblyFile, &decl.Position,
		&decl.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	decl.Kind = types.DeclarationKind(kind)
	if parentID.Valid {
		decl.ParentID = &parentID.Int64
	}
	decl.Documentation = documentation.String
	decl.AssemblyFile = assemblyFile.String
	return &decl, nil
}

func collectDeclarations(rows *sql.Rows) ([]*Declaration, error) {
	defer func() { _ = rows.Close() }()

	var decls []*Declaration
	for rows.Next() {
		decl, err := scanDeclaration(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, rows.Err()
}

func (s *SQLiteStorage) getDeclarationWithQuerier(ctx context.Context, q querier, programID int64, docID string) (*Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations WHERE program_id = ? AND doc_id = ?`
	return scanDeclaration(q.QueryRowContext(ctx, query, programID, docID))
}

func (s *SQLiteStorage) GetDeclaration(ctx context.Context, programID int64, docID string) (*Declaration, error) {
	return s.getDeclarationWithQuerier(ctx, s.querier(), programID, docID)
}

func (s *SQLiteStorage) getDeclarationByIDWithQuerier(ctx context.Context, q querier, declID int64) (*Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations WHERE id = ?`
	return scanDeclaration(q.QueryRowContext(ctx, query, declID))
}

func (s *SQLiteStorage) GetDeclarationByID(ctx context.Context, declID int64) (*Declaration, error) {
	return s.getDeclarationByIDWithQuerier(ctx, s.querier(), declID)
}

func (s *SQLiteStorage) listDeclarationsWithQuerier(ctx context.Context, q querier, programID int64) ([]*Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations WHERE program_id = ? ORDER BY position`
	rows, err := q.QueryContext(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	return collectDeclarations(rows)
}

func (s *SQLiteStorage) ListDeclarations(ctx context.Context, programID int64) ([]*Declaration, error) {
	return s.listDeclarationsWithQuerier(ctx, s.querier(), programID)
}

func (s *SQLiteStorage) listChildrenWithQuerier(ctx context.Context, q querier, parentID int64) ([]*Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations WHERE parent_id = ? ORDER BY position`
	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	return collectDeclarations(rows)
}

func (s *SQLiteStorage) ListChildren(ctx context.Context, parentID int64) ([]*Declaration, error) {
	return s.listChildrenWithQuerier(ctx, s.querier(), parentID)
}

func (s *SQLiteStorage) deleteDeclarationsByProgramWithQuerier(ctx context.Context, q querier, programID int64) (int, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM declarations WHERE program_id = ?", programID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete declarations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStorage) DeleteDeclarationsByProgram(ctx context.Context, programID int64) (int, error) {
	return s.deleteDeclarationsByProgramWithQuerier(ctx, s.querier(), programID)
}

// replaceDeclarationsWithQuerier deletes a program's declarations and
// inserts the payload tree. Namespaces are written in sorted order and
// every member directly follows its type.
func (s *SQLiteStorage) replaceDeclarationsWithQuerier(ctx context.Context, q querier, programID int64, payload *types.Payload) (int, error) {
	if _, err := s.deleteDeclarationsByProgramWithQuerier(ctx, q, programID); err != nil {
		return 0, err
	}

	namespaces := make([]string, 0, len(payload.Declarations))
	for ns := range payload.Declarations {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	position := 0
	for _, ns := range namespaces {
		for _, rec := range payload.Declarations[ns] {
			parent := FromRecord(rec, programID, ns)
			parent.Position = position
			position++
			if err := s.insertDeclarationWithQuerier(ctx, q, parent); err != nil {
				return 0, err
			}

			for _, child := range rec.Children() {
				decl := FromRecord(child, programID, ns)
				decl.ParentID = &parent.ID
				decl.Position = position
				position++
				if err := s.insertDeclarationWithQuerier(ctx, q, decl); err != nil {
					return 0, err
				}
			}
		}
	}
	return position, nil
}

// ReplaceDeclarations swaps a program's declarations for the payload's in one transaction
func (s *SQLiteStorage) ReplaceDeclarations(ctx context.Context, programID int64, payload *types.Payload) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := s.replaceDeclarationsWithQuerier(ctx, tx, programID, payload)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

// Search operations

func (s *SQLiteStorage) SearchDeclarations(ctx context.Context, programID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return searchText(ctx, s.querier(), programID, query, limit, filters)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, programID int64) (*ProgramStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier(), programID)
}

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, programID int64) (*ProgramStatus, error) {
	program, err := s.getProgramByIDWithQuerier(ctx, q, programID)
	if err != nil {
		return nil, err
	}

	status := &ProgramStatus{
		Program:         program,
		LastExtractedAt: program.LastExtractedAt,
	}

	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN parent_id IS NULL THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT namespace)
		FROM declarations
		WHERE program_id = ?
	`, programID).Scan(&status.DeclarationsCount, &status.TypesCount, &status.NamespacesCount)
	if err != nil {
		return nil, err
	}
	status.MembersCount = status.DeclarationsCount - status.TypesCount

	// Calculate database size
	var pageCount, pageSize int64
	err = q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.DatabaseSizeBytes = pageCount * pageSize
	}

	var ftsName string
	ftsErr := q.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='declarations_fts'").Scan(&ftsName)

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		FTSIndexesBuilt:    ftsErr == nil,
	}
	return status, nil
}

// Transaction implementations

func (t *sqliteTx) UpsertProgram(ctx context.Context, program *Program) error {
	return t.storage.upsertProgramWithQuerier(ctx, t.querier(), program)
}

func (t *sqliteTx) GetProgram(ctx context.Context, assemblyFile string) (*Program, error) {
	return t.storage.getProgramWithQuerier(ctx, t.querier(), assemblyFile)
}

func (t *sqliteTx) GetProgramByID(ctx context.Context, programID int64) (*Program, error) {
	return t.storage.getProgramByIDWithQuerier(ctx, t.querier(), programID)
}

func (t *sqliteTx) ListPrograms(ctx context.Context) ([]*Program, error) {
	return t.storage.listProgramsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) DeleteProgram(ctx context.Context, programID int64) error {
	return t.storage.deleteProgramWithQuerier(ctx, t.querier(), programID)
}

func (t *sqliteTx) InsertDeclaration(ctx context.Context, decl *Declaration) error {
	return t.storage.insertDeclarationWithQuerier(ctx, t.querier(), decl)
}

func (t *sqliteTx) GetDeclaration(ctx context.Context, programID int64, docID string) (*Declaration, error) {
	return t.storage.getDeclarationWithQuerier(ctx, t.querier(), programID, docID)
}

func (t *sqliteTx) GetDeclarationByID(ctx context.Context, declID int64) (*Declaration, error) {
	return t.storage.getDeclarationByIDWithQuerier(ctx, t.querier(), declID)
}

func (t *sqliteTx) ListDeclarations(ctx context.Context, programID int64) ([]*Declaration, error) {
	return t.storage.listDeclarationsWithQuerier(ctx, t.querier(), programID)
}

func (t *sqliteTx) ListChildren(ctx context.Context, parentID int64) ([]*Declaration, error) {
	return t.storage.listChildrenWithQuerier(ctx, t.querier(), parentID)
}

func (t *sqliteTx) DeleteDeclarationsByProgram(ctx context.Context, programID int64) (int, error) {
	return t.storage.deleteDeclarationsByProgramWithQuerier(ctx, t.querier(), programID)
}

func (t *sqliteTx) ReplaceDeclarations(ctx context.Context, programID int64, payload *types.Payload) (int, error) {
	return t.storage.replaceDeclarationsWithQuerier(ctx, t.querier(), programID, payload)
}

func (t *sqliteTx) SearchDeclarations(ctx context.Context, programID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return searchText(ctx, t.querier(), programID, query, limit, filters)
}

func (t *sqliteTx) GetStatus(ctx context.Context, programID int64) (*ProgramStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier(), programID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
