package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.1.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
	{
		Version: "1.1.0",
		Up:      migrationV11Up,
		Down:    migrationV11Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Programs table, one row per extracted assembly
CREATE TABLE IF NOT EXISTS programs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    assembly_file TEXT NOT NULL UNIQUE,
    run_id TEXT NOT NULL,
    total_types INTEGER DEFAULT 0,
    total_declarations INTEGER DEFAULT 0,
    schema_version TEXT NOT NULL,
    last_extracted_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Declarations table, types and their members
CREATE TABLE IF NOT EXISTS declarations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    program_id INTEGER NOT NULL,
    parent_id INTEGER,
    namespace TEXT NOT NULL,
    kind INTEGER NOT NULL,
    doc_id TEXT NOT NULL,
    title TEXT NOT NULL,
    declaration TEXT NOT NULL,
    documentation TEXT,
    is_declared BOOLEAN DEFAULT 0,
    assembly_file TEXT,
    position INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE,
    FOREIGN KEY (parent_id) REFERENCES declarations(id) ON DELETE CASCADE,
    UNIQUE(program_id, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_declarations_program ON declarations(program_id, position);
CREATE INDEX IF NOT EXISTS idx_declarations_parent ON declarations(parent_id);
CREATE INDEX IF NOT EXISTS idx_declarations_namespace ON declarations(program_id, namespace);
CREATE INDEX IF NOT EXISTS idx_declarations_kind ON declarations(kind);
`

const migrationV1Down = `
DROP TABLE IF EXISTS declarations;
DROP TABLE IF EXISTS programs;
DROP TABLE IF EXISTS schema_version;
`

const migrationV11Up = `
-- Full-text search on declarations
CREATE VIRTUAL TABLE IF NOT EXISTS declarations_fts USING fts5(
    title, declaration, documentation,
    content='declarations',
    content_rowid='id'
);

-- Index rows that predate the FTS table
INSERT INTO declarations_fts(declarations_fts) VALUES ('rebuild');

-- Triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS declarations_ai AFTER INSERT ON declarations BEGIN
    INSERT INTO declarations_fts(rowid, title, declaration, documentation)
    VALUES (new.id, new.title, new.declaration, new.documentation);
END;

CREATE TRIGGER IF NOT EXISTS declarations_ad AFTER DELETE ON declarations BEGIN
    INSERT INTO declarations_fts(declarations_fts, rowid, title, declaration, documentation)
    VALUES ('delete', old.id, old.title, old.declaration, old.documentation);
END;

CREATE TRIGGER IF NOT EXISTS declarations_au AFTER UPDATE ON declarations BEGIN
    INSERT INTO declarations_fts(declarations_fts, rowid, title, declaration, documentation)
    VALUES ('delete', old.id, old.title, old.declaration, old.documentation);
    INSERT INTO declarations_fts(rowid, title, declaration, documentation)
    VALUES (new.id, new.title, new.declaration, new.documentation);
END;
`

const migrationV11Down = `
DROP TRIGGER IF EXISTS declarations_au;
DROP TRIGGER IF EXISTS declarations_ad;
DROP TRIGGER IF EXISTS declarations_ai;
DROP TABLE IF EXISTS declarations_fts;
`

// currentSchemaVersion returns the highest applied migration version, or
// 0.0.0 for a fresh database. applied_at has one second resolution, so the
// versions themselves decide the order.
func currentSchemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		parsed, err := semver.NewVersion(v)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", v, err)
		}
		if parsed.GreaterThan(current) {
			current = parsed
		}
	}
	return current, rows.Err()
}

// SchemaVersion returns the applied schema version of an open database
func SchemaVersion(ctx context.Context, db *sql.DB) (string, error) {
	v, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	currentVersion, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		_, err = db.ExecContext(ctx, migration.Up)
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		_, err = db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	version, err := currentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if version.Equal(semver.MustParse("0.0.0")) {
		return fmt.Errorf("no migrations to rollback")
	}

	// Find migration
	var migration *Migration
	for i := range AllMigrations {
		if v, err := semver.NewVersion(AllMigrations[i].Version); err == nil && v.Equal(version) {
			migration = &AllMigrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %s not found", version)
	}

	_, err = db.ExecContext(ctx, migration.Down)
	if err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", migration.Version, err)
	}

	// The first migration drops schema_version itself
	if migration.Version == AllMigrations[0].Version {
		return nil
	}

	_, err = db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", migration.Version)
	if err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", migration.Version, err)
	}

	return nil
}
