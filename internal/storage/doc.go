// Package storage provides SQLite-based persistence for extracted documentation.
//
// The storage layer manages:
//   - Programs (one per extracted assembly file)
//   - Declaration records, types and their members
//   - Full-text search indexes over titles, declarations and documentation
//
// # Database Schema
//
// Tables:
//   - programs: assembly file, last run id and record counts
//   - declarations: one row per DeclarationRecord; members point at their
//     type through parent_id and position keeps payload order
//   - declarations_fts: FTS5 index kept in sync by triggers
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("csdocs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Persist a payload, replacing the program's previous declarations
//	program, err := storage.SavePayload(ctx, db, payload, runID)
//
//	// Read it back
//	payload, err = storage.LoadPayload(ctx, db, program.ID)
//
// # Transactions
//
// Use transactions for atomic operations:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if err := tx.UpsertProgram(ctx, program); err != nil {
//	    return err
//	}
//	if _, err := tx.ReplaceDeclarations(ctx, program.ID, payload); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Full-Text Search
//
// Query using BM25 ranking:
//
//	results, err := db.SearchDeclarations(ctx, programID, "parse int", 10,
//	    &storage.SearchFilters{Kinds: []types.DeclarationKind{types.DeclarationMethod}})
//
// Query text is split into terms and each term is matched literally, so
// FTS5 operators in user input have no effect.
//
// # Build Tags
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_fts5"
//
// Pure Go Build (default, or purego tag):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build -tags "purego"
package storage
