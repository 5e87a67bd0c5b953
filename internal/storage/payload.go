package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/csdocs/pkg/types"
)

// SavePayload records the program and replaces its declarations with the
// payload's in a single transaction
func SavePayload(ctx context.Context, store Storage, payload *types.Payload, runID string) (*Program, error) {
	if payload.AssemblyFile == "" {
		return nil, fmt.Errorf("payload has no assembly file")
	}

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	typeCount := 0
	for _, records := range payload.Declarations {
		typeCount += len(records)
	}

	program := &Program{
		AssemblyFile:      payload.AssemblyFile,
		RunID:             runID,
		TotalTypes:        typeCount,
		TotalDeclarations: payload.RecordCount(),
		LastExtractedAt:   time.Now(),
	}
	if err := tx.UpsertProgram(ctx, program); err != nil {
		return nil, err
	}

	if _, err := tx.ReplaceDeclarations(ctx, program.ID, payload); err != nil {
		return nil, fmt.Errorf("failed to store declarations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return program, nil
}

// LoadPayload rebuilds a stored program's payload
func LoadPayload(ctx context.Context, store Storage, programID int64) (*types.Payload, error) {
	program, err := store.GetProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	decls, err := store.ListDeclarations(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list declarations: %w", err)
	}

	payload := &types.Payload{
		AssemblyFile: program.AssemblyFile,
		Declarations: make(map[string][]*types.DeclarationRecord),
	}

	// rows are in payload order, so parents precede their members
	parents := make(map[int64]*types.DeclarationRecord)
	for _, d := range decls {
		rec := d.ToRecord()
		if d.ParentID == nil {
			parents[d.ID] = rec
			payload.Declarations[d.Namespace] = append(payload.Declarations[d.Namespace], rec)
			continue
		}

		parent, ok := parents[*d.ParentID]
		if !ok {
			return nil, fmt.Errorf("declaration %s: parent %d not loaded", d.DocID, *d.ParentID)
		}
		if err := parent.AddChild(rec); err != nil {
			return nil, err
		}
	}
	return payload, nil
}
