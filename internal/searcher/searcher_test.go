package searcher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/csdocs/internal/storage"
	"github.com/dshills/csdocs/pkg/types"
)

// countingStorage counts text searches reaching the database
type countingStorage struct {
	storage.Storage
	searches atomic.Int32
}

func (c *countingStorage) SearchDeclarations(ctx context.Context, programID int64, query string, limit int, filters *storage.SearchFilters) ([]storage.TextResult, error) {
	c.searches.Add(1)
	return c.Storage.SearchDeclarations(ctx, programID, query, limit, filters)
}

func record(kind types.DeclarationKind, id, title, decl, doc string) *types.DeclarationRecord {
	rec := types.NewDeclarationRecord()
	rec.Kind = kind
	rec.Id = id
	rec.Title = title
	rec.Declaration = decl
	rec.Documentation = doc
	return rec
}

func testPayload(assembly string) *types.Payload {
	tokenizer := record(types.DeclarationType, "T:Text.Tokenizer", "Tokenizer",
		"public sealed class Tokenizer", "Splits input into a token stream.")
	_ = tokenizer.AddChild(record(types.DeclarationMethod, "M:Text.Tokenizer.Next", "Next()",
		"public Token Next();", "Reads the next token from the input."))
	_ = tokenizer.AddChild(record(types.DeclarationProperty, "P:Text.Tokenizer.Position", "Position",
		"public int Position { get; }", "Offset of the next token."))

	reader := record(types.DeclarationType, "T:IO.Reader", "Reader",
		"public class Reader", "Reads bytes from the input stream.")

	return &types.Payload{
		AssemblyFile: assembly,
		Declarations: map[string][]*types.DeclarationRecord{
			"Text": {tokenizer},
			"IO":   {reader},
		},
	}
}

// setupTestSearcher creates a searcher over in-memory storage holding testPayload
func setupTestSearcher(t *testing.T) (*Searcher, *countingStorage, *storage.Program) {
	t.Helper()

	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	program, err := storage.SavePayload(context.Background(), db, testPayload("Text.dll"), "run-1")
	require.NoError(t, err)

	store := &countingStorage{Storage: db}
	s, err := NewSearcher(store, Options{CacheSize: 16})
	require.NoError(t, err)
	return s, store, program
}

func TestSearch(t *testing.T) {
	s, _, program := setupTestSearcher(t)
	ctx := context.Background()

	resp, err := s.Search(ctx, Request{ProgramID: program.ID, Query: "token"})
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalResults)
	assert.False(t, resp.CacheHit)

	for i, r := range resp.Results {
		assert.Equal(t, i+1, r.Rank)
		assert.Greater(t, r.RelevanceScore, 0.0)
		require.NotNil(t, r.Declaration)
	}

	ids := make(map[string]string)
	for _, r := range resp.Results {
		ids[r.Declaration.DocID] = r.Container
	}
	assert.Equal(t, map[string]string{
		"T:Text.Tokenizer":          "",
		"M:Text.Tokenizer.Next":     "T:Text.Tokenizer",
		"P:Text.Tokenizer.Position": "T:Text.Tokenizer",
	}, ids)
}

func TestSearch_Filters(t *testing.T) {
	s, _, program := setupTestSearcher(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "kind",
			req:  Request{Query: "input", Kinds: []types.DeclarationKind{types.DeclarationMethod}},
			want: []string{"M:Text.Tokenizer.Next"},
		},
		{
			name: "namespace",
			req:  Request{Query: "input", Namespace: "IO"},
			want: []string{"T:IO.Reader"},
		},
		{
			name: "all terms required",
			req:  Request{Query: "reads next"},
			want: []string{"M:Text.Tokenizer.Next"},
		},
		{
			name: "no match",
			req:  Request{Query: "compression"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.ProgramID = program.ID
			resp, err := s.Search(ctx, tt.req)
			require.NoError(t, err)

			got := []string{}
			for _, r := range resp.Results {
				got = append(got, r.Declaration.DocID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s, store, program := setupTestSearcher(t)

	_, err := s.Search(context.Background(), Request{ProgramID: program.ID, Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, int32(0), store.searches.Load())

	// Punctuation only reaches storage, which finds no terms
	_, err = s.Search(context.Background(), Request{ProgramID: program.ID, Query: "()"})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_Cache(t *testing.T) {
	s, store, program := setupTestSearcher(t)
	ctx := context.Background()

	req := Request{
		ProgramID: program.ID,
		Query:     "token",
		Kinds:     []types.DeclarationKind{types.DeclarationType, types.DeclarationMethod},
	}
	first, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	// Case and kind order normalize to the same key
	req.Query = "TOKEN"
	req.Kinds = []types.DeclarationKind{types.DeclarationMethod, types.DeclarationType}
	second, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, int32(1), store.searches.Load())

	// Cached copies are independent
	second.Results[0].Declaration.Title = "changed"
	third, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", third.Results[0].Declaration.Title)

	// A different limit is a different request
	req.Limit = 1
	_, err = s.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.searches.Load())
}

func TestSearch_CacheExpiry(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	program, err := storage.SavePayload(ctx, db, testPayload("Text.dll"), "run-1")
	require.NoError(t, err)

	store := &countingStorage{Storage: db}
	s, err := NewSearcher(store, Options{CacheTTL: time.Nanosecond})
	require.NoError(t, err)

	req := Request{ProgramID: program.ID, Query: "token"}
	_, err = s.Search(ctx, req)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	resp, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, int32(2), store.searches.Load())
}

func TestInvalidate(t *testing.T) {
	s, store, program := setupTestSearcher(t)
	ctx := context.Background()

	other, err := storage.SavePayload(ctx, store.Storage, testPayload("Other.dll"), "run-2")
	require.NoError(t, err)

	_, err = s.Search(ctx, Request{ProgramID: program.ID, Query: "token"})
	require.NoError(t, err)
	_, err = s.Search(ctx, Request{ProgramID: other.ID, Query: "token"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.CacheLen())

	s.Invalidate(program.ID)
	assert.Equal(t, 1, s.CacheLen())

	resp, err := s.Search(ctx, Request{ProgramID: other.ID, Query: "token"})
	require.NoError(t, err)
	assert.True(t, resp.CacheHit)

	resp, err = s.Search(ctx, Request{ProgramID: program.ID, Query: "token"})
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, DefaultLimit},
		{"negative", -3, DefaultLimit},
		{"kept", 25, 25},
		{"capped", 500, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Query: " q ", Limit: tt.limit}
			require.NoError(t, validateRequest(&req))
			assert.Equal(t, tt.wantLimit, req.Limit)
			assert.Equal(t, "q", req.Query)
		})
	}
}

func TestComputeQueryHash(t *testing.T) {
	base := Request{ProgramID: 1, Query: "token", Limit: 10}

	same := base
	same.Query = "Token"
	assert.Equal(t, computeQueryHash(base), computeQueryHash(same))

	for name, changed := range map[string]Request{
		"program":   {ProgramID: 2, Query: "token", Limit: 10},
		"namespace": {ProgramID: 1, Query: "token", Limit: 10, Namespace: "IO"},
		"kinds":     {ProgramID: 1, Query: "token", Limit: 10, Kinds: []types.DeclarationKind{types.DeclarationField}},
		"relevance": {ProgramID: 1, Query: "token", Limit: 10, MinRelevance: 0.5},
	} {
		assert.NotEqual(t, computeQueryHash(base), computeQueryHash(changed), name)
	}
}
