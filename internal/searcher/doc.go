// Package searcher implements keyword search over stored declarations.
//
// Queries run against the FTS5 index maintained by the storage package and
// are ranked by BM25. Responses are cached in an LRU keyed by a SHA-256 of
// the normalized request.
//
// # Basic Usage
//
//	s, err := searcher.NewSearcher(store, searcher.Options{})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := s.Search(ctx, searcher.Request{
//	    ProgramID: program.ID,
//	    Query:     "parse integer",
//	    Kinds:     []types.DeclarationKind{types.DeclarationMethod},
//	    Limit:     10,
//	})
//
//	for _, r := range resp.Results {
//	    fmt.Printf("[%d] %s (score: %.2f)\n",
//	        r.Rank, r.Declaration.DocID, r.RelevanceScore)
//	}
//
// # Query Syntax
//
// Query text is split into terms on anything that is not a letter, digit
// or underscore. All terms must match. Matching is case-insensitive and
// covers the title, the rendered declaration and the documentation text.
//
// # Caching
//
// Identical requests (same query, program, kinds, namespace, limit and
// minimum relevance) are served from the cache until the TTL expires.
// Kind order does not matter. Empty responses are not cached.
//
// Call Invalidate after a program is extracted again:
//
//	if _, err := storage.SavePayload(ctx, store, payload, runID); err == nil {
//	    s.Invalidate(program.ID)
//	}
//
// # Limits
//
//   - Default limit: 10
//   - Maximum limit: 100
package searcher
