package searcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/csdocs/internal/storage"
	"github.com/dshills/csdocs/pkg/types"
)

const (
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultCacheSize = 1000
	DefaultCacheTTL  = time.Hour
)

// ErrEmptyQuery is returned for requests without query text
var ErrEmptyQuery = errors.New("query cannot be empty")

// Request contains parameters for a search operation
type Request struct {
	ProgramID    int64
	Query        string
	Kinds        []types.DeclarationKind
	Namespace    string
	Limit        int
	MinRelevance float64
}

// Result is one ranked declaration
type Result struct {
	Rank           int
	RelevanceScore float64
	Declaration    *storage.Declaration
	// Container is the Id of the type declaring a member, empty for types
	Container string
}

// Response contains search results and metadata
type Response struct {
	Results      []Result
	TotalResults int
	Duration     time.Duration
	CacheHit     bool
}

type cacheEntry struct {
	programID int64
	response  *Response
	expiresAt time.Time
}

// Options configures a Searcher
type Options struct {
	CacheSize int           // entries, DefaultCacheSize when zero
	CacheTTL  time.Duration // DefaultCacheTTL when zero
}

// Searcher runs full-text declaration queries with an LRU response cache
type Searcher struct {
	storage storage.Storage
	ttl     time.Duration
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage, opts Options) (*Searcher, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Searcher{storage: store, ttl: ttl, cache: cache}, nil
}

// Search runs a query. Identical requests within the cache TTL are answered
// from the cache.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if err := validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	key := computeQueryHash(req)
	if cached := s.checkCache(key); cached != nil {
		cached.CacheHit = true
		cached.Duration = time.Since(start)
		return cached, nil
	}

	filters := &storage.SearchFilters{
		Kinds:        req.Kinds,
		Namespace:    req.Namespace,
		MinRelevance: req.MinRelevance,
	}
	hits, err := s.storage.SearchDeclarations(ctx, req.ProgramID, req.Query, req.Limit, filters)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyQuery) {
			return nil, fmt.Errorf("invalid search request: %w", ErrEmptyQuery)
		}
		return nil, err
	}

	results, err := s.fetchResults(ctx, hits)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Results:      results,
		TotalResults: len(results),
		Duration:     time.Since(start),
	}
	if len(results) > 0 {
		s.storeInCache(key, req.ProgramID, response)
	}
	return response, nil
}

// fetchResults loads the ranked declarations and their containers
func (s *Searcher) fetchResults(ctx context.Context, hits []storage.TextResult) ([]Result, error) {
	results := make([]Result, 0, len(hits))
	containers := make(map[int64]string)

	for _, hit := range hits {
		decl, err := s.storage.GetDeclarationByID(ctx, hit.DeclarationID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load declaration %d: %w", hit.DeclarationID, err)
		}

		result := Result{
			Rank:           len(results) + 1,
			RelevanceScore: hit.BM25Score,
			Declaration:    decl,
		}
		if decl.ParentID != nil {
			id, ok := containers[*decl.ParentID]
			if !ok {
				parent, err := s.storage.GetDeclarationByID(ctx, *decl.ParentID)
				if err == nil {
					id = parent.DocID
				}
				containers[*decl.ParentID] = id
			}
			result.Container = id
		}
		results = append(results, result)
	}
	return results, nil
}

// validateRequest ensures search request is valid
func validateRequest(req *Request) error {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return ErrEmptyQuery
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
	return nil
}

func (s *Searcher) checkCache(key [32]byte) *Response {
	s.cacheMu.RLock()
	entry, found := s.cache.Get(key)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(key)
		s.cacheMu.Unlock()
		return nil
	}

	response := copyResponse(entry.response)
	s.cacheMu.RUnlock()
	return response
}

func (s *Searcher) storeInCache(key [32]byte, programID int64, response *Response) {
	entry := &cacheEntry{
		programID: programID,
		response:  copyResponse(response),
		expiresAt: time.Now().Add(s.ttl),
	}

	s.cacheMu.Lock()
	s.cache.Add(key, entry)
	s.cacheMu.Unlock()
}

// Invalidate drops cached responses for a program. Call it after the
// program is extracted again.
func (s *Searcher) Invalidate(programID int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for _, key := range s.cache.Keys() {
		if entry, ok := s.cache.Peek(key); ok && entry.programID == programID {
			s.cache.Remove(key)
		}
	}
}

// CacheLen returns the number of cached responses
func (s *Searcher) CacheLen() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cache.Len()
}

// copyResponse creates a deep copy of a Response
func copyResponse(src *Response) *Response {
	dst := &Response{
		TotalResults: src.TotalResults,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		Results:      make([]Result, len(src.Results)),
	}

	for i, result := range src.Results {
		dst.Results[i] = result
		// Declaration holds only values and the ParentID pointer
		if result.Declaration != nil {
			decl := *result.Declaration
			if decl.ParentID != nil {
				parentID := *decl.ParentID
				decl.ParentID = &parentID
			}
			dst.Results[i].Declaration = &decl
		}
	}
	return dst
}

// computeQueryHash hashes the normalized request. Kinds are sorted so
// their order does not split cache entries.
func computeQueryHash(req Request) [32]byte {
	kinds := make([]int, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = int(k)
	}
	slices.Sort(kinds)
	kinds = slices.Compact(kinds)

	var data strings.Builder
	data.WriteString(strings.ToLower(req.Query))
	data.WriteString("|")
	data.WriteString(strconv.FormatInt(req.ProgramID, 10))
	data.WriteString("|")
	data.WriteString(strconv.Itoa(req.Limit))
	data.WriteString("|kinds:")
	for i, k := range kinds {
		if i > 0 {
			data.WriteString(",")
		}
		data.WriteString(strconv.Itoa(k))
	}
	data.WriteString("|ns:")
	data.WriteString(req.Namespace)
	data.WriteString(fmt.Sprintf("|%.2f", req.MinRelevance))

	return sha256.Sum256([]byte(data.String()))
}
