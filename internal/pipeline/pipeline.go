package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/csdocs/internal/docfile"
	"github.com/dshills/csdocs/internal/extractor"
	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/internal/output"
	"github.com/dshills/csdocs/internal/resolver"
	"github.com/dshills/csdocs/internal/searcher"
	"github.com/dshills/csdocs/internal/storage"
	"github.com/dshills/csdocs/pkg/types"
)

// ErrModelPathRequired is returned for requests without a model file
var ErrModelPathRequired = errors.New("model path is required")

// ErrNoStorage is returned when persistence is requested without a store
var ErrNoStorage = errors.New("no storage configured")

// Request describes one extraction run
type Request struct {
	ModelPath  string // metadata snapshot, .json/.yaml/.yml
	XMLDocs    string // optional compiler documentation file
	OutputPath string // optional JSON payload destination
	Store      bool   // persist the payload

	Workers            int
	ValidateReferences bool
}

// Result contains everything produced by a run
type Result struct {
	Payload  *types.Payload
	Stats    *extractor.Statistics
	Docs     *docfile.Result   // nil without XMLDocs
	Program  *storage.Program  // nil unless stored
	Resolver *resolver.Resolver
	Duration time.Duration
}

// Pipeline loads a model, attaches documentation, extracts declarations
// and writes them out
type Pipeline struct {
	loader    *metadata.Loader
	extractor *extractor.Extractor
	store     storage.Storage
	searcher  *searcher.Searcher
	strict    bool
	logger    *zap.Logger

	mu        sync.RWMutex
	resolvers map[string]*resolver.Resolver // by assembly file, from the last run
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStorage enables persistence
func WithStorage(store storage.Storage) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithSearcher invalidates the searcher's cache after a program is stored
func WithSearcher(s *searcher.Searcher) Option {
	return func(p *Pipeline) { p.searcher = s }
}

// WithStrictOverloads makes resolvers reject ambiguous identifiers
func WithStrictOverloads(strict bool) Option {
	return func(p *Pipeline) { p.strict = strict }
}

// WithLogger sets the logger shared by every stage
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:    zap.NewNop(),
		resolvers: make(map[string]*resolver.Resolver),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.loader = metadata.NewLoader(p.logger)
	p.extractor = extractor.New(extractor.WithLogger(p.logger))
	return p
}

// Run executes one extraction
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.ModelPath == "" {
		return nil, ErrModelPathRequired
	}
	if req.Store && p.store == nil {
		return nil, ErrNoStorage
	}

	model, err := p.loader.LoadFile(req.ModelPath)
	if err != nil {
		return nil, err
	}
	res := resolver.New(model, resolver.Options{
		StrictOverloads: p.strict,
		Logger:          p.logger,
	})
	result := &Result{Resolver: res}

	if req.XMLDocs != "" {
		f, err := docfile.Load(req.XMLDocs)
		if err != nil {
			return nil, err
		}
		result.Docs = docfile.Apply(f, res, p.logger)
	}

	payload, stats, err := p.extractor.Extract(ctx, model, &extractor.Config{
		Workers:            req.Workers,
		ValidateReferences: req.ValidateReferences,
		Resolver:           res,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	result.Payload = payload
	result.Stats = stats

	if req.OutputPath != "" {
		if err := output.WriteFile(req.OutputPath, payload); err != nil {
			return nil, err
		}
	}

	if req.Store {
		program, err := storage.SavePayload(ctx, p.store, payload, stats.RunID)
		if err != nil {
			return nil, fmt.Errorf("failed to store payload: %w", err)
		}
		result.Program = program
		if p.searcher != nil {
			p.searcher.Invalidate(program.ID)
		}
	}

	p.mu.Lock()
	p.resolvers[payload.AssemblyFile] = res
	p.mu.Unlock()

	result.Duration = time.Since(start)
	p.logger.Info("pipeline complete",
		zap.String("model", req.ModelPath),
		zap.String("assembly", payload.AssemblyFile),
		zap.Int("records", payload.RecordCount()),
		zap.Bool("stored", result.Program != nil),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Resolver returns the resolver of the last run that produced assembly
func (p *Pipeline) Resolver(assembly string) (*resolver.Resolver, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.resolvers[assembly]
	return r, ok
}
