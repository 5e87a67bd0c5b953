package extractor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/internal/render"
	"github.com/dshills/csdocs/internal/resolver"
	"github.com/dshills/csdocs/pkg/types"
)

// DocRenderer turns an entity's raw documentation markup into the text
// stored in its record
type DocRenderer interface {
	RenderDoc(e *types.Entity) (string, error)
}

// PassthroughDocs copies documentation text unchanged
type PassthroughDocs struct{}

// RenderDoc returns the entity's documentation as is
func (PassthroughDocs) RenderDoc(e *types.Entity) (string, error) {
	return e.Documentation, nil
}

// Extractor builds documentation payloads from a metadata model:
// select documented entities -> render -> group by namespace
type Extractor struct {
	engine *render.Engine
	docs   DocRenderer
	logger *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(x *Extractor) { x.logger = logger }
}

// WithEngine replaces the declaration rendering engine
func WithEngine(engine *render.Engine) Option {
	return func(x *Extractor) { x.engine = engine }
}

// WithDocRenderer replaces the documentation markup renderer
func WithDocRenderer(docs DocRenderer) Option {
	return func(x *Extractor) { x.docs = docs }
}

// Config contains configuration for one extraction run
type Config struct {
	Workers int // Number of concurrent workers (default: runtime.NumCPU())

	// ValidateReferences resolves every cref in emitted documentation and
	// counts the ones that do not resolve
	ValidateReferences bool

	// Resolver is used for reference validation; one is built over the
	// model when nil
	Resolver *resolver.Resolver
}

// Statistics contains statistics about an extraction run
type Statistics struct {
	RunID                string
	TypesVisited         int
	TypesEmitted         int
	MembersEmitted       int
	EntitiesFailed       int
	UnresolvedReferences int
	Duration             time.Duration
	ErrorMessages        []string
}

// New creates a new Extractor instance
func New(opts ...Option) *Extractor {
	x := &Extractor{
		engine: render.NewEngine(),
		docs:   PassthroughDocs{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// counters are shared by the workers of one run
type counters struct {
	visited    atomic.Int32
	emitted    atomic.Int32
	members    atomic.Int32
	failed     atomic.Int32
	unresolved atomic.Int32

	mu       sync.Mutex // guards errors and byNS
	errors   []string
	byNS     map[string][]*types.DeclarationRecord
	resolver *resolver.Resolver
}

func (c *counters) fail(id string, err error) {
	c.failed.Add(1)
	c.mu.Lock()
	c.errors = append(c.errors, fmt.Sprintf("%s: %v", id, err))
	c.mu.Unlock()
}

// Extract renders every documented entity of the model. Entities that fail
// to render are logged, counted and skipped.
func (x *Extractor) Extract(ctx context.Context, model *metadata.Model, config *Config) (*types.Payload, *Statistics, error) {
	if model == nil || len(model.Scopes()) == 0 {
		return nil, nil, types.ErrNoScopes
	}
	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	startTime := time.Now()
	stats := &Statistics{RunID: uuid.NewString()}
	logger := x.logger.With(zap.String("run_id", stats.RunID))

	c := &counters{byNS: make(map[string][]*types.DeclarationRecord)}
	if config.ValidateReferences {
		c.resolver = config.Resolver
		if c.resolver == nil {
			c.resolver = resolver.New(model, resolver.Options{Logger: logger})
		}
	}

	// Worker pool with semaphore
	semaphore := make(chan struct{}, workers)
	g, gctx := errgroup.WithContext(ctx)

dispatch:
	for _, t := range model.Types() {
		select {
		case <-gctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		g.Go(func() error {
			defer func() { <-semaphore }()
			if err := gctx.Err(); err != nil {
				return err
			}
			x.extractType(model, t, c, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	payload := &types.Payload{
		AssemblyFile: model.AssemblyFile(),
		Declarations: c.byNS,
	}
	for _, records := range payload.Declarations {
		sort.Slice(records, func(i, j int) bool { return records[i].Id < records[j].Id })
	}

	stats.TypesVisited = int(c.visited.Load())
	stats.TypesEmitted = int(c.emitted.Load())
	stats.MembersEmitted = int(c.members.Load())
	stats.EntitiesFailed = int(c.failed.Load())
	stats.UnresolvedReferences = int(c.unresolved.Load())
	stats.ErrorMessages = c.errors
	if stats.ErrorMessages == nil {
		stats.ErrorMessages = make([]string, 0)
	}
	stats.Duration = time.Since(startTime)

	logger.Info("extraction complete",
		zap.Int("types_visited", stats.TypesVisited),
		zap.Int("types_emitted", stats.TypesEmitted),
		zap.Int("members_emitted", stats.MembersEmitted),
		zap.Int("failed", stats.EntitiesFailed),
		zap.Int("unresolved_references", stats.UnresolvedReferences),
		zap.Duration("duration", stats.Duration))
	return payload, stats, nil
}

// extractType builds and files the record of one type or delegate
func (x *Extractor) extractType(model *metadata.Model, t *types.Entity, c *counters, logger *zap.Logger) {
	c.visited.Add(1)

	rec, err := x.record(model, t)
	if err != nil {
		logger.Warn("skipping type", zap.String("id", t.DocID), zap.Error(err))
		c.fail(t.DocID, err)
		return
	}

	// delegates carry no member records
	if t.Kind == types.EntityType {
		for _, m := range t.Members {
			if m.IsTypeLike() || !m.HasDocumentation() {
				continue
			}
			child, err := x.record(model, m)
			if err == nil {
				err = rec.AddChild(child)
			}
			if err != nil {
				logger.Warn("skipping member", zap.String("id", m.DocID), zap.Error(err))
				c.fail(m.DocID, err)
				continue
			}
			c.members.Add(1)
		}
	}

	if !t.HasDocumentation() && rec.ChildCount() == 0 {
		return
	}

	if c.resolver != nil {
		x.validateReferences(rec, c, logger)
	}

	ns := t.Namespace
	if ns == "" {
		ns = types.GlobalNamespace
	}
	c.emitted.Add(1)
	c.mu.Lock()
	c.byNS[ns] = append(c.byNS[ns], rec)
	c.mu.Unlock()
}

// errPanic marks a recovered rendering panic
var errPanic = errors.New("panic while rendering")

// record renders a single entity, converting panics into errors
func (x *Extractor) record(model *metadata.Model, e *types.Entity) (rec *types.DeclarationRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("%w: %v", errPanic, r)
		}
	}()

	decl, err := x.engine.Render(e)
	if err != nil {
		return nil, err
	}
	docs, err := x.docs.RenderDoc(e)
	if err != nil {
		return nil, fmt.Errorf("failed to render documentation: %w", err)
	}

	rec = types.NewDeclarationRecord()
	rec.Title = render.Title(e)
	rec.AssemblyFile = model.ScopeFile(e.Assembly)
	rec.Declaration = decl
	rec.Kind = types.DeclarationKindOf(e.Kind)
	rec.Id = e.DocID
	rec.Documentation = docs
	rec.IsDeclared = e.IsDeclared
	return rec, nil
}

func (x *Extractor) validateReferences(rec *types.DeclarationRecord, c *counters, logger *zap.Logger) {
	for _, r := range append([]*types.DeclarationRecord{rec}, rec.Children()...) {
		for _, ref := range resolver.FindReferences(r.Documentation) {
			if _, err := c.resolver.Resolve(ref); err != nil {
				c.unresolved.Add(1)
				logger.Debug("unresolved reference",
					zap.String("in", r.Id),
					zap.String("ref", ref),
					zap.Error(err))
			}
		}
	}
}
