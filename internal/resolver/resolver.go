package resolver

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/csdocs/internal/docid"
	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/pkg/types"
)

// Options configures a Resolver
type Options struct {
	// StrictOverloads reports ErrAmbiguousMethod when more than one member
	// matches an identifier instead of returning the first match.
	StrictOverloads bool

	Logger *zap.Logger
}

// CacheStats reports type cache activity
type CacheStats struct {
	Hits    int64 // lookups answered from the cache
	Misses  int64 // lookups that scanned the model
	Entries int64 // memoized names, found or not
}

// Resolver maps documentation identifiers to entities of a metadata model.
// It is safe for concurrent use.
type Resolver struct {
	model  *metadata.Model
	strict bool
	logger *zap.Logger

	// cache memoizes full name -> *types.Entity; nil records a miss
	cache   sync.Map
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
	entries atomic.Int64
}

// New creates a resolver over a linked model
func New(model *metadata.Model, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		model:  model,
		strict: opts.StrictOverloads,
		logger: logger,
	}
}

// Model returns the model the resolver reads from
func (r *Resolver) Model() *metadata.Model {
	return r.model
}

// ResolveType finds a type by fully qualified metadata name, e.g.
// "N.Outer`1.Inner". Scopes are searched in order and the first match wins.
func (r *Resolver) ResolveType(name string) (*types.Entity, error) {
	if v, ok := r.cache.Load(name); ok {
		r.hits.Add(1)
		return typeResult(name, v)
	}

	scanned := false
	v, _, _ := r.group.Do(name, func() (any, error) {
		// another caller may have stored it between Load and Do
		if v, ok := r.cache.Load(name); ok {
			return v, nil
		}
		scanned = true
		r.misses.Add(1)
		t, _ := r.model.FindType(name)
		actual, loaded := r.cache.LoadOrStore(name, t)
		if !loaded {
			r.entries.Add(1)
		}
		return actual, nil
	})
	// callers sharing an in-flight scan, or finding it stored, are hits
	if !scanned {
		r.hits.Add(1)
	}
	return typeResult(name, v)
}

func typeResult(name string, v any) (*types.Entity, error) {
	t, _ := v.(*types.Entity)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTypeNotFound, name)
	}
	return t, nil
}

// CacheStats returns a snapshot of the type cache counters
func (r *Resolver) CacheStats() CacheStats {
	return CacheStats{
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Entries: r.entries.Load(),
	}
}

// Resolve parses and resolves a documentation identifier
func (r *Resolver) Resolve(id string) (*types.Entity, error) {
	parsed, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.ResolveIdentifier(parsed)
}

// ResolveIdentifier resolves a parsed identifier
func (r *Resolver) ResolveIdentifier(id *docid.Identifier) (*types.Entity, error) {
	owner, err := r.ResolveType(id.TypePath)
	if err != nil {
		return nil, err
	}
	if !id.IsMember() {
		return owner, nil
	}

	kind := id.Kind.EntityKind()
	var candidates []*types.Entity
	for _, m := range owner.Members {
		if m.Kind == kind && memberName(m) == id.Member {
			candidates = append(candidates, m)
		}
	}

	switch id.Kind {
	case docid.KindMethod:
		return r.pick(id, matchMethods(candidates, id), types.ErrMissingMethod)
	case docid.KindProperty:
		// indexers are named by their parameter list, plain properties have none
		candidates = filter(candidates, func(m *types.Entity) bool {
			if id.HasArgs {
				return paramsMatch(m.Parameters, id.Args)
			}
			return len(m.Parameters) == 0
		})
		return r.pick(id, candidates, types.ErrMissingMember)
	case docid.KindField:
		return r.pick(id, candidates, types.ErrMissingField)
	default:
		return r.pick(id, candidates, types.ErrMissingMember)
	}
}

// memberName returns the name as written in identifiers ("#ctor", "I#M")
func memberName(m *types.Entity) string {
	return strings.ReplaceAll(m.Name, ".", "#")
}

func matchMethods(candidates []*types.Entity, id *docid.Identifier) []*types.Entity {
	return filter(candidates, func(m *types.Entity) bool {
		if len(m.GenericParameters) != id.Arity {
			return false
		}
		if id.HasArgs {
			if !paramsMatch(m.Parameters, id.Args) {
				return false
			}
		} else if len(m.Parameters) > 0 {
			return false
		}
		if id.Return != nil && !typeMatches(id.Return, m.Type) {
			return false
		}
		return true
	})
}

func (r *Resolver) pick(id *docid.Identifier, matches []*types.Entity, missing error) (*types.Entity, error) {
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", missing, id)
	case len(matches) == 1:
		return matches[0], nil
	case r.strict:
		return nil, fmt.Errorf("%w: %s matches %d members", types.ErrAmbiguousMethod, id, len(matches))
	default:
		r.logger.Warn("ambiguous identifier, using first match",
			zap.String("id", id.String()),
			zap.Int("matches", len(matches)))
		return matches[0], nil
	}
}

func filter(list []*types.Entity, keep func(*types.Entity) bool) []*types.Entity {
	var out []*types.Entity
	for _, e := range list {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
