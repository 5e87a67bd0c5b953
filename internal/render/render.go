package render

import (
	"fmt"
	"strings"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/pkg/types"
)

// Strategy renders declarations for one entity kind
type Strategy interface {
	// Kind returns the record kind produced by this strategy
	Kind() types.DeclarationKind

	// IsSupported reports whether the strategy applies to the entity
	IsSupported(e *types.Entity) bool

	// Render returns the canonical declaration text for the entity
	Render(e *types.Entity) (string, error)
}

// Strategies returns the dispatch table in its fixed order. The first
// strategy that supports an entity wins.
func Strategies() []Strategy {
	return []Strategy{
		delegateStrategy{},
		eventStrategy{},
		fieldStrategy{},
		methodStrategy{},
		namedTypeStrategy{},
		propertyStrategy{},
	}
}

// Engine dispatches entities to rendering strategies
type Engine struct {
	strategies []Strategy
}

// NewEngine creates an engine using the default strategy table
func NewEngine() *Engine {
	return &Engine{strategies: Strategies()}
}

// NewEngineWithStrategies creates an engine with a custom ordered table
func NewEngineWithStrategies(strategies ...Strategy) *Engine {
	return &Engine{strategies: strategies}
}

// StrategyFor returns the first strategy supporting the entity
func (e *Engine) StrategyFor(entity *types.Entity) (Strategy, error) {
	for _, s := range e.strategies {
		if s.IsSupported(entity) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", types.ErrUnsupportedEntity, entity.Kind, entity.Name)
}

// Render validates the entity and renders its declaration text. The
// entity is never modified.
func (e *Engine) Render(entity *types.Entity) (string, error) {
	if entity == nil {
		return "", fmt.Errorf("%w: nil entity", types.ErrInvalidEntity)
	}

	if err := entity.Validate(); err != nil {
		return "", err
	}

	s, err := e.StrategyFor(entity)
	if err != nil {
		return "", err
	}

	text, err := s.Render(entity)
	if err != nil {
		return "", fmt.Errorf("failed to render %s %s: %w", entity.Kind, entity.Name, err)
	}
	return text, nil
}

// Title returns the record title: the display name plus its generic
// parameter list.
func Title(e *types.Entity) string {
	name := e.Name
	if e.IsConstructor() && e.DeclaringType != nil {
		name = e.DeclaringType.Name
	}
	if len(e.GenericParameters) == 0 {
		return name
	}

	names := make([]string, len(e.GenericParameters))
	for i, gp := range e.GenericParameters {
		names[i] = gp.Name
	}
	return name + "<" + strings.Join(names, ", ") + ">"
}

// DisplayName returns the short display text used when an entity is
// referenced from documentation: the simple type name for types, and
// Type.Member for members.
func DisplayName(e *types.Entity) string {
	if e.IsTypeLike() {
		return canon.TypeName(types.Named(e.FullName()), false, true)
	}
	if e.DeclaringType == nil {
		return Title(e)
	}
	return DisplayName(e.DeclaringType) + "." + Title(e)
}
