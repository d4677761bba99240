package match

import (
	"context"
	"fmt"

	"TranscriptLinker/internal/domain"
)

// Strategy is one way of pairing an event with a candidate recording.
// Implementations are pure with respect to the candidate slice: consumption
// is the orchestrator's job once a result is accepted.
//
// A nil recording with a nil error means "no match". A *domain.TransportError
// signals a network-level fault the caller may want to retry in a later run.
type Strategy interface {
	Name() string
	Match(ctx context.Context, event domain.CalendarEvent, candidates []domain.Recording) (*domain.Recording, domain.MatchMethod, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns the strategies for the given names, in order.
func (r *Registry) Resolve(names []string) ([]Strategy, error) {
	resolved := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := r.strategies[name]
		if !ok {
			return nil, fmt.Errorf("strategy %s is not registered", name)
		}
		resolved = append(resolved, s)
	}
	return resolved, nil
}
