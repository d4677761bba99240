package match

import (
	"fmt"
	"iter"

	"TranscriptLinker/internal/domain"
)

// Pool holds the unmatched recordings for a single run. It is owned by one
// orchestrator and must never be shared across runs.
type Pool struct {
	order      []string
	recordings map[string]domain.Recording
}

// NewPool seeds a pool with the run's recordings, preserving source order.
// Duplicate ids keep the first occurrence.
func NewPool(recordings []domain.Recording) *Pool {
	p := &Pool{recordings: make(map[string]domain.Recording, len(recordings))}
	for _, rec := range recordings {
		if _, ok := p.recordings[rec.ID]; ok {
			continue
		}
		p.order = append(p.order, rec.ID)
		p.recordings[rec.ID] = rec
	}
	return p
}

// Remaining yields the recordings not yet consumed, in insertion order.
func (p *Pool) Remaining() iter.Seq[domain.Recording] {
	return func(yield func(domain.Recording) bool) {
		for _, id := range p.order {
			rec, ok := p.recordings[id]
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Len reports how many recordings are still unmatched.
func (p *Pool) Len() int {
	return len(p.recordings)
}

// Consume removes a recording from the pool. It fails with domain.ErrNotFound
// when the recording was already consumed or never present, which guards
// against double assignment.
func (p *Pool) Consume(id string) error {
	if _, ok := p.recordings[id]; !ok {
		return fmt.Errorf("consume recording %s: %w", id, domain.ErrNotFound)
	}
	delete(p.recordings, id)
	return nil
}
