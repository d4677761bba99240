package match

import (
	"context"
	"time"

	"TranscriptLinker/internal/domain"
)

// Deterministic pairs events and recordings by correlation id first, then by
// start-time proximity inside a bounded window.
type Deterministic struct {
	window time.Duration
}

var _ Strategy = (*Deterministic)(nil)

// NewDeterministic builds the strategy with the maximum start-time delta
// allowed for proximity matches.
func NewDeterministic(window time.Duration) *Deterministic {
	return &Deterministic{window: window}
}

// Name identifies the strategy inside the registry.
func (d *Deterministic) Name() string {
	return "deterministic"
}

// Match runs the two stages in strict order. The correlation stage is skipped
// entirely when the event carries no correlation id; the proximity stage then
// decides alone.
func (d *Deterministic) Match(_ context.Context, event domain.CalendarEvent, candidates []domain.Recording) (*domain.Recording, domain.MatchMethod, error) {
	if event.ConferenceID != "" {
		for _, rec := range candidates {
			if rec.ConferenceID != "" && rec.ConferenceID == event.ConferenceID {
				return &rec, domain.MethodCorrelation, nil
			}
		}
	}

	if rec := d.nearest(event, candidates); rec != nil {
		return rec, domain.MethodProximity, nil
	}
	return nil, "", nil
}

// nearest picks the candidate with the smallest absolute start-time delta.
// Equal deltas are broken by the lexicographically smallest recording id so
// the choice is reproducible regardless of candidate order. Deltas beyond
// the window never match, however close they are relative to the rest.
func (d *Deterministic) nearest(event domain.CalendarEvent, candidates []domain.Recording) *domain.Recording {
	var (
		best      *domain.Recording
		bestDelta time.Duration
	)
	for _, rec := range candidates {
		delta := event.Start.Sub(rec.Start).Abs()
		if delta > d.window {
			continue
		}
		if best == nil || delta < bestDelta || (delta == bestDelta && rec.ID < best.ID) {
			r := rec
			best = &r
			bestDelta = delta
		}
	}
	return best
}
