package match

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"TranscriptLinker/internal/domain"
)

// Orchestrator sequences the confidentiality filter, the processed check,
// and the configured strategies for every event of a run. Events are handled
// strictly in input order: earlier events have first claim on ambiguous
// candidates, which is intentional policy, not an accident of iteration.
type Orchestrator struct {
	filter     *Filter
	strategies []Strategy
	logger     *slog.Logger
}

// NewOrchestrator wires the filter and the ordered strategy list.
func NewOrchestrator(filter *Filter, strategies []Strategy, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{filter: filter, strategies: strategies, logger: logger}
}

// Run produces exactly one MatchResult per event. The candidate pool is
// created here and lives only for this call; a recording consumed by one
// event is invisible to every later event.
func (o *Orchestrator) Run(ctx context.Context, events []domain.CalendarEvent, recordings []domain.Recording) []domain.MatchResult {
	pool := NewPool(recordings)
	results := make([]domain.MatchResult, 0, len(events))
	for _, event := range events {
		results = append(results, o.processEvent(ctx, event, pool))
	}
	return results
}

func (o *Orchestrator) processEvent(ctx context.Context, event domain.CalendarEvent, pool *Pool) domain.MatchResult {
	if !o.filter.Eligible(event) {
		o.info("event excluded as confidential", "event", event.ID, "title", event.Title)
		return domain.MatchResult{Event: event, Outcome: domain.OutcomeSkippedConf}
	}

	if event.HasTranscript {
		o.info("event already carries a transcript attachment", "event", event.ID)
		return domain.MatchResult{Event: event, Outcome: domain.OutcomeSkippedProcessed}
	}

	candidates := slices.Collect(pool.Remaining())
	for _, strategy := range o.strategies {
		rec, method, err := strategy.Match(ctx, event, candidates)
		if err != nil {
			var terr *domain.TransportError
			if errors.As(err, &terr) {
				o.warn("transport fault during matching, will retry next run",
					"event", event.ID, "strategy", strategy.Name(), "error", err)
				return domain.MatchResult{Event: event, Outcome: domain.OutcomeFetchError}
			}
			o.warn("strategy failed", "event", event.ID, "strategy", strategy.Name(), "error", err)
			continue
		}
		if rec == nil {
			continue
		}

		if err := pool.Consume(rec.ID); err != nil {
			// A well-behaved strategy only returns candidates from the pool,
			// so this indicates a contract violation somewhere.
			o.warn("anomaly: matched recording was not in the pool",
				"event", event.ID, "recording", rec.ID, "error", err)
			return domain.MatchResult{Event: event, Outcome: domain.OutcomeNoCandidate}
		}

		o.info("matched", "event", event.ID, "recording", rec.ID, "method", method)
		return domain.MatchResult{Event: event, Recording: rec, Method: method, Outcome: domain.OutcomeMatched}
	}

	return domain.MatchResult{Event: event, Outcome: domain.OutcomeNoCandidate}
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
