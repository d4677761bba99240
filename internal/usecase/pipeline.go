package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/match"
	"TranscriptLinker/internal/ports"
)

// PipelineDeps wires all driven adapters into the run pipeline.
type PipelineDeps struct {
	Events       ports.EventSource
	Recordings   ports.RecordingSource
	Repository   ports.MatchRepository
	Notifier     ports.Notifier
	Orchestrator *match.Orchestrator
	Lookback     time.Duration
	DryRun       bool
	Logger       *slog.Logger
}

// Pipeline implements one full linking run: fetch both sides, mark events
// matched in earlier runs, hand both collections to the orchestrator, then
// persist and report the outcomes.
type Pipeline struct {
	events       ports.EventSource
	recordings   ports.RecordingSource
	repository   ports.MatchRepository
	notifier     ports.Notifier
	orchestrator *match.Orchestrator
	lookback     time.Duration
	dryRun       bool
	logger       *slog.Logger
}

// NewPipeline constructs the run pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		events:       deps.Events,
		recordings:   deps.Recordings,
		repository:   deps.Repository,
		notifier:     deps.Notifier,
		orchestrator: deps.Orchestrator,
		lookback:     deps.Lookback,
		dryRun:       deps.DryRun,
		logger:       deps.Logger,
	}
}

// Run executes one pass ending at now. Per-event absence of a match is never
// an error; only run-level failures (fetching either collection) are.
func (p *Pipeline) Run(ctx context.Context, now time.Time) ([]domain.MatchResult, error) {
	runID := uuid.NewString()
	from := now.Add(-p.lookback)
	p.info("starting run", "run", runID, "from", from.Format(time.RFC3339), "to", now.Format(time.RFC3339))

	events, err := p.events.FetchConcluded(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}
	if len(events) == 0 {
		p.info("no concluded events in window", "run", runID)
		return nil, nil
	}

	if err := p.markProcessed(ctx, events); err != nil {
		return nil, err
	}

	recordings, err := p.recordings.FetchSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("fetch recordings: %w", err)
	}
	p.info("fetched run inputs", "run", runID, "events", len(events), "recordings", len(recordings))

	results := p.orchestrator.Run(ctx, events, recordings)

	if !p.dryRun && p.repository != nil {
		for _, res := range results {
			if err := p.repository.SaveResult(ctx, runID, res); err != nil {
				return results, fmt.Errorf("persist result for event %s: %w", res.Event.ID, err)
			}
		}
	}

	summary := domain.Summarize(results)
	p.info("run finished", "run", runID,
		"matched", summary.Matched,
		"skipped_confidential", summary.SkippedConf,
		"skipped_already_processed", summary.SkippedProcessed,
		"no_candidate", summary.NoCandidate,
		"fetch_error", summary.FetchError)

	if !p.dryRun && p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, buildDigest(runID, summary)); err != nil {
			p.warn("publish digest failed", "run", runID, "error", err)
		}
	}

	return results, nil
}

// markProcessed flips the processed marker for events matched in earlier
// runs, so reprocessing the same window stays idempotent even when the
// calendar copy of the attachment is not visible yet.
func (p *Pipeline) markProcessed(ctx context.Context, events []domain.CalendarEvent) error {
	if p.repository == nil {
		return nil
	}

	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}
	processed, err := p.repository.AlreadyProcessed(ctx, ids)
	if err != nil {
		return fmt.Errorf("load processed events: %w", err)
	}
	for i := range events {
		if processed[events[i].ID] {
			events[i].HasTranscript = true
		}
	}
	return nil
}

func buildDigest(runID string, s domain.Summary) string {
	return fmt.Sprintf("*Transcript linking run* `%s`\n"+
		"- matched: %d\n"+
		"- skipped confidential: %d\n"+
		"- skipped already processed: %d\n"+
		"- no candidate: %d\n"+
		"- fetch errors: %d",
		runID, s.Matched, s.SkippedConf, s.SkippedProcessed, s.NoCandidate, s.FetchError)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
