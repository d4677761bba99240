package ports

import (
	"context"
	"time"

	"TranscriptLinker/internal/domain"
)

// EventSource yields concluded calendar events inside a time window.
type EventSource interface {
	FetchConcluded(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
}

// RecordingSource yields recordings from one provider (tldv, Fireflies, ...).
type RecordingSource interface {
	Name() string
	FetchSince(ctx context.Context, from time.Time) ([]domain.Recording, error)
}

// Completer sends a prompt to a text-completion service and returns the
// raw response text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MatchRepository persists match results for audit and cross-run idempotence.
type MatchRepository interface {
	AlreadyProcessed(ctx context.Context, eventIDs []string) (map[string]bool, error)
	SaveResult(ctx context.Context, runID string, result domain.MatchResult) error
}

// Notifier publishes the run summary to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
