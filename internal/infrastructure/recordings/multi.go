package recordings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

// MultiSource aggregates several providers into one recording source.
// Providers are queried in configuration order, which fixes the candidate
// pool's insertion order for the run.
type MultiSource struct {
	sources []ports.RecordingSource
	logger  *slog.Logger
}

var _ ports.RecordingSource = (*MultiSource)(nil)

// NewMultiSource wires the enabled providers.
func NewMultiSource(sources []ports.RecordingSource, logger *slog.Logger) *MultiSource {
	return &MultiSource{sources: sources, logger: logger}
}

// Name identifies the aggregate.
func (m *MultiSource) Name() string {
	return "multi"
}

// FetchSince concatenates the providers' results in provider order.
func (m *MultiSource) FetchSince(ctx context.Context, from time.Time) ([]domain.Recording, error) {
	var aggregated []domain.Recording
	for _, source := range m.sources {
		results, err := source.FetchSince(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("fetch recordings from %s: %w", source.Name(), err)
		}
		if m.logger != nil {
			m.logger.Debug("provider produced recordings", "provider", source.Name(), "count", len(results))
		}
		aggregated = append(aggregated, results...)
	}
	return aggregated, nil
}
