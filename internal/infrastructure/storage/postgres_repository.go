package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

// PostgresRepository persists match results into Postgres. Beyond audit, the
// stored event ids feed the already-processed marker on later runs.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.MatchRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyProcessed returns a map with event ids that were matched in any
// earlier run.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, eventIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(eventIDs) == 0 {
		return result, nil
	}

	query, args, err := r.builder.
		Select("event_id").
		From("match_results").
		Where(sq.Eq{"outcome": string(domain.OutcomeMatched)}).
		Where("event_id = ANY(?)", pq.StringArray(eventIDs)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build processed query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveResult upserts the per-event verdict for the given run.
func (r *PostgresRepository) SaveResult(ctx context.Context, runID string, result domain.MatchResult) error {
	if r.db == nil {
		return nil
	}

	var recordingID, method, source sql.NullString
	if result.Recording != nil {
		recordingID = sql.NullString{String: result.Recording.ID, Valid: true}
		method = sql.NullString{String: string(result.Method), Valid: true}
		source = sql.NullString{String: result.Recording.Source, Valid: true}
	}

	query, args, err := r.builder.
		Insert("match_results").
		Columns("run_id", "event_id", "event_title", "outcome", "recording_id", "method", "recording_source").
		Values(runID, result.Event.ID, result.Event.Title, string(result.Outcome), recordingID, method, source).
		Suffix(`ON CONFLICT (event_id) DO UPDATE
			SET run_id = EXCLUDED.run_id,
			    outcome = EXCLUDED.outcome,
			    recording_id = EXCLUDED.recording_id,
			    method = EXCLUDED.method,
			    recording_source = EXCLUDED.recording_source,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match result: %w", err)
	}

	return nil
}
