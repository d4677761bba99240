package recordings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"TranscriptLinker/internal/config"
	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

// FirefliesSource fetches transcripts from the Fireflies.ai GraphQL API.
type FirefliesSource struct {
	graphqlURL string
	apiKey     string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.RecordingSource = (*FirefliesSource)(nil)

// NewFirefliesSource wires an HTTP client; the zero client gets a 20s timeout.
func NewFirefliesSource(cfg config.FirefliesConfig, client *http.Client, logger *slog.Logger) *FirefliesSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &FirefliesSource{
		graphqlURL: cfg.GraphQLURL,
		apiKey:     cfg.APIKey,
		client:     client,
		logger:     logger,
	}
}

// Name identifies the provider in configuration.
func (s *FirefliesSource) Name() string {
	return "fireflies"
}

const firefliesListQuery = `
	query {
		transcripts {
			id
			title
			date
			sentences { text }
			conference { id }
		}
	}
`

type firefliesListResponse struct {
	Data struct {
		Transcripts []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			Date      int64  `json:"date"`
			Sentences []struct {
				Text string `json:"text"`
			} `json:"sentences"`
			Conference struct {
				ID string `json:"id"`
			} `json:"conference"`
		} `json:"transcripts"`
	} `json:"data"`
}

// FetchSince lists Fireflies transcripts and keeps those recorded after from.
// The date field is a unix timestamp in milliseconds.
func (s *FirefliesSource) FetchSince(ctx context.Context, from time.Time) ([]domain.Recording, error) {
	var parsed firefliesListResponse
	if err := s.query(ctx, firefliesListQuery, &parsed); err != nil {
		return nil, fmt.Errorf("list fireflies transcripts: %w", err)
	}

	var recordings []domain.Recording
	for _, tr := range parsed.Data.Transcripts {
		start := time.UnixMilli(tr.Date).UTC()
		if start.Before(from) {
			continue
		}

		lines := make([]string, 0, len(tr.Sentences))
		for _, sentence := range tr.Sentences {
			lines = append(lines, sentence.Text)
		}

		recordings = append(recordings, domain.Recording{
			ID:           tr.ID,
			Name:         tr.Title,
			ConferenceID: tr.Conference.ID,
			Start:        start,
			Transcript:   strings.Join(lines, "\n"),
			Source:       s.Name(),
		})
	}

	return recordings, nil
}

func (s *FirefliesSource) query(ctx context.Context, query string, v any) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("marshal graphql query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "fireflies fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fireflies returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode fireflies response: %w", err)
	}
	return nil
}
