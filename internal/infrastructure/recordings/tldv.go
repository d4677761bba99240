package recordings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TranscriptLinker/internal/config"
	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

// tldv reports happenedAt in a JavaScript Date.toString() shape such as
// "Wed Jul 02 2025 14:19:45 GMT+0000 (Coordinated Universal Time)".
const tldvTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// TldvSource fetches meetings and transcripts from the tldv REST API.
type TldvSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.RecordingSource = (*TldvSource)(nil)

// NewTldvSource wires an HTTP client; the zero client gets a 20s timeout.
func NewTldvSource(cfg config.TldvConfig, client *http.Client, logger *slog.Logger) *TldvSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TldvSource{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
	}
}

// Name identifies the provider in configuration.
func (s *TldvSource) Name() string {
	return "tldv"
}

type tldvMeetingsResponse struct {
	Results []struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		HappenedAt      string `json:"happenedAt"`
		ExtraProperties struct {
			ConferenceID string `json:"conferenceId"`
		} `json:"extraProperties"`
	} `json:"results"`
}

type tldvTranscriptResponse struct {
	Data []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"data"`
}

type tldvHighlightsResponse struct {
	Highlights []struct {
		Text string `json:"text"`
	} `json:"highlights"`
}

// FetchSince lists meetings recorded after from and populates each with its
// transcript and highlight text. A failed transcript fetch leaves the
// recording in the result without text rather than dropping it.
func (s *TldvSource) FetchSince(ctx context.Context, from time.Time) ([]domain.Recording, error) {
	listURL := fmt.Sprintf("%s/meetings?from_date=%s", s.baseURL, url.QueryEscape(from.UTC().Format(time.RFC3339)))

	var parsed tldvMeetingsResponse
	if err := s.get(ctx, listURL, &parsed); err != nil {
		return nil, fmt.Errorf("list tldv meetings: %w", err)
	}

	recordings := make([]domain.Recording, 0, len(parsed.Results))
	for _, m := range parsed.Results {
		start, err := parseTldvTime(m.HappenedAt)
		if err != nil {
			s.warn("skipping meeting with unparsable date", "meeting", m.ID, "happenedAt", m.HappenedAt)
			continue
		}

		rec := domain.Recording{
			ID:           m.ID,
			Name:         m.Name,
			ConferenceID: m.ExtraProperties.ConferenceID,
			Start:        start,
			Source:       s.Name(),
		}
		rec.Transcript = s.fetchTranscript(ctx, m.ID)
		rec.Notes = s.fetchNotes(ctx, m.ID)
		recordings = append(recordings, rec)
	}

	return recordings, nil
}

func (s *TldvSource) fetchTranscript(ctx context.Context, meetingID string) string {
	var parsed tldvTranscriptResponse
	if err := s.get(ctx, fmt.Sprintf("%s/meetings/%s/transcript", s.baseURL, meetingID), &parsed); err != nil {
		s.warn("transcript unavailable", "meeting", meetingID, "error", err)
		return ""
	}

	lines := make([]string, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		if entry.Speaker != "" {
			lines = append(lines, entry.Speaker+": "+entry.Text)
			continue
		}
		lines = append(lines, entry.Text)
	}
	return strings.Join(lines, "\n")
}

func (s *TldvSource) fetchNotes(ctx context.Context, meetingID string) string {
	var parsed tldvHighlightsResponse
	if err := s.get(ctx, fmt.Sprintf("%s/meetings/%s/highlights", s.baseURL, meetingID), &parsed); err != nil {
		s.warn("highlights unavailable", "meeting", meetingID, "error", err)
		return ""
	}

	lines := make([]string, 0, len(parsed.Highlights))
	for _, h := range parsed.Highlights {
		lines = append(lines, "- "+h.Text)
	}
	return strings.Join(lines, "\n")
}

func (s *TldvSource) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "tldv fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tldv returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode tldv response: %w", err)
	}
	return nil
}

func parseTldvTime(raw string) (time.Time, error) {
	cleaned := raw
	if idx := strings.Index(cleaned, "("); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return time.Parse(tldvTimeLayout, strings.TrimSpace(cleaned))
}

func (s *TldvSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
