package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TranscriptLinker/internal/config"
	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

const (
	eventFields      = "items(id,summary,description,start,end,attendees,attachments,conferenceData(conferenceId))"
	transcriptPrefix = "Transcript for"
	transcriptSuffix = " - Transcript"
	descriptionMark  = "Transcript:"
)

// Source fetches concluded events from the Google Calendar API. It derives
// the correlation id from the event's conference data and the processed
// marker from existing transcript attachments or a transcript link in the
// description, so the matching engine never queries attachment state itself.
type Source struct {
	baseURL    string
	calendarID string
	token      string
	client     *http.Client
}

var _ ports.EventSource = (*Source)(nil)

// NewSource wires an HTTP client; the zero client gets a 20s timeout.
func NewSource(cfg config.CalendarConfig, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Source{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		calendarID: cfg.CalendarID,
		token:      cfg.Token,
		client:     client,
	}
}

type listResponse struct {
	Items []eventItem `json:"items"`
}

type eventItem struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Start       struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
	Attendees []struct {
		Email string `json:"email"`
	} `json:"attendees"`
	Attachments []struct {
		Title string `json:"title"`
	} `json:"attachments"`
	ConferenceData struct {
		ConferenceID string `json:"conferenceId"`
	} `json:"conferenceData"`
}

// FetchConcluded lists single events in [from, to] and keeps only those that
// have already ended. All-day events carry no dateTime and are dropped.
func (s *Source) FetchConcluded(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	listURL, err := s.buildListURL(from, to)
	if err != nil {
		return nil, err
	}

	var parsed listResponse
	if err := getJSON(ctx, s.client, listURL, "Bearer "+s.token, &parsed); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}
		if !end.Before(to) {
			continue
		}

		attendees := make([]string, 0, len(item.Attendees))
		for _, att := range item.Attendees {
			attendees = append(attendees, att.Email)
		}

		description := flattenDescription(item.Description)

		events = append(events, domain.CalendarEvent{
			ID:            item.ID,
			Title:         item.Summary,
			Start:         start,
			End:           end,
			Attendees:     attendees,
			ConferenceID:  item.ConferenceData.ConferenceID,
			HasTranscript: hasTranscriptMarker(item, description),
			Description:   description,
		})
	}

	return events, nil
}

func (s *Source) buildListURL(from, to time.Time) (string, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/calendars/%s/events", s.baseURL, url.PathEscape(s.calendarID)))
	if err != nil {
		return "", fmt.Errorf("invalid calendar base url: %w", err)
	}

	query := parsed.Query()
	query.Set("timeMin", from.UTC().Format(time.RFC3339))
	query.Set("timeMax", to.UTC().Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	query.Set("fields", eventFields)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func hasTranscriptMarker(item eventItem, description string) bool {
	for _, att := range item.Attachments {
		if strings.HasPrefix(att.Title, transcriptPrefix) || strings.HasSuffix(att.Title, transcriptSuffix) {
			return true
		}
	}
	return strings.Contains(description, descriptionMark)
}

// flattenDescription strips the HTML Google Calendar stores in descriptions
// down to plain text so marker and keyword scans see the visible content.
func flattenDescription(raw string) string {
	if raw == "" || !strings.ContainsRune(raw, '<') {
		return strings.TrimSpace(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(doc.Text())
}

func getJSON(ctx context.Context, client *http.Client, rawURL, authorization string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", authorization)

	resp, err := client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "calendar fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar API returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode calendar response: %w", err)
	}
	return nil
}
