package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TranscriptLinker/internal/config"
)

const listPayload = `{
  "items": [
    {
      "id": "ev-1",
      "summary": "Team sync",
      "description": "<p>Agenda items</p><br><a href=\"https://meet\">join</a>",
      "start": {"dateTime": "2025-07-02T10:00:00Z"},
      "end": {"dateTime": "2025-07-02T10:30:00Z"},
      "attendees": [{"email": "a@x.io"}, {"email": "b@x.io"}, {"email": "c@x.io"}],
      "conferenceData": {"conferenceId": "phg-akrz-ctx"}
    },
    {
      "id": "ev-2",
      "summary": "Processed already",
      "start": {"dateTime": "2025-07-02T11:00:00Z"},
      "end": {"dateTime": "2025-07-02T11:30:00Z"},
      "attachments": [{"title": "Processed already - Transcript"}]
    },
    {
      "id": "ev-3",
      "summary": "Still running",
      "start": {"dateTime": "2025-07-02T11:00:00Z"},
      "end": {"dateTime": "2025-07-03T12:30:00Z"}
    },
    {
      "id": "ev-4",
      "summary": "All-day planning"
    }
  ]
}`

func TestFetchConcluded(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header: %s", got)
		}
		q := r.URL.Query()
		if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("timeMin") == "" || q.Get("timeMax") == "" {
			t.Errorf("window params missing: %v", q)
		}
		_, _ = w.Write([]byte(listPayload))
	}))
	defer server.Close()

	src := NewSource(config.CalendarConfig{
		BaseURL:    server.URL,
		CalendarID: "primary",
		Token:      "tok",
	}, server.Client())

	from := time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.July, 2, 23, 0, 0, 0, time.UTC)
	events, err := src.FetchConcluded(context.Background(), from, to)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// ev-3 has not concluded, ev-4 has no dateTime.
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.ID != "ev-1" || first.ConferenceID != "phg-akrz-ctx" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if len(first.Attendees) != 3 {
		t.Fatalf("unexpected attendees: %v", first.Attendees)
	}
	if first.HasTranscript {
		t.Fatalf("ev-1 has no transcript marker")
	}
	if first.Description != "Agenda itemsjoin" {
		t.Fatalf("description not flattened to text: %q", first.Description)
	}

	if !events[1].HasTranscript {
		t.Fatalf("ev-2 attachment must set the processed marker")
	}
}

func TestFetchConcludedDescriptionMarker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{
			"id": "ev-1",
			"summary": "Sync",
			"description": "<b>Transcript:</b> https://docs.example/d/1",
			"start": {"dateTime": "2025-07-02T10:00:00Z"},
			"end": {"dateTime": "2025-07-02T10:30:00Z"}
		}]}`))
	}))
	defer server.Close()

	src := NewSource(config.CalendarConfig{BaseURL: server.URL, CalendarID: "primary", Token: "tok"}, server.Client())

	events, err := src.FetchConcluded(context.Background(),
		time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 2, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(events) != 1 || !events[0].HasTranscript {
		t.Fatalf("transcript link in description must set the processed marker: %+v", events)
	}
}

func TestFetchConcludedErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	src := NewSource(config.CalendarConfig{BaseURL: server.URL, CalendarID: "primary", Token: "bad"}, server.Client())

	_, err := src.FetchConcluded(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatalf("expected error on 403")
	}
}
