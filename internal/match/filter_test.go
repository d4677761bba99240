package match

import (
	"testing"

	"TranscriptLinker/internal/domain"
)

func TestFilterKeywordInTitle(t *testing.T) {
	t.Parallel()

	filter := NewFilter([]string{"1:1", "private", "performance review"})

	cases := []struct {
		title    string
		eligible bool
	}{
		{"Weekly team sync", true},
		{"1:1 with manager", false},
		{"Quarterly PRIVATE planning", false},
		{"Performance Review - H2", false},
		{"Roadmap discussion", true},
	}

	for _, tc := range cases {
		ev := domain.CalendarEvent{Title: tc.title, Attendees: []string{"a", "b", "c"}}
		if got := filter.Eligible(ev); got != tc.eligible {
			t.Fatalf("title %q: expected eligible=%v, got %v", tc.title, tc.eligible, got)
		}
	}
}

func TestFilterTwoAttendees(t *testing.T) {
	t.Parallel()

	filter := NewFilter([]string{"1:1"})

	ev := domain.CalendarEvent{Title: "Architecture deep dive", Attendees: []string{"a", "b"}}
	if filter.Eligible(ev) {
		t.Fatalf("two-attendee event must be excluded regardless of title")
	}

	ev.Attendees = append(ev.Attendees, "c")
	if !filter.Eligible(ev) {
		t.Fatalf("three-attendee event with clean title should be eligible")
	}
}

func TestFilterIgnoresBlankKeywords(t *testing.T) {
	t.Parallel()

	filter := NewFilter([]string{"  ", "", "secret"})

	ev := domain.CalendarEvent{Title: "anything at all", Attendees: []string{"a", "b", "c"}}
	if !filter.Eligible(ev) {
		t.Fatalf("blank keywords must not match every title")
	}
}
