package match

import (
	"strings"

	"TranscriptLinker/internal/domain"
)

// Filter decides whether an event may be processed at all. Two independent
// rules exclude an event: a confidential keyword in the title, or an
// attendee count of exactly two (a likely one-on-one).
type Filter struct {
	keywords []string
}

// NewFilter lowercases the configured keyword set once up front.
func NewFilter(keywords []string) *Filter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Filter{keywords: lowered}
}

// Eligible reports whether the event may enter the matching stages.
func (f *Filter) Eligible(event domain.CalendarEvent) bool {
	if len(event.Attendees) == 2 {
		return false
	}
	title := strings.ToLower(event.Title)
	for _, kw := range f.keywords {
		if strings.Contains(title, kw) {
			return false
		}
	}
	return true
}
