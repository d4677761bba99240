package domain

import "time"

// CalendarEvent is a concluded calendar entry fetched for one run.
// Immutable once fetched; the matcher never writes back to it.
type CalendarEvent struct {
	ID            string
	Title         string
	Start         time.Time
	End           time.Time
	Attendees     []string
	ConferenceID  string
	HasTranscript bool
	Description   string
}

// Recording is one externally recorded session offered as a match candidate.
type Recording struct {
	ID           string
	Name         string
	ConferenceID string
	Start        time.Time
	Transcript   string
	Notes        string
	Source       string
}

// HasText reports whether the recording carries any free-text content
// usable by the semantic matcher.
func (r Recording) HasText() bool {
	return r.Transcript != "" || r.Notes != ""
}

// Text returns the recording's best available free-text content.
func (r Recording) Text() string {
	if r.Transcript != "" {
		return r.Transcript
	}
	return r.Notes
}
