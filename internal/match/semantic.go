package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"TranscriptLinker/internal/domain"
	"TranscriptLinker/internal/ports"
)

const (
	noneToken      = "None"
	excerptMaxRune = 2000
)

// Semantic asks a text-completion service to pick the best candidate from
// the remaining recordings using their free-text content. It is a fallback:
// any unusable response is "no match", never an arbitrary choice.
type Semantic struct {
	completer ports.Completer
	logger    *slog.Logger
}

var _ Strategy = (*Semantic)(nil)

// NewSemantic wires the completion client.
func NewSemantic(completer ports.Completer, logger *slog.Logger) *Semantic {
	return &Semantic{completer: completer, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *Semantic) Name() string {
	return "semantic"
}

// Match builds an indexed prompt over the candidates and expects a single
// integer index or the literal None back. No retries: one failed call means
// no match for this event. A transport-level fault is passed through so the
// caller can schedule a retry run; a context timeout is treated as no match.
func (s *Semantic) Match(ctx context.Context, event domain.CalendarEvent, candidates []domain.Recording) (*domain.Recording, domain.MatchMethod, error) {
	if s.completer == nil || len(candidates) == 0 {
		return nil, "", nil
	}

	reply, err := s.completer.Complete(ctx, s.buildPrompt(event, candidates))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.warn("semantic matching timed out", "event", event.ID)
			return nil, "", nil
		}
		var terr *domain.TransportError
		if errors.As(err, &terr) {
			return nil, "", err
		}
		s.warn("semantic service error", "event", event.ID, "error", err)
		return nil, "", nil
	}

	idx, ok := parseChoice(reply, len(candidates))
	if !ok {
		s.warn("unusable semantic reply", "event", event.ID, "reply", reply)
		return nil, "", nil
	}
	if idx < 0 {
		return nil, "", nil
	}
	rec := candidates[idx]
	return &rec, domain.MethodSemantic, nil
}

func (s *Semantic) buildPrompt(event domain.CalendarEvent, candidates []domain.Recording) string {
	var b strings.Builder
	b.WriteString("You are an intelligent assistant. Your task is to decide which of the recorded meetings below, if any, is the recording of the calendar event.\n\n")
	b.WriteString("--- CALENDAR EVENT START ---\n")
	fmt.Fprintf(&b, "Title: %s\n", event.Title)
	fmt.Fprintf(&b, "Start Time: %s\n", event.Start.Format(time.RFC3339))
	fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(event.Attendees, ", "))
	if event.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", event.Description)
	}
	b.WriteString("--- CALENDAR EVENT END ---\n\n")
	b.WriteString("Here are the candidate recordings:\n--- RECORDINGS START ---\n")
	for i, rec := range candidates {
		fmt.Fprintf(&b, "Recording Index: %d\n", i)
		fmt.Fprintf(&b, "  Name: %s\n", rec.Name)
		fmt.Fprintf(&b, "  Start Time: %s\n", rec.Start.Format(time.RFC3339))
		fmt.Fprintf(&b, "  Content: %s\n\n", excerpt(rec))
	}
	b.WriteString("--- RECORDINGS END ---\n\n")
	b.WriteString("Analyze the recording contents for topics, names, projects, or any other clues and compare them with the event.\n\n")
	b.WriteString("IMPORTANT: Your response MUST be ONLY the numeric 'Recording Index' of the single best match. ")
	b.WriteString("DO NOT include any other text, explanations, or formatting. ")
	b.WriteString("If no recording is a clear match, you MUST respond with the single word '" + noneToken + "'.")
	return b.String()
}

func excerpt(rec domain.Recording) string {
	if !rec.HasText() {
		return "(no transcript text)"
	}
	text := rec.Text()
	runes := []rune(text)
	if len(runes) > excerptMaxRune {
		text = string(runes[:excerptMaxRune])
	}
	return strings.ReplaceAll(text, "\n", " ")
}

// parseChoice maps the reply to a candidate index. It returns (-1, true) for
// the None sentinel and (0, false) for anything unusable, including indices
// outside [0, count).
func parseChoice(reply string, count int) (int, bool) {
	reply = strings.TrimSpace(reply)
	if strings.EqualFold(reply, noneToken) {
		return -1, true
	}
	idx, err := strconv.Atoi(reply)
	if err != nil {
		return 0, false
	}
	if idx < 0 || idx >= count {
		return 0, false
	}
	return idx, true
}

func (s *Semantic) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
