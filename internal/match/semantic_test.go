package match

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"TranscriptLinker/internal/domain"
)

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func semanticCandidates() []domain.Recording {
	return []domain.Recording{
		{ID: "r1", Name: "Sprint planning", Transcript: "we discussed the sprint backlog"},
		{ID: "r2", Name: "Design review", Transcript: "the new storage layout"},
	}
}

func TestSemanticPicksIndexedCandidate(t *testing.T) {
	t.Parallel()

	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "1", nil
	}), nil)

	rec, method, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if rec == nil || rec.ID != "r2" {
		t.Fatalf("expected r2 for index 1, got %+v", rec)
	}
	if method != domain.MethodSemantic {
		t.Fatalf("expected semantic method, got %s", method)
	}
}

func TestSemanticNoneSentinel(t *testing.T) {
	t.Parallel()

	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return " none \n", nil
	}), nil)

	rec, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if rec != nil {
		t.Fatalf("None sentinel must yield no match, got %s", rec.ID)
	}
}

func TestSemanticFailsSafeOnGarbage(t *testing.T) {
	t.Parallel()

	for _, reply := range []string{"the best match is 0", "2", "-1", "", "0.5"} {
		s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
			return reply, nil
		}), nil)

		rec, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
		if err != nil {
			t.Fatalf("reply %q: unexpected error %v", reply, err)
		}
		if rec != nil {
			t.Fatalf("reply %q must fail safe, got %s", reply, rec.ID)
		}
	}
}

func TestSemanticServiceErrorIsNoMatch(t *testing.T) {
	t.Parallel()

	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("completion error 429")
	}), nil)

	rec, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
	if err != nil {
		t.Fatalf("service-level error must downgrade to no match, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no match, got %s", rec.ID)
	}
}

func TestSemanticTransportErrorPropagates(t *testing.T) {
	t.Parallel()

	terr := &domain.TransportError{Op: "completion", Err: errors.New("connection refused")}
	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", terr
	}), nil)

	_, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
	var got *domain.TransportError
	if !errors.As(err, &got) {
		t.Fatalf("expected transport error to pass through, got %v", err)
	}
}

func TestSemanticTimeoutIsNoMatch(t *testing.T) {
	t.Parallel()

	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", context.DeadlineExceeded
	}), nil)

	rec, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, semanticCandidates())
	if err != nil {
		t.Fatalf("timeout must downgrade to no match, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no match on timeout")
	}
}

func TestSemanticPromptShape(t *testing.T) {
	t.Parallel()

	var captured string
	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "None", nil
	}), nil)

	event := domain.CalendarEvent{
		ID:        "e1",
		Title:     "Platform sync",
		Start:     time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC),
		Attendees: []string{"a@x.io", "b@x.io", "c@x.io"},
	}
	candidates := []domain.Recording{
		{ID: "r1", Name: "rec one", Transcript: strings.Repeat("x", 5000)},
		{ID: "r2", Name: "rec two"},
	}

	if _, _, err := s.Match(context.Background(), event, candidates); err != nil {
		t.Fatalf("match: %v", err)
	}

	if !strings.Contains(captured, "Recording Index: 0") || !strings.Contains(captured, "Recording Index: 1") {
		t.Fatalf("prompt misses stable candidate indices:\n%s", captured)
	}
	if !strings.Contains(captured, "Platform sync") {
		t.Fatalf("prompt misses event title")
	}
	if !strings.Contains(captured, "(no transcript text)") {
		t.Fatalf("contentless candidate must still be listed")
	}
	if strings.Contains(captured, strings.Repeat("x", excerptMaxRune+1)) {
		t.Fatalf("transcript excerpt was not truncated")
	}
}

func TestSemanticEmptyCandidatesSkipsCall(t *testing.T) {
	t.Parallel()

	called := false
	s := NewSemantic(completerFunc(func(ctx context.Context, prompt string) (string, error) {
		called = true
		return "0", nil
	}), nil)

	rec, _, err := s.Match(context.Background(), domain.CalendarEvent{ID: "e1"}, nil)
	if err != nil || rec != nil {
		t.Fatalf("expected silent no match, got rec=%v err=%v", rec, err)
	}
	if called {
		t.Fatalf("no candidates must not reach the service")
	}
}
