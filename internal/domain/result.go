package domain

// MatchMethod describes how an event was paired with a recording.
type MatchMethod string

// Match methods.
const (
	MethodCorrelation MatchMethod = "correlation"
	MethodProximity   MatchMethod = "proximity"
	MethodSemantic    MatchMethod = "semantic"
)

// Outcome classifies the terminal state of one event within a run.
type Outcome string

// Outcomes. Exactly one is assigned per input event.
const (
	OutcomeMatched          Outcome = "matched"
	OutcomeSkippedConf      Outcome = "skipped-confidential"
	OutcomeSkippedProcessed Outcome = "skipped-already-processed"
	OutcomeNoCandidate      Outcome = "no-candidate"
	OutcomeFetchError       Outcome = "fetch-error"
)

// MatchResult is the per-event verdict emitted by the orchestrator.
// Recording and Method are set only when Outcome is OutcomeMatched.
type MatchResult struct {
	Event     CalendarEvent
	Recording *Recording
	Method    MatchMethod
	Outcome   Outcome
}

// Summary counts results per outcome tag for run-level reporting.
type Summary struct {
	Matched          int
	SkippedConf      int
	SkippedProcessed int
	NoCandidate      int
	FetchError       int
}

// Summarize tallies a result list into per-outcome counts.
func Summarize(results []MatchResult) Summary {
	var s Summary
	for _, res := range results {
		switch res.Outcome {
		case OutcomeMatched:
			s.Matched++
		case OutcomeSkippedConf:
			s.SkippedConf++
		case OutcomeSkippedProcessed:
			s.SkippedProcessed++
		case OutcomeNoCandidate:
			s.NoCandidate++
		case OutcomeFetchError:
			s.FetchError++
		}
	}
	return s
}
