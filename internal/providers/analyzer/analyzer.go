package analyzer

import "context"

// Readiness is the analyzer's verdict on whether the accumulated facts
// can produce an actionable document.
type Readiness struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
}

// Result is the normalized analyzer output for one turn. A Result is
// always usable: transport or decode failures yield a degraded Result
// with zero confidence instead of an error, so a failed analyzer call
// reads as "no new information this turn".
type Result struct {
	Entities         map[string]string
	EntityConfidence map[string]float64

	Intent         string
	Domain         string
	Confidence     float64
	Readiness      *Readiness
	LegalSections  string
	FilingGuidance map[string]any
	NextQuestion   string
	RequiredFields []string

	Degraded bool
	Raw      map[string]any
}

// Degraded is the result used when the analyzer is unreachable or
// returns something unparseable.
func DegradedResult() Result {
	return Result{Degraded: true}
}

// Provider analyzes the cumulative conversation text. Implementations
// must bound their wait and must not return an error for transport
// failures; the orchestrator branches on Result.Degraded.
type Provider interface {
	Analyze(ctx context.Context, text string) Result
}
