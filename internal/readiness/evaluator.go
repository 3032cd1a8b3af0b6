// Package readiness turns analyzer signals and the fact set into a
// completion verdict. The analyzer owns the scoring heuristic; this
// package adapts its verdict and adds two local signals: a required-field
// check and a high-risk term scan.
package readiness

import (
	"strings"

	"github.com/lexassist/lexassist/internal/facts"
	"github.com/lexassist/lexassist/internal/providers/analyzer"
)

// Required to move a session out of INCOMPLETE. accused is desired but
// its absence only warns.
var requiredFields = []string{"name", "date", "location"}

var highRiskTerms = []string{"kill", "suicide"}

type Verdict struct {
	Score  *int
	Status string
	Done   bool
	Alert  bool

	Warnings []string
}

// Evaluate computes the verdict for one turn. text is the cumulative
// user conversation text; the high-risk scan runs first and overrides
// every other signal.
func Evaluate(res analyzer.Result, set *facts.Set, text string) Verdict {
	v := Verdict{}

	if res.Readiness != nil {
		score := res.Readiness.Score
		v.Score = &score
		v.Status = res.Readiness.Status
	}

	// Completion fallback when the analyzer gives no verdict: no open
	// question and high confidence means we are done asking.
	v.Done = res.NextQuestion == "" && res.Confidence > 0.8

	if missing := missingRequired(set); len(missing) > 0 {
		v.Status = "INCOMPLETE"
		v.Done = false
		for _, f := range missing {
			v.Warnings = append(v.Warnings, "missing required fact: "+f)
		}
	}
	if blank(set, "accused") {
		v.Warnings = append(v.Warnings, "accused party not identified")
	}

	if containsHighRisk(text) {
		v.Status = "BLOCKED"
		v.Alert = true
		v.Done = false
	}

	return v
}

func missingRequired(set *facts.Set) []string {
	var missing []string
	for _, field := range requiredFields {
		if blank(set, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func blank(set *facts.Set, key string) bool {
	f, ok := set.Get(key)
	return !ok || strings.TrimSpace(f.Value) == ""
}

func containsHighRisk(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range highRiskTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
