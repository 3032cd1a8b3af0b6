// Package reconcile merges analyzer output into a session's fact set.
package reconcile

import (
	"github.com/lexassist/lexassist/internal/providers/analyzer"
)

// Sink is where reconciled facts land; satisfied by facts.Set and by the
// repo-backed store in the session service.
type Sink interface {
	Upsert(key, value, source string, confidence *float64)
}

// Outcome reports the session-level signals the merge produced.
type Outcome struct {
	// Intent is non-empty when the result carried an issue_type entity.
	Intent string
	// Applied counts entity keys written to the sink.
	Applied int
}

// Apply merges every non-empty entity from the result into the sink.
// issue_type is the detected intent, a session attribute rather than a
// fact, so it sets Outcome.Intent and never lands in the sink. Other keys
// are stored schema-agnostically; downstream consumers validate required
// ones. Re-applying an identical result is a no-op on equal values and
// never un-confirms a fact (the sink owns that invariant).
func Apply(sink Sink, res analyzer.Result) Outcome {
	var out Outcome

	for key, value := range res.Entities {
		if value == "" {
			continue
		}
		if key == "issue_type" {
			out.Intent = value
			continue
		}
		var conf *float64
		if c, ok := res.EntityConfidence[key]; ok {
			conf = &c
		}
		sink.Upsert(key, value, "analyzer", conf)
		out.Applied++
	}
	return out
}
