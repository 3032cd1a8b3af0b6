package analyzer

import "fmt"

// Normalize maps a raw analyzer payload to a Result. Two wire shapes are
// accepted: the structured /analyze response and the conversational agent
// response ({content, intent?, readiness_score?, entities?, is_document?,
// is_confirmation?}). Unknown or absent fields stay at their zero value.
func Normalize(raw map[string]any) Result {
	if raw == nil {
		return DegradedResult()
	}
	if _, ok := raw["content"]; ok {
		return normalizeConversational(raw)
	}
	return normalizeStructured(raw)
}

func normalizeStructured(raw map[string]any) Result {
	res := Result{Raw: raw}

	if m, ok := raw["entities"].(map[string]any); ok {
		res.Entities = stringifyMap(m)
	}
	res.Intent = asString(raw["intent"])
	res.Domain = asString(raw["domain"])
	res.Confidence = asFloat(raw["confidence"])
	res.LegalSections = asString(raw["legal_sections"])
	res.NextQuestion = asString(raw["next_question"])

	if m, ok := raw["filing_guidance"].(map[string]any); ok {
		res.FilingGuidance = m
	}
	if m, ok := raw["readiness"].(map[string]any); ok {
		r := Readiness{
			Score:  int(asFloat(m["score"])),
			Status: asString(m["status"]),
		}
		res.Readiness = &r
	}
	if m, ok := raw["entity_confidence"].(map[string]any); ok {
		res.EntityConfidence = make(map[string]float64, len(m))
		for k, v := range m {
			res.EntityConfidence[k] = asFloat(v)
		}
	}
	if list, ok := raw["required_fields"].([]any); ok {
		for _, v := range list {
			if s := asString(v); s != "" {
				res.RequiredFields = append(res.RequiredFields, s)
			}
		}
	}
	return res
}

// The agent shape carries no confidence figure; completion is signalled
// by is_document instead, which we translate into the structured
// convention (no next question, full confidence).
func normalizeConversational(raw map[string]any) Result {
	res := Result{Raw: raw}

	if m, ok := raw["entities"].(map[string]any); ok {
		res.Entities = stringifyMap(m)
	}
	res.Intent = asString(raw["intent"])

	content := asString(raw["content"])
	if asBool(raw["is_document"]) || asBool(raw["is_confirmation"]) {
		res.Confidence = 1.0
	} else {
		res.NextQuestion = content
		res.Confidence = 0.5
	}

	if v, ok := raw["readiness_score"]; ok && v != nil {
		score := int(asFloat(v))
		res.Readiness = &Readiness{Score: score, Status: statusForScore(score)}
	}
	return res
}

// Thresholds match the analyzer's own scoring bands.
func statusForScore(score int) string {
	switch {
	case score >= 80:
		return "READY"
	case score >= 50:
		return "WEAK_CASE"
	default:
		return "NOT_ACTIONABLE"
	}
}

func stringifyMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
