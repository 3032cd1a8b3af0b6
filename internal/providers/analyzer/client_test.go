package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientStructuredResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"entities": {"issue_type": "theft", "date": "yesterday"},
			"confidence": 0.9,
			"next_question": "What is your name?",
			"readiness": {"score": 45, "status": "NOT_ACTIONABLE"},
			"legal_sections": "IPC 379"
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	res := c.Analyze(context.Background(), "my phone was stolen")

	if res.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if res.Entities["issue_type"] != "theft" || res.Entities["date"] != "yesterday" {
		t.Errorf("entities = %v", res.Entities)
	}
	if res.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", res.Confidence)
	}
	if res.NextQuestion != "What is your name?" {
		t.Errorf("next question = %q", res.NextQuestion)
	}
	if res.Readiness == nil || res.Readiness.Score != 45 || res.Readiness.Status != "NOT_ACTIONABLE" {
		t.Errorf("readiness = %+v", res.Readiness)
	}
	if res.LegalSections != "IPC 379" {
		t.Errorf("legal sections = %q", res.LegalSections)
	}
}

func TestHTTPClientConversationalResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"content": "When did it happen?",
			"intent": "theft",
			"readiness_score": 85,
			"entities": {"location": "market"}
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	res := c.Analyze(context.Background(), "text")

	if res.NextQuestion != "When did it happen?" {
		t.Errorf("next question = %q", res.NextQuestion)
	}
	if res.Intent != "theft" {
		t.Errorf("intent = %q", res.Intent)
	}
	if res.Readiness == nil || res.Readiness.Status != "READY" {
		t.Errorf("readiness = %+v, want READY for score 85", res.Readiness)
	}
	if res.Entities["location"] != "market" {
		t.Errorf("entities = %v", res.Entities)
	}
}

func TestHTTPClientUnreachableIsDegraded(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1/analyze", nil)
	res := c.Analyze(context.Background(), "text")

	if !res.Degraded {
		t.Fatal("expected degraded result for unreachable analyzer")
	}
	if res.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", res.Confidence)
	}
	if res.NextQuestion != "" || len(res.Entities) != 0 {
		t.Errorf("degraded result should carry no data: %+v", res)
	}
}

func TestHTTPClientMalformedBodyIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	if res := c.Analyze(context.Background(), "text"); !res.Degraded {
		t.Fatal("expected degraded result for malformed body")
	}
}

func TestHTTPClientServerErrorIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	if res := c.Analyze(context.Background(), "text"); !res.Degraded {
		t.Fatal("expected degraded result for 500")
	}
}

func TestNormalizeDocumentCompletion(t *testing.T) {
	res := Normalize(map[string]any{
		"content":     "DRAFT COMPLAINT ...",
		"is_document": true,
	})

	if res.NextQuestion != "" {
		t.Errorf("document completion should clear next question, got %q", res.NextQuestion)
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", res.Confidence)
	}
}
