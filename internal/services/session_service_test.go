package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/providers/analyzer"
	"github.com/lexassist/lexassist/internal/utils"
)

type memSessionRepo struct {
	rows map[string]*models.IntakeSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{rows: map[string]*models.IntakeSession{}}
}

func (r *memSessionRepo) Create(_ context.Context, s *models.IntakeSession) error {
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*models.IntakeSession, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memSessionRepo) GetByIDAndUser(_ context.Context, id, userID string) (*models.IntakeSession, error) {
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return nil, utils.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memSessionRepo) Save(_ context.Context, s *models.IntakeSession) error {
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.rows, id)
	return nil
}

type memTurnRepo struct {
	rows []models.SessionTurn
}

func (r *memTurnRepo) Append(_ context.Context, t *models.SessionTurn) error {
	r.rows = append(r.rows, *t)
	return nil
}

func (r *memTurnRepo) ListBySession(_ context.Context, sessionID string) ([]models.SessionTurn, error) {
	var out []models.SessionTurn
	for _, t := range r.rows {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTurnRepo) DeleteBySession(_ context.Context, sessionID string) error {
	kept := r.rows[:0]
	for _, t := range r.rows {
		if t.SessionID != sessionID {
			kept = append(kept, t)
		}
	}
	r.rows = kept
	return nil
}

type memFactRepo struct {
	rows map[string]map[string]*models.SessionFact
}

func newMemFactRepo() *memFactRepo {
	return &memFactRepo{rows: map[string]map[string]*models.SessionFact{}}
}

func (r *memFactRepo) Upsert(_ context.Context, sessionID, key, value, source string, confidence *float64) error {
	bucket := r.rows[sessionID]
	if bucket == nil {
		bucket = map[string]*models.SessionFact{}
		r.rows[sessionID] = bucket
	}
	if existing, ok := bucket[key]; ok {
		existing.Value = value
		existing.Source = source
		existing.Confidence = confidence
		return nil
	}
	bucket[key] = &models.SessionFact{SessionID: sessionID, Key: key, Value: value, Source: source, Confidence: confidence}
	return nil
}

func (r *memFactRepo) Confirm(_ context.Context, sessionID, key string) error {
	if f, ok := r.rows[sessionID][key]; ok {
		f.Confirmed = true
		return nil
	}
	return utils.ErrNotFound
}

func (r *memFactRepo) ListBySession(_ context.Context, sessionID string) ([]models.SessionFact, error) {
	var out []models.SessionFact
	for _, f := range r.rows[sessionID] {
		out = append(out, *f)
	}
	return out, nil
}

func (r *memFactRepo) DeleteBySession(_ context.Context, sessionID string) error {
	delete(r.rows, sessionID)
	return nil
}

// stubAnalyzer returns queued results in order, repeating the last one.
type stubAnalyzer struct {
	results []analyzer.Result
	calls   int
}

func (a *stubAnalyzer) Analyze(context.Context, string) analyzer.Result {
	i := a.calls
	if i >= len(a.results) {
		i = len(a.results) - 1
	}
	a.calls++
	return a.results[i]
}

type fixture struct {
	svc      SessionService
	sessions *memSessionRepo
	turns    *memTurnRepo
	facts    *memFactRepo
}

func newFixture(results ...analyzer.Result) *fixture {
	f := &fixture{
		sessions: newMemSessionRepo(),
		turns:    &memTurnRepo{},
		facts:    newMemFactRepo(),
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	f.svc = NewSessionService(SessionServiceDeps{
		Sessions: f.sessions,
		Turns:    f.turns,
		Facts:    f.facts,
		Analyzer: &stubAnalyzer{results: results},
		Logger:   log,
	})
	return f
}

func TestStartSessionExtractsFactsAndIntent(t *testing.T) {
	f := newFixture(analyzer.Result{
		Entities:     map[string]string{"issue_type": "theft", "date": "yesterday"},
		Confidence:   0.6,
		NextQuestion: "What is your name?",
	})

	view, err := f.svc.StartSession(context.Background(), "user-1", "My phone was stolen yesterday at the market", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if view.DetectedIntent == nil || *view.DetectedIntent != "theft" {
		t.Errorf("detected intent = %v, want theft", view.DetectedIntent)
	}
	if view.NextQuestion != "What is your name?" {
		t.Errorf("next question = %q", view.NextQuestion)
	}
	if view.IsComplete {
		t.Error("session should not be complete after one turn")
	}

	date, ok := view.ExtractedFacts["date"]
	if !ok {
		t.Fatal("date fact missing")
	}
	if date.Value != "yesterday" || date.Confirmed {
		t.Errorf("date fact = %+v, want unconfirmed yesterday", date)
	}
	if _, ok := view.ExtractedFacts["issue_type"]; ok {
		t.Error("issue_type must become the intent, not a stored fact")
	}
	if view.ReadinessStatus == nil || *view.ReadinessStatus != models.ReadinessIncomplete {
		t.Errorf("readiness status = %v, want INCOMPLETE", view.ReadinessStatus)
	}
}

func TestSubmitAnswerKeepsConfirmedFacts(t *testing.T) {
	f := newFixture(
		analyzer.Result{
			Entities:     map[string]string{"date": "yesterday"},
			Confidence:   0.5,
			NextQuestion: "Where did it happen?",
		},
		analyzer.Result{
			Entities:     map[string]string{"date": "2026-08-31"},
			Confidence:   0.5,
			NextQuestion: "What is your name?",
		},
	)

	view, err := f.svc.StartSession(context.Background(), "user-1", "It happened yesterday", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := f.facts.Confirm(context.Background(), view.SessionID, "date"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	view, err = f.svc.SubmitAnswer(context.Background(), "user-1", view.SessionID, "At the market", "en")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	date := view.ExtractedFacts["date"]
	if date.Value != "2026-08-31" {
		t.Errorf("date value = %q, want overwritten value", date.Value)
	}
	if !date.Confirmed {
		t.Error("re-extraction must not unconfirm a confirmed fact")
	}
}

func TestSubmitAnswerCarriesLanguage(t *testing.T) {
	f := newFixture(
		analyzer.Result{Confidence: 0.5, NextQuestion: "Where?"},
		analyzer.Result{Confidence: 0.5, NextQuestion: "When?"},
		analyzer.Result{Confidence: 0.5, NextQuestion: "Who?"},
	)

	ctx := context.Background()
	view, err := f.svc.StartSession(ctx, "user-1", "मेरा फोन चोरी हो गया", "hi")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, "user-1", view.SessionID, "बाज़ार में", "hi"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, "user-1", view.SessionID, "and nothing else", ""); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if len(f.turns.rows) != 3 {
		t.Fatalf("turn rows = %d, want 3", len(f.turns.rows))
	}
	for i, want := range []string{"hi", "hi", "en"} {
		if got := f.turns.rows[i].Language; got != want {
			t.Errorf("turn %d language = %q, want %q", i, got, want)
		}
	}
}

func TestHighRiskTextBlocksSession(t *testing.T) {
	f := newFixture(analyzer.Result{
		Entities:   map[string]string{"name": "A", "date": "B", "location": "C"},
		Confidence: 0.95,
	})

	view, err := f.svc.StartSession(context.Background(), "user-1", "I will KILL him", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if view.ReadinessStatus == nil || *view.ReadinessStatus != models.ReadinessBlocked {
		t.Errorf("readiness status = %v, want BLOCKED", view.ReadinessStatus)
	}
	if !view.Alert {
		t.Error("alert must be raised for high risk text")
	}
	if view.IsComplete {
		t.Error("high risk text must not complete the session")
	}
}

func TestAnalyzerCompletionClosesSession(t *testing.T) {
	f := newFixture(analyzer.Result{
		Entities:   map[string]string{"name": "Kumar", "date": "yesterday", "location": "market", "accused": "unknown"},
		Confidence: 0.9,
	})

	view, err := f.svc.StartSession(context.Background(), "user-1", "Full story", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !view.IsComplete {
		t.Fatal("session should complete when the analyzer has no open question")
	}

	_, err = f.svc.SubmitAnswer(context.Background(), "user-1", view.SessionID, "one more thing", "en")
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Code != utils.CodeConflict {
		t.Errorf("submitting to a completed session: got %v, want CONFLICT", err)
	}
}

func TestDegradedAnalyzerKeepsTurnAlive(t *testing.T) {
	f := newFixture(analyzer.DegradedResult())

	view, err := f.svc.StartSession(context.Background(), "user-1", "My landlord will not return my deposit", "en")
	if err != nil {
		t.Fatalf("a degraded analyzer result must not fail the turn: %v", err)
	}
	if view.ConfidenceScore != 0 {
		t.Errorf("confidence = %v, want 0 on degraded result", view.ConfidenceScore)
	}
	if view.IsComplete {
		t.Error("degraded result must not complete the session")
	}
}

func TestUploadEvidenceExcludedFromCompleteness(t *testing.T) {
	f := newFixture(analyzer.Result{
		Entities:     map[string]string{"date": "yesterday"},
		Confidence:   0.5,
		NextQuestion: "What is your name?",
	})

	view, err := f.svc.StartSession(context.Background(), "user-1", "My phone was stolen", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	before := view.Completeness

	view, err = f.svc.UploadEvidence(context.Background(), "user-1", view.SessionID, "receipt.jpg", "image/jpeg", 128, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("UploadEvidence: %v", err)
	}

	var evidence *FactView
	for key, fv := range view.ExtractedFacts {
		if strings.HasPrefix(key, "Evidence-") {
			cp := fv
			evidence = &cp
		}
	}
	if evidence == nil {
		t.Fatal("evidence pseudo-fact missing")
	}
	if evidence.Value != "File: receipt.jpg" {
		t.Errorf("evidence value = %q", evidence.Value)
	}
	if view.Completeness != before {
		t.Errorf("completeness %v changed to %v after evidence upload", before, view.Completeness)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	f := newFixture(analyzer.Result{
		Entities:     map[string]string{"date": "d", "name": "n", "location": "l"},
		Confidence:   0.5,
		NextQuestion: "Anything else?",
	})

	ctx := context.Background()
	view, err := f.svc.StartSession(ctx, "user-1", "first", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	for _, text := range []string{"second", "third", "fourth", "fifth"} {
		if _, err := f.svc.SubmitAnswer(ctx, "user-1", view.SessionID, text, "en"); err != nil {
			t.Fatalf("SubmitAnswer(%q): %v", text, err)
		}
	}
	if len(f.facts.rows[view.SessionID]) != 3 {
		t.Fatalf("fact rows = %d, want 3", len(f.facts.rows[view.SessionID]))
	}
	if len(f.turns.rows) != 5 {
		t.Fatalf("turn rows = %d, want 5", len(f.turns.rows))
	}

	if err := f.svc.DeleteSession(ctx, "user-1", view.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if len(f.facts.rows[view.SessionID]) != 0 || len(f.turns.rows) != 0 {
		t.Error("child rows must be removed with the session")
	}

	_, err = f.svc.GetSession(ctx, "user-1", view.SessionID)
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Code != utils.CodeNotFound {
		t.Errorf("GetSession after delete: got %v, want NOT_FOUND", err)
	}
}

func TestSessionOwnershipIsOpaque(t *testing.T) {
	f := newFixture(analyzer.Result{NextQuestion: "q"})

	view, err := f.svc.StartSession(context.Background(), "user-1", "hello", "en")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	_, err = f.svc.GetSession(context.Background(), "user-2", view.SessionID)
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Code != utils.CodeNotFound {
		t.Errorf("foreign session access: got %v, want NOT_FOUND", err)
	}
}
