package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/lexassist/lexassist/internal/cache"
	"github.com/lexassist/lexassist/internal/facts"
	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/providers/analyzer"
	"github.com/lexassist/lexassist/internal/providers/stt"
	"github.com/lexassist/lexassist/internal/readiness"
	"github.com/lexassist/lexassist/internal/reconcile"
	mongorepo "github.com/lexassist/lexassist/internal/repositories/mongo"
	pgrepo "github.com/lexassist/lexassist/internal/repositories/postgres"
	"github.com/lexassist/lexassist/internal/storage"
	"github.com/lexassist/lexassist/internal/utils"
)

const firstQuestion = "What is your issue?"

// Answers are concatenated in turn order with this delimiter to form the
// cumulative analyzer input.
const answerDelimiter = ". "

type FactView struct {
	Value      string   `json:"value"`
	Confirmed  bool     `json:"confirmed"`
	Source     string   `json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type SessionView struct {
	SessionID       string  `json:"session_id"`
	Status          string  `json:"status"`
	DetectedIntent  *string `json:"detected_intent,omitempty"`
	ConfidenceScore float64 `json:"confidence_score"`

	ReadinessScore  *int    `json:"readiness_score,omitempty"`
	ReadinessStatus *string `json:"readiness_status,omitempty"`
	Alert           bool    `json:"alert"`

	NextQuestion      string         `json:"next_question,omitempty"`
	SuggestedSections *string        `json:"suggested_sections,omitempty"`
	FilingGuidance    map[string]any `json:"filing_guidance,omitempty"`

	ExtractedFacts map[string]FactView `json:"extracted_facts"`
	Completeness   float64             `json:"completeness"`
	IsComplete     bool                `json:"is_complete"`
	Warnings       []string            `json:"warnings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionService interface {
	StartSession(ctx context.Context, userID, initialText, language string) (*SessionView, error)
	SubmitAnswer(ctx context.Context, userID, sessionID, text, language string) (*SessionView, error)
	SubmitVoiceAnswer(ctx context.Context, userID, sessionID string, audio []byte, audioName, transcript, language string) (*SessionView, error)
	UploadEvidence(ctx context.Context, userID, sessionID, fileName, contentType string, size int64, r io.Reader) (*SessionView, error)
	GetSession(ctx context.Context, userID, sessionID string) (*SessionView, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type sessionService struct {
	sessions  pgrepo.SessionRepository
	turns     pgrepo.TurnRepository
	facts     pgrepo.FactRepository
	files     pgrepo.FileRepository
	users     pgrepo.UserRepository
	exchanges mongorepo.ExchangeRepository

	analyzer analyzer.Provider
	stt      stt.Provider
	uploader storage.Uploader
	cache    cache.Cache
	rdb      *redis.Client
	log      *logrus.Logger
}

type SessionServiceDeps struct {
	Sessions  pgrepo.SessionRepository
	Turns     pgrepo.TurnRepository
	Facts     pgrepo.FactRepository
	Files     pgrepo.FileRepository
	Users     pgrepo.UserRepository
	Exchanges mongorepo.ExchangeRepository

	Analyzer analyzer.Provider
	STT      stt.Provider
	Uploader storage.Uploader
	Cache    cache.Cache
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewSessionService(d SessionServiceDeps) SessionService {
	return &sessionService{
		sessions:  d.Sessions,
		turns:     d.Turns,
		facts:     d.Facts,
		files:     d.Files,
		users:     d.Users,
		exchanges: d.Exchanges,
		analyzer:  d.Analyzer,
		stt:       d.STT,
		uploader:  d.Uploader,
		cache:     d.Cache,
		rdb:       d.Redis,
		log:       d.Logger,
	}
}

func (s *sessionService) StartSession(ctx context.Context, userID, initialText, language string) (*SessionView, error) {
	const op = "SessionService.StartSession"

	if userID == "" || strings.TrimSpace(initialText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and initial_text are required", nil)
	}
	if language == "" {
		language = "en"
	}

	if s.users != nil {
		if err := s.users.EnsureExists(ctx, userID, models.RoleUser); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to record user", err)
		}
	}

	now := time.Now().UTC()
	session := &models.IntakeSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    models.SessionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	// The initial text answers the implicit opening question.
	return s.processTurn(ctx, op, session, firstQuestion, initialText, nil, language)
}

func (s *sessionService) SubmitAnswer(ctx context.Context, userID, sessionID, text, language string) (*SessionView, error) {
	const op = "SessionService.SubmitAnswer"

	if strings.TrimSpace(text) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "answer text is required", nil)
	}
	if language == "" {
		language = "en"
	}

	session, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}

	return s.processTurn(ctx, op, session, s.pendingQuestion(session), text, nil, language)
}

func (s *sessionService) SubmitVoiceAnswer(ctx context.Context, userID, sessionID string, audio []byte, audioName, transcript, language string) (*SessionView, error) {
	const op = "SessionService.SubmitVoiceAnswer"

	session, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// A voice turn without a transcript falls back to server-side
	// transcription when a provider is wired.
	if strings.TrimSpace(transcript) == "" {
		if s.stt == nil || len(audio) == 0 {
			return nil, utils.E(utils.CodeInvalidArgument, op, "transcript is required", nil)
		}
		text, _, err := s.stt.Transcribe(ctx, audio, language)
		if err != nil || strings.TrimSpace(text) == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "could not transcribe audio", err)
		}
		transcript = text
	}

	var audioRef *string
	if len(audio) > 0 {
		ref, err := s.storeFile(ctx, session.ID, models.FileKindAudio, audioName, "audio/wav", int64(len(audio)), strings.NewReader(string(audio)))
		if err != nil {
			s.log.WithError(err).WithField("session_id", session.ID).Warn("audio store failed")
		} else {
			audioRef = &ref
		}
	}

	// Beyond the attached audio reference, a transcribed voice turn is
	// an ordinary turn.
	return s.processTurn(ctx, op, session, s.pendingQuestion(session), transcript, audioRef, language)
}

func (s *sessionService) UploadEvidence(ctx context.Context, userID, sessionID, fileName, contentType string, size int64, r io.Reader) (*SessionView, error) {
	const op = "SessionService.UploadEvidence"

	session, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return nil, utils.E(utils.CodeConflict, op, "session is closed", nil)
	}

	if _, err := s.storeFile(ctx, session.ID, models.FileKindEvidence, fileName, contentType, size, r); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store evidence", err)
	}

	// Evidence is recorded as a pseudo-fact; it never counts toward
	// completeness.
	key := fmt.Sprintf("Evidence-%d", time.Now().UnixMilli())
	if err := s.facts.Upsert(ctx, session.ID, key, "File: "+fileName, models.FactSourceUser, nil); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record evidence fact", err)
	}

	s.invalidateView(ctx, session.ID)
	return s.buildView(ctx, op, session, s.pendingQuestion(session), nil)
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID string) (*SessionView, error) {
	const op = "SessionService.GetSession"

	session, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached SessionView
		if hit, err := s.cache.GetJSON(ctx, viewCacheKey(session.ID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	view, err := s.buildView(ctx, op, session, s.pendingQuestion(session), nil)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, viewCacheKey(session.ID), view, time.Minute)
	}
	return view, nil
}

// DeleteSession abandons the conversation. Child rows go first so the
// store never sees a session with dangling facts or turns.
func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	const op = "SessionService.DeleteSession"

	session, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return err
	}

	if err := s.facts.DeleteBySession(ctx, session.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete facts", err)
	}
	if err := s.turns.DeleteBySession(ctx, session.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete turns", err)
	}
	if s.files != nil {
		if err := s.files.DeleteBySession(ctx, session.ID); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to delete files", err)
		}
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete session", err)
	}

	s.invalidateView(ctx, session.ID)
	return nil
}

// ownedSession resolves a session for its owner; anyone else gets the
// same not-found as a missing record.
func (s *sessionService) ownedSession(ctx context.Context, op, userID, sessionID string) (*models.IntakeSession, error) {
	if userID == "" || sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}
	session, err := s.sessions.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return session, nil
}

func (s *sessionService) pendingQuestion(session *models.IntakeSession) string {
	if session.PendingQuestion != nil {
		return *session.PendingQuestion
	}
	return firstQuestion
}

// processTurn is one step of the intake state machine: append the turn,
// analyze the cumulative text, reconcile facts, evaluate readiness,
// persist, respond.
func (s *sessionService) processTurn(ctx context.Context, op string, session *models.IntakeSession, question, response string, audioRef *string, language string) (*SessionView, error) {
	if session.Terminal() {
		return nil, utils.E(utils.CodeConflict, op, "session is "+strings.ToLower(session.Status), nil)
	}

	turn := &models.SessionTurn{
		ID:           uuid.NewString(),
		SessionID:    session.ID,
		QuestionText: question,
		UserResponse: response,
		AudioFileRef: audioRef,
		Language:     language,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.turns.Append(ctx, turn); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to append turn", err)
	}
	session.TurnCount++

	combined, err := s.combinedHistory(ctx, session.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}

	started := time.Now()
	res := s.analyzer.Analyze(ctx, combined)
	s.archiveExchange(ctx, session, combined, res, time.Since(started))

	set, err := s.loadFactSet(ctx, session.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load facts", err)
	}

	sink := &repoSink{ctx: ctx, repo: s.facts, sessionID: session.ID, set: set}
	outcome := reconcile.Apply(sink, res)
	if sink.err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store facts", sink.err)
	}

	verdict := readiness.Evaluate(res, set, combined)
	s.applyResult(session, res, outcome, verdict)

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}
	s.invalidateView(ctx, session.ID)
	s.publishEvent(ctx, session.ID, map[string]any{
		"type":             "turn_processed",
		"turn_count":       session.TurnCount,
		"status":           session.Status,
		"readiness_status": session.ReadinessStatus,
		"degraded":         res.Degraded,
	})

	return s.viewFromSet(session, set, res.NextQuestion, verdict.Warnings), nil
}

func (s *sessionService) applyResult(session *models.IntakeSession, res analyzer.Result, outcome reconcile.Outcome, verdict readiness.Verdict) {
	intent := outcome.Intent
	if intent == "" {
		intent = res.Intent
	}
	if intent != "" {
		session.DetectedIntent = &intent
	}

	// Confidence and readiness only move through here, never via a
	// caller-supplied field. A degraded result reads as zero confidence.
	session.ConfidenceScore = res.Confidence
	session.ReadinessScore = verdict.Score
	if verdict.Status != "" {
		status := verdict.Status
		session.ReadinessStatus = &status
	}
	session.Alert = verdict.Alert

	if res.LegalSections != "" {
		sections := res.LegalSections
		session.SuggestedSections = &sections
	}
	if res.FilingGuidance != nil {
		if b, err := json.Marshal(res.FilingGuidance); err == nil {
			session.FilingGuidance = datatypes.JSON(b)
		}
	}
	if len(res.RequiredFields) > 0 {
		session.RequiredFields = res.RequiredFields
	}

	if res.NextQuestion != "" {
		q := res.NextQuestion
		session.PendingQuestion = &q
	} else {
		session.PendingQuestion = nil
	}

	if verdict.Done {
		session.Status = models.SessionCompleted
	}
	session.UpdatedAt = time.Now().UTC()
}

func (s *sessionService) combinedHistory(ctx context.Context, sessionID string) (string, error) {
	turns, err := s.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, t.UserResponse)
	}
	return strings.Join(parts, answerDelimiter), nil
}

func (s *sessionService) loadFactSet(ctx context.Context, sessionID string) (*facts.Set, error) {
	rows, err := s.facts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	set := facts.NewSet()
	for _, f := range rows {
		set.Upsert(f.Key, f.Value, f.Source, f.Confidence)
		if f.Confirmed {
			_ = set.Confirm(f.Key)
		}
	}
	return set, nil
}

// repoSink writes reconciled facts through to the store and mirrors them
// into the in-memory set used for readiness and the response view.
type repoSink struct {
	ctx       context.Context
	repo      pgrepo.FactRepository
	sessionID string
	set       *facts.Set
	err       error
}

func (r *repoSink) Upsert(key, value, source string, confidence *float64) {
	if r.err != nil {
		return
	}
	if err := r.repo.Upsert(r.ctx, r.sessionID, key, value, source, confidence); err != nil {
		r.err = err
		return
	}
	r.set.Upsert(key, value, source, confidence)
}

func (s *sessionService) buildView(ctx context.Context, op string, session *models.IntakeSession, nextQuestion string, warnings []string) (*SessionView, error) {
	set, err := s.loadFactSet(ctx, session.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load facts", err)
	}
	return s.viewFromSet(session, set, nextQuestion, warnings), nil
}

func (s *sessionService) viewFromSet(session *models.IntakeSession, set *facts.Set, nextQuestion string, warnings []string) *SessionView {
	factViews := make(map[string]FactView, set.Len())
	confirmed, total := 0, 0
	for key, f := range set.Snapshot() {
		factViews[key] = FactView{
			Value:      f.Value,
			Confirmed:  f.Confirmed,
			Source:     f.Source,
			Confidence: f.Confidence,
		}
		if isEvidenceKey(key) {
			continue
		}
		total++
		if f.Confirmed {
			confirmed++
		}
	}

	completeness := 0.0
	if total > 0 {
		completeness = float64(confirmed) / float64(total)
	}

	view := &SessionView{
		SessionID:         session.ID,
		Status:            session.Status,
		DetectedIntent:    session.DetectedIntent,
		ConfidenceScore:   session.ConfidenceScore,
		ReadinessScore:    session.ReadinessScore,
		ReadinessStatus:   session.ReadinessStatus,
		Alert:             session.Alert,
		NextQuestion:      nextQuestion,
		SuggestedSections: session.SuggestedSections,
		ExtractedFacts:    factViews,
		Completeness:      completeness,
		IsComplete:        session.Status == models.SessionCompleted,
		Warnings:          warnings,
		CreatedAt:         session.CreatedAt,
		UpdatedAt:         session.UpdatedAt,
	}
	if len(session.FilingGuidance) > 0 {
		guidance := map[string]any{}
		if err := json.Unmarshal(session.FilingGuidance, &guidance); err == nil {
			view.FilingGuidance = guidance
		}
	}
	return view
}

func isEvidenceKey(key string) bool {
	return strings.HasPrefix(key, "Evidence-")
}

func (s *sessionService) storeFile(ctx context.Context, sessionID, kind, fileName, contentType string, size int64, r io.Reader) (string, error) {
	id := uuid.NewString()
	objectURL := ""
	if s.uploader != nil {
		object := kind + "/" + sessionID + "/" + id + "-" + fileName
		url, err := s.uploader.Upload(ctx, object, contentType, r)
		if err != nil {
			return "", err
		}
		objectURL = url
	}

	if s.files != nil {
		row := &models.StoredFile{
			ID:          id,
			SessionID:   sessionID,
			Kind:        kind,
			FileName:    fileName,
			ContentType: contentType,
			SizeBytes:   size,
			ObjectURL:   objectURL,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.files.Create(ctx, row); err != nil {
			return "", err
		}
	}
	return "file:" + id, nil
}

// archiveExchange is best effort; a dead archive never fails a turn.
func (s *sessionService) archiveExchange(ctx context.Context, session *models.IntakeSession, text string, res analyzer.Result, latency time.Duration) {
	if s.exchanges == nil {
		return
	}
	err := s.exchanges.Record(ctx, &models.AnalyzerExchange{
		SessionID:   session.ID,
		TurnNo:      session.TurnCount,
		RequestText: text,
		Response:    res.Raw,
		Degraded:    res.Degraded,
		LatencyMS:   latency.Milliseconds(),
	})
	if err != nil && s.log != nil {
		s.log.WithError(err).WithField("session_id", session.ID).Warn("exchange archive failed")
	}
}

func (s *sessionService) publishEvent(ctx context.Context, sessionID string, event map[string]any) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.rdb.Publish(ctx, "session:"+sessionID+":events", payload).Err()
}

func (s *sessionService) invalidateView(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, viewCacheKey(sessionID))
}

func viewCacheKey(sessionID string) string {
	return "session:view:" + sessionID
}
