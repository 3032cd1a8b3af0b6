package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lexassist/lexassist/internal/doctemplates"
	"github.com/lexassist/lexassist/internal/models"
	pgrepo "github.com/lexassist/lexassist/internal/repositories/postgres"
	"github.com/lexassist/lexassist/internal/render"
	"github.com/lexassist/lexassist/internal/utils"
)

type GenerateDocumentInput struct {
	// SessionID, when set, pulls the session's facts into the document;
	// explicit Facts entries win on key collision.
	SessionID   string
	IssueType   string
	SubCategory string
	Language    string
	// Intent is free text used to classify a document type when no
	// stored template is wanted for the issue type.
	Intent string
	Facts  map[string]string
}

type GeneratedDocument struct {
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	ContentType  string `json:"content_type"`
	Content      []byte `json:"-"`
}

type DocumentVerification struct {
	Status        string   `json:"status"`
	MissingFields []string `json:"missing_fields"`
	Alert         *string  `json:"alert,omitempty"`
}

type DocumentService interface {
	Generate(ctx context.Context, userID string, in GenerateDocumentInput) (*GeneratedDocument, error)
	Verify(ctx context.Context, userID, sessionID string) (*DocumentVerification, error)
}

type documentService struct {
	sessions pgrepo.SessionRepository
	facts    pgrepo.FactRepository
	resolver *doctemplates.Resolver
	renderer render.Renderer
}

func NewDocumentService(sessions pgrepo.SessionRepository, facts pgrepo.FactRepository, resolver *doctemplates.Resolver, renderer render.Renderer) DocumentService {
	return &documentService{sessions: sessions, facts: facts, resolver: resolver, renderer: renderer}
}

func (s *documentService) Generate(ctx context.Context, userID string, in GenerateDocumentInput) (*GeneratedDocument, error) {
	const op = "DocumentService.Generate"

	if in.IssueType == "" && in.Intent == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "issue_type or intent is required", nil)
	}
	if in.Language == "" {
		in.Language = "en"
	}

	facts, err := s.collectFacts(ctx, op, userID, in)
	if err != nil {
		return nil, err
	}

	var (
		docType string
		body    string
		title   string
	)
	if in.IssueType != "" {
		tpl, err := s.resolver.Resolve(ctx, in.IssueType, in.SubCategory, in.Language)
		if err != nil {
			return nil, err
		}
		docType = doctemplates.DetermineDocumentType(in.IssueType)
		body = doctemplates.Fill(tpl.Body, facts)
		title = in.IssueType
	} else {
		docType = doctemplates.DetermineDocumentType(in.Intent)
		body = doctemplates.Fill(doctemplates.SelectLayout(docType).Render(facts), facts)
		title = titleForDocType(docType)
	}

	content, err := s.renderer.Render(title, body)
	if err != nil {
		return nil, err
	}

	return &GeneratedDocument{
		DocumentType: docType,
		Title:        title,
		ContentType:  "text/html; charset=utf-8",
		Content:      content,
	}, nil
}

// Verify reports whether a session's facts are fit for document
// generation without producing the document.
func (s *documentService) Verify(ctx context.Context, userID, sessionID string) (*DocumentVerification, error) {
	const op = "DocumentService.Verify"

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

	if session.Alert {
		alert := "HIGH_RISK_DETECTED"
		return &DocumentVerification{Status: models.ReadinessBlocked, MissingFields: []string{}, Alert: &alert}, nil
	}

	rows, err := s.facts.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load session facts", err)
	}
	present := make(map[string]bool, len(rows))
	for _, f := range rows {
		present[f.Key] = true
	}

	missing := []string{}
	for _, field := range []string{"name", "date", "location"} {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &DocumentVerification{Status: models.ReadinessIncomplete, MissingFields: missing}, nil
	}
	return &DocumentVerification{Status: models.ReadinessReady, MissingFields: missing}, nil
}

func (s *documentService) collectFacts(ctx context.Context, op, userID string, in GenerateDocumentInput) (map[string]string, error) {
	facts := make(map[string]string)
	if in.SessionID != "" {
		session, err := s.sessions.GetByIDAndUser(ctx, in.SessionID, userID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
		}
		rows, err := s.facts.ListBySession(ctx, session.ID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to load session facts", err)
		}
		for _, f := range rows {
			facts[f.Key] = f.Value
		}
	}
	for k, v := range in.Facts {
		facts[k] = v
	}
	return facts, nil
}

func titleForDocType(docType string) string {
	words := strings.Split(docType, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
