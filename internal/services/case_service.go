package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lexassist/lexassist/internal/models"
	pgrepo "github.com/lexassist/lexassist/internal/repositories/postgres"
	"github.com/lexassist/lexassist/internal/utils"
)

type CaseView struct {
	CaseID             string              `json:"case_id"`
	ReferenceNumber    string              `json:"reference_number"`
	IssueType          string              `json:"issue_type"`
	SubCategory        *string             `json:"sub_category,omitempty"`
	Status             string              `json:"status"`
	SuggestedAuthority *string             `json:"suggested_authority,omitempty"`
	Entities           map[string]FactView `json:"entities"`
	Completeness       float64             `json:"completeness"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type CreateCaseInput struct {
	IssueType          string
	SubCategory        *string
	SuggestedAuthority *string
	Entities           map[string]string
}

type CaseService interface {
	CreateCase(ctx context.Context, userID string, in CreateCaseInput) (*CaseView, error)
	GetCase(ctx context.Context, userID, caseID string) (*CaseView, error)
	ListCases(ctx context.Context, userID string) ([]CaseView, error)
	ConfirmEntity(ctx context.Context, userID, caseID, fieldName string) error
	DeleteCase(ctx context.Context, userID, caseID string) error
}

type caseService struct {
	cases     pgrepo.CaseRepository
	caseFacts pgrepo.CaseFactRepository
	refs      *utils.ReferenceNumberGenerator
}

func NewCaseService(cases pgrepo.CaseRepository, caseFacts pgrepo.CaseFactRepository, refs *utils.ReferenceNumberGenerator) CaseService {
	return &caseService{cases: cases, caseFacts: caseFacts, refs: refs}
}

func (s *caseService) CreateCase(ctx context.Context, userID string, in CreateCaseInput) (*CaseView, error) {
	const op = "CaseService.CreateCase"

	if userID == "" || in.IssueType == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and issue_type are required", nil)
	}

	ref, err := s.refs.Generate(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to generate reference number", err)
	}

	now := time.Now().UTC()
	row := &models.LegalCase{
		ID:                 uuid.NewString(),
		UserID:             userID,
		ReferenceNumber:    ref,
		IssueType:          in.IssueType,
		SubCategory:        in.SubCategory,
		Status:             models.CaseStatusDraft,
		SuggestedAuthority: in.SuggestedAuthority,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.cases.Create(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create case", err)
	}

	for field, value := range in.Entities {
		if value == "" {
			continue
		}
		if err := s.caseFacts.Upsert(ctx, row.ID, field, value, models.FactSourceAnalyzer, nil); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store case entity", err)
		}
	}

	return s.buildView(ctx, op, row)
}

func (s *caseService) GetCase(ctx context.Context, userID, caseID string) (*CaseView, error) {
	const op = "CaseService.GetCase"

	row, err := s.ownedCase(ctx, op, userID, caseID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, op, row)
}

func (s *caseService) ListCases(ctx context.Context, userID string) ([]CaseView, error) {
	const op = "CaseService.ListCases"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	rows, err := s.cases.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cases", err)
	}

	views := make([]CaseView, 0, len(rows))
	for i := range rows {
		v, err := s.buildView(ctx, op, &rows[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *caseService) ConfirmEntity(ctx context.Context, userID, caseID, fieldName string) error {
	const op = "CaseService.ConfirmEntity"

	if fieldName == "" {
		return utils.E(utils.CodeInvalidArgument, op, "field_name is required", nil)
	}

	row, err := s.ownedCase(ctx, op, userID, caseID)
	if err != nil {
		return err
	}

	if err := s.caseFacts.Confirm(ctx, row.ID, fieldName); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "entity not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to confirm entity", err)
	}
	return nil
}

// DeleteCase removes case facts before the case row.
func (s *caseService) DeleteCase(ctx context.Context, userID, caseID string) error {
	const op = "CaseService.DeleteCase"

	row, err := s.ownedCase(ctx, op, userID, caseID)
	if err != nil {
		return err
	}

	if err := s.caseFacts.DeleteByCase(ctx, row.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete case entities", err)
	}
	if err := s.cases.Delete(ctx, row.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete case", err)
	}
	return nil
}

// ownedCase never reveals whether someone else's case exists; any
// mismatch reads as not found.
func (s *caseService) ownedCase(ctx context.Context, op, userID, caseID string) (*models.LegalCase, error) {
	if userID == "" || caseID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and case_id are required", nil)
	}

	row, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "case not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load case", err)
	}
	if row.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "case not found", nil)
	}
	return row, nil
}

func (s *caseService) buildView(ctx context.Context, op string, row *models.LegalCase) (*CaseView, error) {
	entities, err := s.caseFacts.ListByCase(ctx, row.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load case entities", err)
	}

	entityMap := make(map[string]FactView, len(entities))
	for _, e := range entities {
		entityMap[e.FieldName] = FactView{
			Value:      e.FieldValue,
			Confirmed:  e.Confirmed,
			Source:     e.Source,
			Confidence: e.Confidence,
		}
	}

	completeness := 0.0
	if len(entities) > 0 {
		confirmed, err := s.caseFacts.CountConfirmed(ctx, row.ID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to count confirmed entities", err)
		}
		completeness = float64(confirmed) / float64(len(entities))
	}

	return &CaseView{
		CaseID:             row.ID,
		ReferenceNumber:    row.ReferenceNumber,
		IssueType:          row.IssueType,
		SubCategory:        row.SubCategory,
		Status:             row.Status,
		SuggestedAuthority: row.SuggestedAuthority,
		Entities:           entityMap,
		Completeness:       completeness,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}
