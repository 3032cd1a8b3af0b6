package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexassist/lexassist/internal/models"
	pgrepo "github.com/lexassist/lexassist/internal/repositories/postgres"
	"github.com/lexassist/lexassist/internal/utils"
)

type CreateTemplateInput struct {
	IssueType   string  `json:"issue_type"`
	SubCategory *string `json:"sub_category,omitempty"`
	Language    string  `json:"language"`
	Body        string  `json:"body"`
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, in CreateTemplateInput) (*models.DocumentTemplate, error)
}

type templateService struct {
	templates pgrepo.TemplateRepository
}

func NewTemplateService(templates pgrepo.TemplateRepository) TemplateService {
	return &templateService{templates: templates}
}

func (s *templateService) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*models.DocumentTemplate, error) {
	const op = "TemplateService.CreateTemplate"

	if in.IssueType == "" || in.Body == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "issue_type and body are required", nil)
	}
	if in.Language == "" {
		in.Language = "en"
	}

	now := time.Now().UTC()
	row := &models.DocumentTemplate{
		ID:          uuid.NewString(),
		IssueType:   in.IssueType,
		SubCategory: in.SubCategory,
		Language:    in.Language,
		Active:      true,
		Body:        in.Body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.templates.Create(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create template", err)
	}
	return row, nil
}
