package postgres

import (
	"context"
	"errors"

	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/utils"
	"gorm.io/gorm"
)

// TemplateRepository satisfies doctemplates.Store plus admin CRUD.
type TemplateRepository interface {
	FindExact(ctx context.Context, issueType, subCategory, language string) (*models.DocumentTemplate, error)
	FindByIssueType(ctx context.Context, issueType, language string) (*models.DocumentTemplate, error)
	Create(ctx context.Context, t *models.DocumentTemplate) error
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) FindExact(ctx context.Context, issueType, subCategory, language string) (*models.DocumentTemplate, error) {
	var row models.DocumentTemplate
	err := r.db.WithContext(ctx).
		Where("issue_type = ? AND sub_category = ? AND language = ? AND active = ?",
			issueType, subCategory, language, true).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *templateRepo) FindByIssueType(ctx context.Context, issueType, language string) (*models.DocumentTemplate, error) {
	// Generic rows (no sub_category) win over sub-category-specific ones,
	// so a mismatched sub-category never leaks another sub-category's body.
	var row models.DocumentTemplate
	err := r.db.WithContext(ctx).
		Where("issue_type = ? AND language = ? AND active = ?", issueType, language, true).
		Order("sub_category IS NULL DESC, created_at ASC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *templateRepo) Create(ctx context.Context, t *models.DocumentTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}
