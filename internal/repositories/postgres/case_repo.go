package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/utils"
	"gorm.io/gorm"
)

type CaseRepository interface {
	Create(ctx context.Context, c *models.LegalCase) error
	GetByID(ctx context.Context, id string) (*models.LegalCase, error)
	ListByUser(ctx context.Context, userID string) ([]models.LegalCase, error)
	Delete(ctx context.Context, id string) error
}

type caseRepo struct {
	db *gorm.DB
}

func NewCaseRepo(db *gorm.DB) CaseRepository {
	return &caseRepo{db: db}
}

func (r *caseRepo) Create(ctx context.Context, c *models.LegalCase) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepo) GetByID(ctx context.Context, id string) (*models.LegalCase, error) {
	var row models.LegalCase
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *caseRepo) ListByUser(ctx context.Context, userID string) ([]models.LegalCase, error) {
	var rows []models.LegalCase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *caseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LegalCase{}).Error
}

type CaseFactRepository interface {
	Upsert(ctx context.Context, caseID, field, value, source string, confidence *float64) error
	Confirm(ctx context.Context, caseID, field string) error
	ListByCase(ctx context.Context, caseID string) ([]models.CaseFact, error)
	CountConfirmed(ctx context.Context, caseID string) (int64, error)
	DeleteByCase(ctx context.Context, caseID string) error
}

type caseFactRepo struct {
	db *gorm.DB
}

func NewCaseFactRepo(db *gorm.DB) CaseFactRepository {
	return &caseFactRepo{db: db}
}

// Same merge semantics as session facts: sticky confirm, value overwrite.
func (r *caseFactRepo) Upsert(ctx context.Context, caseID, field, value, source string, confidence *float64) error {
	var row models.CaseFact
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND field_name = ?", caseID, field).
		Take(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.CaseFact{
			ID:         uuid.NewString(),
			CaseID:     caseID,
			FieldName:  field,
			FieldValue: value,
			Source:     source,
			Confidence: confidence,
			CreatedAt:  time.Now().UTC(),
		}
		return r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.CaseFact{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"field_value": value,
			"source":      source,
			"confidence":  confidence,
		}).Error
}

func (r *caseFactRepo) Confirm(ctx context.Context, caseID, field string) error {
	res := r.db.WithContext(ctx).
		Model(&models.CaseFact{}).
		Where("case_id = ? AND field_name = ?", caseID, field).
		Update("confirmed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *caseFactRepo) ListByCase(ctx context.Context, caseID string) ([]models.CaseFact, error) {
	var rows []models.CaseFact
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *caseFactRepo) CountConfirmed(ctx context.Context, caseID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.CaseFact{}).
		Where("case_id = ? AND confirmed = ?", caseID, true).
		Count(&n).Error
	return n, err
}

func (r *caseFactRepo) DeleteByCase(ctx context.Context, caseID string) error {
	return r.db.WithContext(ctx).Where("case_id = ?", caseID).Delete(&models.CaseFact{}).Error
}
