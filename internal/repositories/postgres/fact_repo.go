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

type FactRepository interface {
	// Upsert overwrites value/source/confidence for (sessionID, key);
	// the confirmed flag is left untouched on update and starts false
	// on insert.
	Upsert(ctx context.Context, sessionID, key, value, source string, confidence *float64) error
	Confirm(ctx context.Context, sessionID, key string) error
	ListBySession(ctx context.Context, sessionID string) ([]models.SessionFact, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type factRepo struct {
	db *gorm.DB
}

func NewFactRepo(db *gorm.DB) FactRepository {
	return &factRepo{db: db}
}

func (r *factRepo) Upsert(ctx context.Context, sessionID, key, value, source string, confidence *float64) error {
	var row models.SessionFact
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND fact_key = ?", sessionID, key).
		Take(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.SessionFact{
			ID:         uuid.NewString(),
			SessionID:  sessionID,
			Key:        key,
			Value:      value,
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
		Model(&models.SessionFact{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"fact_value": value,
			"source":     source,
			"confidence": confidence,
		}).Error
}

func (r *factRepo) Confirm(ctx context.Context, sessionID, key string) error {
	res := r.db.WithContext(ctx).
		Model(&models.SessionFact{}).
		Where("session_id = ? AND fact_key = ?", sessionID, key).
		Update("confirmed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *factRepo) ListBySession(ctx context.Context, sessionID string) ([]models.SessionFact, error) {
	var rows []models.SessionFact
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *factRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.SessionFact{}).Error
}
