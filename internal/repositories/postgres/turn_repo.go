package postgres

import (
	"context"

	"github.com/lexassist/lexassist/internal/models"
	"gorm.io/gorm"
)

type TurnRepository interface {
	Append(ctx context.Context, t *models.SessionTurn) error
	ListBySession(ctx context.Context, sessionID string) ([]models.SessionTurn, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type turnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepository {
	return &turnRepo{db: db}
}

func (r *turnRepo) Append(ctx context.Context, t *models.SessionTurn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ListBySession returns turns oldest first; creation order is
// conversational order.
func (r *turnRepo) ListBySession(ctx context.Context, sessionID string) ([]models.SessionTurn, error) {
	var rows []models.SessionTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *turnRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.SessionTurn{}).Error
}
