package postgres

import (
	"context"
	"errors"

	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/utils"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.IntakeSession) error
	GetByID(ctx context.Context, id string) (*models.IntakeSession, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.IntakeSession, error)
	Save(ctx context.Context, s *models.IntakeSession) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.IntakeSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*models.IntakeSession, error) {
	var row models.IntakeSession
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *sessionRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.IntakeSession, error) {
	var row models.IntakeSession
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *sessionRepo) Save(ctx context.Context, s *models.IntakeSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.IntakeSession{}).Error
}
