package postgres

import (
	"context"

	"github.com/lexassist/lexassist/internal/models"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, f *models.StoredFile) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

type fileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *models.StoredFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.StoredFile{}).Error
}
