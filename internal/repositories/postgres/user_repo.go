package postgres

import (
	"context"
	"time"

	"github.com/lexassist/lexassist/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// EnsureExists creates the row on first sight of a subject id and
	// bumps last_seen otherwise.
	EnsureExists(ctx context.Context, id string, role models.UserRole) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) EnsureExists(ctx context.Context, id string, role models.UserRole) error {
	now := time.Now().UTC()
	row := models.User{ID: id, Role: role, CreatedAt: now, LastSeen: now}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{"last_seen": now}),
		}).
		Create(&row).Error
}
