package postgres

import (
	"context"

	"gorm.io/gorm"
)

// CounterRepo implements utils.CounterSource on a dedicated counter row,
// so concurrent processes cannot issue duplicate reference numbers.
type CounterRepo struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) *CounterRepo {
	return &CounterRepo{db: db}
}

func (r *CounterRepo) Next(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(`
			INSERT INTO ref_counters (year, seq) VALUES (?, 1)
			ON CONFLICT (year) DO UPDATE SET seq = ref_counters.seq + 1
			RETURNING seq`, year).Scan(&seq).Error
	})
	return seq, err
}
