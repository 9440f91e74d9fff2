package repository

import (
	"context"

	"stockpulse/internal/entity"

	"gorm.io/gorm"
)

// VerificationStatsRepository defines operations on the append-only stats
// snapshot sequence.
type VerificationStatsRepository interface {
	Append(ctx context.Context, stats *entity.VerificationStats) error
	Latest(ctx context.Context) (*entity.VerificationStats, error)
}

// NewVerificationStatsRepository creates a new GORM-based stats repository.
func NewVerificationStatsRepository(db *gorm.DB) VerificationStatsRepository {
	return &verificationStatsRepository{db: db}
}

type verificationStatsRepository struct {
	db *gorm.DB
}

// Append stores a new immutable snapshot.
func (r *verificationStatsRepository) Append(ctx context.Context, stats *entity.VerificationStats) error {
	return r.db.WithContext(ctx).Create(stats).Error
}

// Latest retrieves the most recently appended snapshot, or nil when the
// sequence is still empty.
func (r *verificationStatsRepository) Latest(ctx context.Context) (*entity.VerificationStats, error) {
	var stats entity.VerificationStats
	err := r.db.WithContext(ctx).Order("calculated_at desc").First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
