package repository

import (
	"context"
	"time"

	"stockpulse/internal/entity"

	"gorm.io/gorm"
)

// DigestRepository defines data operations on published digests.
type DigestRepository interface {
	Upsert(ctx context.Context, digest *entity.Digest) error
	FindLatest(ctx context.Context) (*entity.Digest, error)
	FindByDate(ctx context.Context, date string) (*entity.Digest, error)
}

// NewDigestRepository creates a new GORM-based digest repository.
func NewDigestRepository(db *gorm.DB) DigestRepository {
	return &digestRepository{db: db}
}

type digestRepository struct {
	db *gorm.DB
}

// Upsert stores the digest for its date, replacing the payload when a digest
// for the same date already exists.
func (r *digestRepository) Upsert(ctx context.Context, digest *entity.Digest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Digest
		err := tx.Where("date = ?", digest.Date).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(digest).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"data":         digest.Data,
			"generated_at": time.Now().UTC(),
		}).Error
	})
}

// FindLatest retrieves the most recent digest by date, or nil when none exist.
func (r *digestRepository) FindLatest(ctx context.Context) (*entity.Digest, error) {
	var digest entity.Digest
	err := r.db.WithContext(ctx).Order("date desc").First(&digest).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

// FindByDate retrieves the digest for one date, or nil when absent.
func (r *digestRepository) FindByDate(ctx context.Context, date string) (*entity.Digest, error) {
	var digest entity.Digest
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&digest).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &digest, nil
}
