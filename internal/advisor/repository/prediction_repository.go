package repository

import (
	"context"
	"fmt"
	"time"

	"stockpulse/internal/entity"

	"gorm.io/gorm"
)

// PredictionRepository defines data operations on the prediction ledger.
// The ledger is append-only: entries are created once and mutated only by
// per-horizon verification updates.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *entity.Prediction) error
	Count(ctx context.Context) (int64, error)
	FindPending(ctx context.Context, horizon entity.Horizon, maturedBefore time.Time) ([]entity.Prediction, error)
	FindVerified(ctx context.Context, horizon entity.Horizon) ([]entity.Prediction, error)
	MarkVerified(ctx context.Context, prediction *entity.Prediction, horizon entity.Horizon) error
	FindRecent(ctx context.Context, limit int) ([]entity.Prediction, error)
}

// NewPredictionRepository creates a new GORM-based prediction repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

type predictionRepository struct {
	db *gorm.DB
}

// Create appends a new ledger entry.
func (r *predictionRepository) Create(ctx context.Context, prediction *entity.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

// Count returns the total number of ledger entries.
func (r *predictionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Prediction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPending retrieves entries not yet verified for the horizon whose
// emission timestamp is old enough for the horizon to have elapsed.
func (r *predictionRepository) FindPending(ctx context.Context, horizon entity.Horizon, maturedBefore time.Time) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	verifiedCol := fmt.Sprintf("%sverified", horizon.ColumnPrefix())
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", verifiedCol), false).
		Where("predicted_at <= ?", maturedBefore).
		Order("predicted_at asc").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// FindVerified retrieves all entries already verified for the horizon.
func (r *predictionRepository) FindVerified(ctx context.Context, horizon entity.Horizon) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	verifiedCol := fmt.Sprintf("%sverified", horizon.ColumnPrefix())
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", verifiedCol), true).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// MarkVerified persists the outcome fields of one horizon only, leaving the
// other horizons and the emission-time fields untouched.
func (r *predictionRepository) MarkVerified(ctx context.Context, prediction *entity.Prediction, horizon entity.Horizon) error {
	outcome := prediction.Outcome(horizon)
	if outcome == nil {
		return fmt.Errorf("unknown horizon %q", horizon)
	}
	prefix := horizon.ColumnPrefix()
	updates := map[string]interface{}{
		prefix + "verified":    outcome.Verified,
		prefix + "price_after": outcome.PriceAfter,
		prefix + "correct":     outcome.Correct,
		prefix + "return_pct":  outcome.ReturnPct,
	}
	return r.db.WithContext(ctx).Model(&entity.Prediction{}).
		Where("id = ?", prediction.ID).
		Updates(updates).Error
}

// FindRecent retrieves the most recently emitted entries.
func (r *predictionRepository) FindRecent(ctx context.Context, limit int) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	err := r.db.WithContext(ctx).
		Order("predicted_at desc").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
