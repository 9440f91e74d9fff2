package repository

import (
	"context"

	"stockpulse/internal/entity"

	"gorm.io/gorm"
)

// StockNewsRepository defines data operations on stored news headlines.
type StockNewsRepository interface {
	Upsert(ctx context.Context, news *entity.StockNews) error
	FindForTicker(ctx context.Context, ticker string, limit int) ([]entity.StockNews, error)
}

// NewStockNewsRepository creates a new GORM-based stock news repository.
func NewStockNewsRepository(db *gorm.DB) StockNewsRepository {
	return &stockNewsRepository{db: db}
}

type stockNewsRepository struct {
	db *gorm.DB
}

// Upsert stores a headline, ignoring duplicates by hash identifier.
func (r *stockNewsRepository) Upsert(ctx context.Context, news *entity.StockNews) error {
	var existing entity.StockNews
	err := r.db.WithContext(ctx).Where("hash_identifier = ?", news.HashIdentifier).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(news).Error
}

// FindForTicker retrieves the most recent headlines mentioning a ticker.
func (r *stockNewsRepository) FindForTicker(ctx context.Context, ticker string, limit int) ([]entity.StockNews, error) {
	var news []entity.StockNews
	err := r.db.WithContext(ctx).
		Where("? = ANY(ticker_mentions)", ticker).
		Order("published_at desc nulls last").
		Limit(limit).
		Find(&news).Error
	if err != nil {
		return nil, err
	}
	return news, nil
}
