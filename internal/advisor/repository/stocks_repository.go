package repository

import (
	"context"
	"time"

	"stockpulse/internal/entity"

	"gorm.io/gorm"
)

// StocksRepository defines data operations on the tracked universe.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
	UpdateLastPrice(ctx context.Context, ticker string, price float64) error
}

// NewStocksRepository creates a new GORM-based stocks repository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

type stocksRepository struct {
	db *gorm.DB
}

// GetStocks retrieves the full tracked universe ordered by ticker.
func (r *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("ticker asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// UpdateLastPrice records the latest observed price for a ticker.
func (r *stocksRepository) UpdateLastPrice(ctx context.Context, ticker string, price float64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("ticker = ?", ticker).
		Updates(map[string]interface{}{"last_price": price, "last_updated": now}).Error
}
