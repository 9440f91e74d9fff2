package entity

import (
	"time"

	"github.com/lib/pq"
)

// StockNews is a deduplicated news headline with the tickers it mentions.
type StockNews struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Link           string         `gorm:"unique;not null" json:"link"`
	Source         string         `json:"source"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	RawContent     string         `json:"raw_content"`
	HashIdentifier string         `gorm:"unique;not null" json:"hash_identifier"`
	TickerMentions pq.StringArray `gorm:"type:text[]" json:"ticker_mentions"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (StockNews) TableName() string {
	return "stock_news"
}
