package entity

import (
	"time"
)

// Stock is one member of the tracked universe.
type Stock struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Ticker      string     `gorm:"unique;not null" json:"ticker"`
	Name        string     `gorm:"not null" json:"name"`
	Sector      *string    `json:"sector,omitempty"`
	LastPrice   *float64   `json:"last_price,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
