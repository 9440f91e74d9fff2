package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Digest is the published daily set of top buy/sell picks, one row per date.
type Digest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Date        string         `gorm:"unique;not null" json:"date"` // YYYY-MM-DD
	GeneratedAt time.Time      `json:"generated_at"`
	Data        datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Digest) TableName() string {
	return "digests"
}
