package entity

import (
	"time"
)

// Direction of a recommendation: buy expects the price to rise, sell to fall.
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// Horizon is the fixed delay after which a prediction is checked against the
// market.
type Horizon string

const (
	Horizon1D  Horizon = "1d"
	Horizon7D  Horizon = "7d"
	Horizon30D Horizon = "30d"
)

// Horizons lists all verification horizons in ascending order.
var Horizons = []Horizon{Horizon1D, Horizon7D, Horizon30D}

// Days returns the horizon length in days.
func (h Horizon) Days() int {
	switch h {
	case Horizon1D:
		return 1
	case Horizon7D:
		return 7
	case Horizon30D:
		return 30
	}
	return 0
}

// Duration returns the horizon length as a time.Duration.
func (h Horizon) Duration() time.Duration {
	return time.Duration(h.Days()) * 24 * time.Hour
}

// ColumnPrefix returns the embedded column prefix used for this horizon's
// outcome fields. Must match the gorm embeddedPrefix tags below.
func (h Horizon) ColumnPrefix() string {
	switch h {
	case Horizon1D:
		return "h1d_"
	case Horizon7D:
		return "h7d_"
	case Horizon30D:
		return "h30d_"
	}
	return ""
}

// PredictionOutcome holds the verification result for one horizon. Once
// Verified is set the remaining fields are populated and never overwritten.
type PredictionOutcome struct {
	Verified   bool     `gorm:"default:false" json:"verified"`
	PriceAfter *float64 `json:"price_after,omitempty"`
	Correct    *bool    `json:"correct,omitempty"`
	ReturnPct  *float64 `json:"return_pct,omitempty"`
}

// Prediction is one ledger entry, created when a recommendation is emitted.
// The three horizon outcomes progress independently on the same record.
type Prediction struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Ticker            string    `gorm:"index;not null" json:"ticker"`
	CompanyName       string    `gorm:"not null" json:"company_name"`
	Direction         string    `gorm:"not null" json:"direction"`
	Score             float64   `gorm:"not null" json:"score"`
	PriceAtPrediction float64   `gorm:"not null" json:"price_at_prediction"`
	PredictedAt       time.Time `gorm:"index;not null" json:"predicted_at"`

	Outcome1D  PredictionOutcome `gorm:"embedded;embeddedPrefix:h1d_" json:"outcome_1d"`
	Outcome7D  PredictionOutcome `gorm:"embedded;embeddedPrefix:h7d_" json:"outcome_7d"`
	Outcome30D PredictionOutcome `gorm:"embedded;embeddedPrefix:h30d_" json:"outcome_30d"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// Outcome returns the mutable outcome record for the given horizon.
func (p *Prediction) Outcome(h Horizon) *PredictionOutcome {
	switch h {
	case Horizon1D:
		return &p.Outcome1D
	case Horizon7D:
		return &p.Outcome7D
	case Horizon30D:
		return &p.Outcome30D
	}
	return nil
}
