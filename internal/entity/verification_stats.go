package entity

import (
	"time"
)

// HorizonStats holds rolling accuracy numbers for one horizon. Accuracy and
// AvgReturnPct are nil while no entry has been verified for the horizon.
type HorizonStats struct {
	VerifiedCount int      `gorm:"default:0" json:"verified_count"`
	CorrectCount  int      `gorm:"default:0" json:"correct_count"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	AvgReturnPct  *float64 `json:"avg_return_pct,omitempty"`
}

// VerificationStats is an immutable snapshot of the ledger's track record.
// A new row is appended on every recomputation; the latest row by
// CalculatedAt is the authoritative current state.
type VerificationStats struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CalculatedAt     time.Time `gorm:"autoCreateTime;index" json:"calculated_at"`
	TotalPredictions int       `gorm:"default:0" json:"total_predictions"`

	Stats1D  HorizonStats `gorm:"embedded;embeddedPrefix:h1d_" json:"stats_1d"`
	Stats7D  HorizonStats `gorm:"embedded;embeddedPrefix:h7d_" json:"stats_7d"`
	Stats30D HorizonStats `gorm:"embedded;embeddedPrefix:h30d_" json:"stats_30d"`

	// Sum of all verified 7-day returns, as if every recommendation had been
	// followed.
	HypotheticalReturn *float64 `json:"hypothetical_return,omitempty"`

	IsUnlocked   bool   `gorm:"default:false" json:"is_unlocked"`
	UnlockReason string `json:"unlock_reason"`
}

func (VerificationStats) TableName() string {
	return "verification_stats"
}

// HorizonStats returns the stats block for the given horizon.
func (s *VerificationStats) HorizonStats(h Horizon) *HorizonStats {
	switch h {
	case Horizon1D:
		return &s.Stats1D
	case Horizon7D:
		return &s.Stats7D
	case Horizon30D:
		return &s.Stats30D
	}
	return nil
}
