package dto

import (
	"time"
)

// VerificationRunResult summarizes one verification pass. Entries that failed
// to fetch stay pending; their failures are listed in Errors (capped).
type VerificationRunResult struct {
	Verified1D  int      `json:"verified_1d"`
	Verified7D  int      `json:"verified_7d"`
	Verified30D int      `json:"verified_30d"`
	Errors      []string `json:"errors"`
}

// HorizonOutcomeResponse mirrors one horizon's verification state on a
// prediction.
type HorizonOutcomeResponse struct {
	Verified   bool     `json:"verified"`
	PriceAfter *float64 `json:"price_after,omitempty"`
	Correct    *bool    `json:"correct,omitempty"`
	ReturnPct  *float64 `json:"return_pct,omitempty"`
}

// PredictionResponse is one ledger entry with its verification status.
type PredictionResponse struct {
	ID                uint                   `json:"id"`
	Ticker            string                 `json:"ticker"`
	CompanyName       string                 `json:"company_name"`
	Direction         string                 `json:"direction"`
	Score             float64                `json:"score"`
	PredictedAt       time.Time              `json:"predicted_at"`
	PriceAtPrediction float64                `json:"price_at_prediction"`
	Outcome1D         HorizonOutcomeResponse `json:"outcome_1d"`
	Outcome7D         HorizonOutcomeResponse `json:"outcome_7d"`
	Outcome30D        HorizonOutcomeResponse `json:"outcome_30d"`
}

// StatsResponse is the latest verification statistics snapshot.
type StatsResponse struct {
	TotalPredictions int `json:"total_predictions"`

	Verified1D  int `json:"verified_1d"`
	Verified7D  int `json:"verified_7d"`
	Verified30D int `json:"verified_30d"`

	Accuracy1D  *float64 `json:"accuracy_1d,omitempty"`
	Accuracy7D  *float64 `json:"accuracy_7d,omitempty"`
	Accuracy30D *float64 `json:"accuracy_30d,omitempty"`

	AvgReturn1D  *float64 `json:"avg_return_1d,omitempty"`
	AvgReturn7D  *float64 `json:"avg_return_7d,omitempty"`
	AvgReturn30D *float64 `json:"avg_return_30d,omitempty"`

	HypotheticalReturn *float64 `json:"hypothetical_return,omitempty"`

	IsUnlocked   bool       `json:"is_unlocked"`
	UnlockReason string     `json:"unlock_reason"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// UnlockRequirements states the gate criteria and current progress.
type UnlockRequirements struct {
	MinPredictions     int      `json:"min_predictions"`
	MinAccuracy        float64  `json:"min_accuracy"`
	CurrentPredictions int      `json:"current_predictions"`
	CurrentAccuracy    *float64 `json:"current_accuracy,omitempty"`
}

// SystemStatusResponse reports whether the system's advice should be treated
// as actionable.
type SystemStatusResponse struct {
	IsUnlocked         bool               `json:"is_unlocked"`
	Mode               string             `json:"mode"` // "observation" or "active"
	Message            string             `json:"message"`
	Stats              *StatsResponse     `json:"stats,omitempty"`
	UnlockRequirements UnlockRequirements `json:"unlock_requirements"`
}

// RunVerificationResponse is returned by the manual verification trigger.
type RunVerificationResponse struct {
	Status      string   `json:"status"`
	Verified1D  int      `json:"verified_1d"`
	Verified7D  int      `json:"verified_7d"`
	Verified30D int      `json:"verified_30d"`
	Errors      []string `json:"errors"`
}

// RecalculateResponse is returned by the manual stats recomputation trigger.
type RecalculateResponse struct {
	Status       string   `json:"status"`
	Accuracy7D   *float64 `json:"accuracy_7d,omitempty"`
	IsUnlocked   bool     `json:"is_unlocked"`
	UnlockReason string   `json:"unlock_reason"`
}
