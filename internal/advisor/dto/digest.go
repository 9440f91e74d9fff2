package dto

import (
	"time"
)

// DigestPick is one recommendation inside a daily digest.
type DigestPick struct {
	Ticker            string         `json:"ticker"`
	Name              string         `json:"name"`
	Score             float64        `json:"score"`
	Signal            string         `json:"signal"`
	CurrentPrice      *float64       `json:"current_price,omitempty"`
	DayChangePct      *float64       `json:"day_change_pct,omitempty"`
	Explanation       string         `json:"explanation"`
	SuggestedPosition float64        `json:"suggested_position"`
	NewsHeadlines     []string       `json:"news_headlines"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
}

// DigestData is the persisted digest payload.
type DigestData struct {
	Buy  []DigestPick `json:"buy"`
	Sell []DigestPick `json:"sell"`
}

// DigestResponse is the digest artifact served to clients.
type DigestResponse struct {
	Date        string       `json:"date"`
	GeneratedAt *time.Time   `json:"generated_at,omitempty"`
	Buy         []DigestPick `json:"buy"`
	Sell        []DigestPick `json:"sell"`
	Message     string       `json:"message,omitempty"`
}

// GenerateDigestResponse summarizes a completed generation run.
type GenerateDigestResponse struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	BuyCount  int    `json:"buy_count"`
	SellCount int    `json:"sell_count"`
}
