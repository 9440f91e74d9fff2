package dto

import (
	"errors"
	"time"
)

// ErrNoData tags a market data lookup that returned no usable record for a
// ticker. Callers downgrade the ticker instead of aborting the batch.
var ErrNoData = errors.New("no market data available")

// StockQuote holds the current snapshot for one ticker.
type StockQuote struct {
	Ticker        string   `json:"ticker"`
	Price         *float64 `json:"price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	DayChange     *float64 `json:"day_change,omitempty"`
	DayChangePct  *float64 `json:"day_change_pct,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	High52W       *float64 `json:"fifty_two_week_high,omitempty"`
	Low52W        *float64 `json:"fifty_two_week_low,omitempty"`
}

// PriceHistory holds an OHLC series in chronological order.
type PriceHistory struct {
	Ticker     string      `json:"ticker"`
	Timestamps []time.Time `json:"timestamps"`
	Opens      []float64   `json:"opens"`
	Highs      []float64   `json:"highs"`
	Lows       []float64   `json:"lows"`
	Closes     []float64   `json:"closes"`
	Volumes    []int64     `json:"volumes"`
}

// Empty reports whether the series has no closing prices.
func (h *PriceHistory) Empty() bool {
	return h == nil || len(h.Closes) == 0
}

// LastClose returns the most recent closing price.
func (h *PriceHistory) LastClose() float64 {
	return h.Closes[len(h.Closes)-1]
}
