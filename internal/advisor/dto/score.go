package dto

// BreakdownComponent is one (sub-score, weight) pair of the composite score.
type BreakdownComponent struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown details how each factor contributed to the composite score.
type ScoreBreakdown struct {
	Technical   BreakdownComponent `json:"technical"`
	Sentiment   BreakdownComponent `json:"sentiment"`
	Fundamental BreakdownComponent `json:"fundamental"`
}

// TechnicalSignals holds the computed indicators and their interpretation for
// one ticker. Nil indicator values mean insufficient data ("N/A").
type TechnicalSignals struct {
	Ticker        string   `json:"ticker"`
	RSI           *float64 `json:"rsi,omitempty"`
	RSISignal     string   `json:"rsi_signal"`
	SMA20         *float64 `json:"sma_20,omitempty"`
	SMA50         *float64 `json:"sma_50,omitempty"`
	SMASignal     string   `json:"sma_signal"`
	PriceVs52W    *float64 `json:"price_vs_52w,omitempty"`
	RangeSignal   string   `json:"range_signal"`
	OverallSignal string   `json:"overall_signal"`
	Score         float64  `json:"score"`
	Error         string   `json:"error,omitempty"`
}

// StockScore is the complete scoring result for one ticker.
type StockScore struct {
	Ticker        string         `json:"ticker"`
	Name          string         `json:"name"`
	Score         float64        `json:"score"` // -100 to +100
	Signal        string         `json:"signal"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	CurrentPrice  *float64       `json:"current_price,omitempty"`
	DayChangePct  *float64       `json:"day_change_pct,omitempty"`
	PERatio       *float64       `json:"pe_ratio,omitempty"`
	NewsHeadlines []string       `json:"news_headlines"`
	Explanation   string         `json:"explanation"`
	Error         string         `json:"error,omitempty"`
}
