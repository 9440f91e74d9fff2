package service

import (
	"stockpulse/internal/advisor/dto"
)

const (
	rsiPeriod   = 14
	smaShort    = 20
	smaLong     = 50
	rsiWeight   = 0.3
	smaWeight   = 0.5
	rangeWeight = 0.2
)

// CalculateRSI computes the relative strength index over the trailing period.
// Returns nil when there are fewer than period+1 closes or when both average
// gain and average loss are zero.
func CalculateRSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return nil
		}
		rsi := 100.0
		return &rsi
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))
	return &rsi
}

// CalculateSMA computes the simple moving average over the trailing period.
// Returns nil when there are fewer closes than the period.
func CalculateSMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}
	var sum float64
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	sma := sum / float64(period)
	return &sma
}

// rsiSignal interprets an RSI value into a signal label and sub-score.
func rsiSignal(rsi float64) (string, float64) {
	switch {
	case rsi >= 70:
		return "Overbought", -0.5
	case rsi >= 60:
		return "Bullish", 0.3
	case rsi <= 30:
		return "Oversold", 0.5
	case rsi <= 40:
		return "Bearish", -0.3
	default:
		return "Neutral", 0.0
	}
}

// smaSignal interprets the 20/50 crossover against the current price.
func smaSignal(sma20, sma50, currentPrice float64) (string, float64) {
	if sma20 > sma50 {
		if currentPrice > sma20 {
			return "Strong Bullish", 0.8
		}
		return "Bullish", 0.4
	}
	if currentPrice < sma20 {
		return "Strong Bearish", -0.8
	}
	return "Bearish", -0.4
}

// rangeSignal interprets the position within the 52-week range, where 0 is at
// the low and 100 at the high.
func rangeSignal(pricePct float64) (string, float64) {
	switch {
	case pricePct >= 90:
		return "Near 52w High", -0.3
	case pricePct >= 70:
		return "Upper Range", 0.2
	case pricePct <= 10:
		return "Near 52w Low", 0.3
	case pricePct <= 30:
		return "Lower Range", -0.2
	default:
		return "Mid Range", 0.0
	}
}

// EvaluateTechnicals derives RSI, moving averages, and the 52-week range
// position from price history and maps them onto a weighted [-1, 1] score.
// Missing indicators contribute 0 rather than being excluded and
// renormalized, which deliberately biases the score toward 0 on sparse data.
func EvaluateTechnicals(ticker string, history, yearHistory *dto.PriceHistory) dto.TechnicalSignals {
	if history.Empty() {
		return dto.TechnicalSignals{Ticker: ticker, Error: "no historical data available"}
	}

	closes := history.Closes
	currentPrice := history.LastClose()

	rsi := CalculateRSI(closes, rsiPeriod)
	sma20 := CalculateSMA(closes, smaShort)
	sma50 := CalculateSMA(closes, smaLong)

	var priceVs52W *float64
	if !yearHistory.Empty() && len(yearHistory.Highs) > 0 {
		high52 := yearHistory.Highs[0]
		low52 := yearHistory.Lows[0]
		for i := range yearHistory.Highs {
			if yearHistory.Highs[i] > high52 {
				high52 = yearHistory.Highs[i]
			}
			if yearHistory.Lows[i] < low52 {
				low52 = yearHistory.Lows[i]
			}
		}
		if high52 != low52 {
			pct := (currentPrice - low52) / (high52 - low52) * 100
			priceVs52W = &pct
		}
	}

	signals := dto.TechnicalSignals{
		Ticker:     ticker,
		RSI:        rsi,
		SMA20:      sma20,
		SMA50:      sma50,
		PriceVs52W: priceVs52W,
	}

	var rsiScore, smaScore, rangeScore float64
	signals.RSISignal = "N/A"
	if rsi != nil {
		signals.RSISignal, rsiScore = rsiSignal(*rsi)
	}
	signals.SMASignal = "N/A"
	if sma20 != nil && sma50 != nil {
		signals.SMASignal, smaScore = smaSignal(*sma20, *sma50, currentPrice)
	}
	signals.RangeSignal = "N/A"
	if priceVs52W != nil {
		signals.RangeSignal, rangeScore = rangeSignal(*priceVs52W)
	}

	signals.Score = rsiScore*rsiWeight + smaScore*smaWeight + rangeScore*rangeWeight

	switch {
	case signals.Score >= 0.4:
		signals.OverallSignal = "Bullish"
	case signals.Score >= 0.1:
		signals.OverallSignal = "Slightly Bullish"
	case signals.Score <= -0.4:
		signals.OverallSignal = "Bearish"
	case signals.Score <= -0.1:
		signals.OverallSignal = "Slightly Bearish"
	default:
		signals.OverallSignal = "Neutral"
	}

	return signals
}
