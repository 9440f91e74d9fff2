package service

import (
	"testing"

	"stockpulse/internal/advisor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreFixture(ticker string, score float64) *dto.StockScore {
	return &dto.StockScore{
		Ticker: ticker,
		Name:   ticker + " Inc.",
		Score:  score,
		Signal: SignalFromScore(score),
	}
}

func tickers(scores []*dto.StockScore) []string {
	out := make([]string, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.Ticker)
	}
	return out
}

func TestSelectTopPicks(t *testing.T) {
	scores := []*dto.StockScore{
		scoreFixture("A", 85),
		scoreFixture("B", 70),
		scoreFixture("C", 40),
		scoreFixture("D", 10),
		scoreFixture("E", -5),
		scoreFixture("F", -50),
		scoreFixture("G", -80),
	}

	buy, sell := SelectTopPicks(scores, 5)

	assert.Equal(t, []string{"A", "B", "C", "D"}, tickers(buy))
	// Sells come from the tail of the ranking, most negative first.
	assert.Equal(t, []string{"G", "F", "E"}, tickers(sell))
}

func TestSelectTopPicks_DropsErrorEntries(t *testing.T) {
	failed := scoreFixture("X", 90)
	failed.Error = "no market data available"

	scores := []*dto.StockScore{
		failed,
		scoreFixture("A", 50),
		scoreFixture("B", -40),
	}

	buy, sell := SelectTopPicks(scores, 5)
	assert.Equal(t, []string{"A"}, tickers(buy))
	assert.Equal(t, []string{"B"}, tickers(sell))
}

func TestSelectTopPicks_FewerThanTopN(t *testing.T) {
	buy, sell := SelectTopPicks([]*dto.StockScore{scoreFixture("A", 20)}, 5)
	assert.Equal(t, []string{"A"}, tickers(buy))
	assert.Empty(t, sell)

	buy, sell = SelectTopPicks(nil, 5)
	assert.Empty(t, buy)
	assert.Empty(t, sell)
}

func TestSelectTopPicks_AllNegative(t *testing.T) {
	scores := []*dto.StockScore{
		scoreFixture("A", -10),
		scoreFixture("B", -20),
		scoreFixture("C", -30),
	}

	buy, sell := SelectTopPicks(scores, 2)
	assert.Empty(t, buy)
	// Only the last topN positions of the ranking are considered.
	assert.Equal(t, []string{"C", "B"}, tickers(sell))
}

func TestSelectTopPicks_StableOnTies(t *testing.T) {
	scores := []*dto.StockScore{
		scoreFixture("A", 50),
		scoreFixture("B", 50),
		scoreFixture("C", 50),
	}

	buy, _ := SelectTopPicks(scores, 3)
	assert.Equal(t, []string{"A", "B", "C"}, tickers(buy))
}

func TestFormatPick_PositionSizing(t *testing.T) {
	pick := scoreFixture("AAPL", 85)
	formatted := FormatPick(pick, 10000)

	// 10000 * 0.10 * 85/100
	assert.Equal(t, 850.0, formatted.SuggestedPosition)
	assert.Equal(t, "AAPL", formatted.Ticker)
	assert.Equal(t, 85.0, formatted.Score)
	require.NotNil(t, formatted.NewsHeadlines)
}

func TestFormatPick_NegativeScoreUsesMagnitude(t *testing.T) {
	formatted := FormatPick(scoreFixture("XOM", -100), 10000)
	assert.Equal(t, 1000.0, formatted.SuggestedPosition)
}

func TestFormatPick_RoundsToCents(t *testing.T) {
	formatted := FormatPick(scoreFixture("MSFT", 33.333), 10000)
	assert.Equal(t, 333.33, formatted.SuggestedPosition)

	formatted = FormatPick(scoreFixture("MSFT", 12.3), 5000)
	assert.Equal(t, 61.5, formatted.SuggestedPosition)
}
