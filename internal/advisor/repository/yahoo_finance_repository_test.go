package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockpulse/internal/advisor/config"
	"stockpulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYahooRepository(t *testing.T, chartBody string) YahooFinanceRepository {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	t.Cleanup(server.Close)

	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.YahooFinance.ChartBaseURL = server.URL
	cfg.YahooFinance.QuoteSummaryBaseURL = server.URL
	cfg.YahooFinance.MaxRequestPerMinute = 6000
	return NewYahooFinanceRepository(cfg, log)
}

func TestGetHistory_SkipsNullHighLowRows(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"meta": {"symbol": "AAPL"},
				"timestamp": [1700000000, 1700086400, 1700172800],
				"indicators": {
					"quote": [{
						"open": [100.0, 101.0, 102.0],
						"high": [105.0, null, 107.0],
						"low": [95.0, null, 97.0],
						"close": [101.0, 102.0, 103.0],
						"volume": [1000, 1100, 1200]
					}]
				}
			}],
			"error": null
		}
	}`
	repo := newTestYahooRepository(t, body)

	history, err := repo.GetHistory(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	// All three closes survive; the row with null high/low contributes
	// nothing to the range series rather than a spurious zero.
	assert.Equal(t, []float64{101, 102, 103}, history.Closes)
	assert.Equal(t, []float64{105, 107}, history.Highs)
	assert.Equal(t, []float64{95, 97}, history.Lows)
	for _, low := range history.Lows {
		assert.Greater(t, low, 0.0)
	}
}

func TestGetHistory_SkipsNullCloseRows(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"meta": {"symbol": "AAPL"},
				"timestamp": [1700000000, 1700086400],
				"indicators": {
					"quote": [{
						"open": [100.0, null],
						"high": [105.0, null],
						"low": [95.0, null],
						"close": [101.0, null],
						"volume": [1000, null]
					}]
				}
			}],
			"error": null
		}
	}`
	repo := newTestYahooRepository(t, body)

	history, err := repo.GetHistory(context.Background(), "AAPL", "3mo")
	require.NoError(t, err)
	assert.Equal(t, []float64{101}, history.Closes)
	assert.Equal(t, []float64{105}, history.Highs)
	assert.Equal(t, []float64{95}, history.Lows)
}
