package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// YahooFinanceRepository fetches quotes and price history from Yahoo Finance.
// Lookups are rate limited and cached with a short TTL so repeated calls
// within one batch pass do not hammer the upstream API.
type YahooFinanceRepository interface {
	GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error)
	GetHistory(ctx context.Context, ticker string, rangeData string) (*dto.PriceHistory, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	quoteCache     *cache.Cache
	historyCache   *cache.Cache
}

// NewYahooFinanceRepository creates a new Yahoo Finance client.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	perMinute := cfg.YahooFinance.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)

	quoteTTL, err := time.ParseDuration(cfg.YahooFinance.QuoteCacheTTL)
	if err != nil {
		quoteTTL = 5 * time.Minute
	}
	historyTTL, err := time.ParseDuration(cfg.YahooFinance.HistoryCacheTTL)
	if err != nil {
		historyTTL = 15 * time.Minute
	}

	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		quoteCache:     cache.New(quoteTTL, 2*quoteTTL),
		historyCache:   cache.New(historyTTL, 2*historyTTL),
	}
}

// GetQuote fetches the current snapshot for a ticker. P/E and market cap come
// from the quoteSummary endpoint; its failure is tolerated and leaves those
// fields nil.
func (r *yahooFinanceRepository) GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	cacheKey := fmt.Sprintf("quote:%s", ticker)
	if cached, found := r.quoteCache.Get(cacheKey); found {
		return cached.(*dto.StockQuote), nil
	}

	chartURL := fmt.Sprintf("%s/%s?interval=1d&range=5d", r.cfg.YahooFinance.ChartBaseURL, ticker)
	body, err := r.sendRequest(ctx, chartURL)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s: %w", ticker, err)
	}

	var chartResp dto.YahooChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return nil, fmt.Errorf("decode chart response for %s: %w", ticker, err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrNoData, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, dto.ErrNoData
	}

	meta := chartResp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, dto.ErrNoData
	}

	quote := &dto.StockQuote{
		Ticker:        ticker,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		Volume:        meta.RegularMarketVolume,
		High52W:       meta.FiftyTwoWeekHigh,
		Low52W:        meta.FiftyTwoWeekLow,
	}
	if quote.Price != nil && quote.PreviousClose != nil && *quote.PreviousClose != 0 {
		change := *quote.Price - *quote.PreviousClose
		changePct := change / *quote.PreviousClose * 100
		quote.DayChange = &change
		quote.DayChangePct = &changePct
	}

	r.enrichFundamentals(ctx, ticker, quote)

	r.quoteCache.Set(cacheKey, quote, cache.DefaultExpiration)
	return quote, nil
}

// enrichFundamentals fills P/E and market cap from the quoteSummary endpoint.
func (r *yahooFinanceRepository) enrichFundamentals(ctx context.Context, ticker string, quote *dto.StockQuote) {
	summaryURL := fmt.Sprintf("%s/%s?modules=summaryDetail", r.cfg.YahooFinance.QuoteSummaryBaseURL, ticker)
	body, err := r.sendRequest(ctx, summaryURL)
	if err != nil {
		r.log.Debug("quoteSummary request failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return
	}

	var summaryResp dto.YahooQuoteSummaryResponse
	if err := json.Unmarshal(body, &summaryResp); err != nil || len(summaryResp.QuoteSummary.Result) == 0 {
		return
	}

	detail := summaryResp.QuoteSummary.Result[0].SummaryDetail
	if detail.TrailingPE.Raw != nil {
		quote.PERatio = detail.TrailingPE.Raw
	} else if detail.ForwardPE.Raw != nil {
		quote.PERatio = detail.ForwardPE.Raw
	}
	quote.MarketCap = detail.MarketCap.Raw
}

// GetHistory fetches a daily OHLC series for the given range (e.g. "3mo", "1y").
func (r *yahooFinanceRepository) GetHistory(ctx context.Context, ticker string, rangeData string) (*dto.PriceHistory, error) {
	cacheKey := fmt.Sprintf("history:%s:%s", ticker, rangeData)
	if cached, found := r.historyCache.Get(cacheKey); found {
		return cached.(*dto.PriceHistory), nil
	}

	chartURL := fmt.Sprintf("%s/%s?interval=1d&range=%s", r.cfg.YahooFinance.ChartBaseURL, ticker, rangeData)
	body, err := r.sendRequest(ctx, chartURL)
	if err != nil {
		return nil, fmt.Errorf("history request for %s: %w", ticker, err)
	}

	var chartResp dto.YahooChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return nil, fmt.Errorf("decode history response for %s: %w", ticker, err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrNoData, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, dto.ErrNoData
	}

	result := chartResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	history := &dto.PriceHistory{Ticker: ticker}
	for i, ts := range result.Timestamp {
		// Yahoo pads series with null rows for non-trading days.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		history.Timestamps = append(history.Timestamps, time.Unix(ts, 0).UTC())
		history.Closes = append(history.Closes, *quote.Close[i])
		if i < len(quote.Open) && quote.Open[i] != nil {
			history.Opens = append(history.Opens, *quote.Open[i])
		}
		// Highs and Lows stay paired; a row missing either contributes neither.
		if i < len(quote.High) && quote.High[i] != nil && i < len(quote.Low) && quote.Low[i] != nil {
			history.Highs = append(history.Highs, *quote.High[i])
			history.Lows = append(history.Lows, *quote.Low[i])
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			history.Volumes = append(history.Volumes, *quote.Volume[i])
		} else {
			history.Volumes = append(history.Volumes, 0)
		}
	}
	if history.Empty() {
		return nil, dto.ErrNoData
	}

	r.historyCache.Set(cacheKey, history, cache.DefaultExpiration)
	return history, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stockpulse/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, dto.ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
