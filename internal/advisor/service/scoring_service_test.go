package service

import (
	"context"
	"testing"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/entity"
	"stockpulse/pkg/logger"
	"stockpulse/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeYahooRepo struct {
	quote     *dto.StockQuote
	quoteErr  error
	histories map[string]*dto.PriceHistory
}

func (f *fakeYahooRepo) GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeYahooRepo) GetHistory(ctx context.Context, ticker string, rangeData string) (*dto.PriceHistory, error) {
	history, ok := f.histories[rangeData]
	if !ok {
		return nil, dto.ErrNoData
	}
	return history, nil
}

type fakeNewsFeed struct {
	items []dto.NewsItem
	err   error
}

func (f *fakeNewsFeed) FetchAll(ctx context.Context, universe map[string]string) ([]dto.NewsItem, error) {
	return f.items, f.err
}

func (f *fakeNewsFeed) FetchForTicker(ctx context.Context, ticker string, universe map[string]string, maxItems int) ([]dto.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > maxItems {
		return f.items[:maxItems], nil
	}
	return f.items, nil
}

func (f *fakeNewsFeed) FetchArticleContent(ctx context.Context, url string) (string, error) {
	return "", f.err
}

type fakeStockNewsRepo struct {
	stored []entity.StockNews
	err    error
}

func (f *fakeStockNewsRepo) Upsert(ctx context.Context, news *entity.StockNews) error {
	f.stored = append(f.stored, *news)
	return nil
}

func (f *fakeStockNewsRepo) FindForTicker(ctx context.Context, ticker string, limit int) ([]entity.StockNews, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.stored) > limit {
		return f.stored[:limit], nil
	}
	return f.stored, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestScoringService(t *testing.T, yahoo *fakeYahooRepo, news *fakeNewsFeed, stored *fakeStockNewsRepo) ScoringService {
	t.Helper()
	if stored == nil {
		stored = &fakeStockNewsRepo{}
	}
	return NewScoringService(testLogger(t), yahoo, news, stored, NewSentimentAnalyzer(), NewFundamentalAnalyzer())
}

func TestScore_MarketDataFailure(t *testing.T) {
	svc := newTestScoringService(t, &fakeYahooRepo{quoteErr: dto.ErrNoData}, &fakeNewsFeed{}, nil)

	score := svc.Score(context.Background(), "AAPL", "Apple Inc.", nil, nil)

	require.NotNil(t, score)
	assert.Equal(t, "AAPL", score.Ticker)
	assert.Zero(t, score.Score)
	assert.Equal(t, "Hold", score.Signal)
	assert.NotEmpty(t, score.Error)
	assert.Equal(t, "No data available for AAPL", score.Explanation)
}

func TestScore_CompositeAndBreakdown(t *testing.T) {
	closes := make([]float64, 60)
	highs := make([]float64, 60)
	lows := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
		highs[i] = closes[i] + 1
		lows[i] = closes[i] - 1
	}
	history := &dto.PriceHistory{Closes: closes, Highs: highs, Lows: lows}

	sector := "Technology"
	yahoo := &fakeYahooRepo{
		quote: &dto.StockQuote{
			Ticker:  "AAPL",
			Price:   utils.Float64Ptr(159),
			PERatio: utils.Float64Ptr(14),
		},
		histories: map[string]*dto.PriceHistory{"3mo": history, "1y": history},
	}
	news := &fakeNewsFeed{items: []dto.NewsItem{
		{Title: "Stock surges on record profit"},
		{Title: "Company faces fraud investigation"},
	}}
	svc := newTestScoringService(t, yahoo, news, nil)

	score := svc.Score(context.Background(), "AAPL", "Apple Inc.", &sector, nil)

	require.NotNil(t, score)
	require.Empty(t, score.Error)

	// Technical 0.19, sentiment (1 - 1) / 2 = 0, fundamental (28-14)/28 = 0.5.
	assert.InDelta(t, 0.19, score.Breakdown.Technical.Score, 1e-9)
	assert.InDelta(t, 0.0, score.Breakdown.Sentiment.Score, 1e-9)
	assert.InDelta(t, 0.5, score.Breakdown.Fundamental.Score, 1e-9)

	// (0.19*0.40 + 0*0.30 + 0.5*0.30) * 100 = 22.6
	assert.InDelta(t, 22.6, score.Score, 1e-9)
	assert.Equal(t, "Hold", score.Signal)
	assert.Len(t, score.NewsHeadlines, 2)
	assert.NotEmpty(t, score.Explanation)
}

func TestScore_NoHistoryStillScores(t *testing.T) {
	yahoo := &fakeYahooRepo{
		quote: &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(100)},
	}
	svc := newTestScoringService(t, yahoo, &fakeNewsFeed{}, nil)

	score := svc.Score(context.Background(), "AAPL", "Apple Inc.", nil, nil)

	require.Empty(t, score.Error)
	assert.Zero(t, score.Score)
	assert.Equal(t, "Hold", score.Signal)
}

func TestScore_PrefersStoredHeadlines(t *testing.T) {
	yahoo := &fakeYahooRepo{
		quote: &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(100)},
	}
	feed := &fakeNewsFeed{items: []dto.NewsItem{
		{Title: "Stock surges on record profit"},
	}}
	stored := &fakeStockNewsRepo{stored: []entity.StockNews{
		{Title: "Company faces fraud investigation"},
	}}
	svc := newTestScoringService(t, yahoo, feed, stored)

	score := svc.Score(context.Background(), "AAPL", "Apple Inc.", nil, nil)

	require.Empty(t, score.Error)
	assert.InDelta(t, -1.0, score.Breakdown.Sentiment.Score, 1e-9)
	assert.Equal(t, []string{"Company faces fraud investigation"}, score.NewsHeadlines)
}

func TestScore_FallsBackToLiveFeed(t *testing.T) {
	yahoo := &fakeYahooRepo{
		quote: &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(100)},
	}
	feed := &fakeNewsFeed{items: []dto.NewsItem{
		{Title: "Stock surges on record profit"},
	}}
	svc := newTestScoringService(t, yahoo, feed, &fakeStockNewsRepo{})

	score := svc.Score(context.Background(), "AAPL", "Apple Inc.", nil, nil)

	require.Empty(t, score.Error)
	assert.InDelta(t, 1.0, score.Breakdown.Sentiment.Score, 1e-9)
	assert.Equal(t, []string{"Stock surges on record profit"}, score.NewsHeadlines)
}

func TestSignalFromScore(t *testing.T) {
	cases := []struct {
		score  float64
		signal string
	}{
		{100, "Strong Buy"},
		{60, "Strong Buy"},
		{59.9, "Buy"},
		{30, "Buy"},
		{29.9, "Hold"},
		{0, "Hold"},
		{-30, "Hold"},
		{-30.1, "Sell"},
		{-60, "Sell"},
		{-60.1, "Strong Sell"},
		{-100, "Strong Sell"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.signal, SignalFromScore(tc.score), "score=%v", tc.score)
	}
}
