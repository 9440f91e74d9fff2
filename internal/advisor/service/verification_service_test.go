package service

import (
	"context"
	"testing"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/entity"
	"stockpulse/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePredictionRepo struct {
	predictions []*entity.Prediction
	nextID      uint
}

func (f *fakePredictionRepo) Create(ctx context.Context, prediction *entity.Prediction) error {
	f.nextID++
	prediction.ID = f.nextID
	f.predictions = append(f.predictions, prediction)
	return nil
}

func (f *fakePredictionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.predictions)), nil
}

func (f *fakePredictionRepo) FindPending(ctx context.Context, horizon entity.Horizon, maturedBefore time.Time) ([]entity.Prediction, error) {
	var out []entity.Prediction
	for _, p := range f.predictions {
		if !p.Outcome(horizon).Verified && !p.PredictedAt.After(maturedBefore) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) FindVerified(ctx context.Context, horizon entity.Horizon) ([]entity.Prediction, error) {
	var out []entity.Prediction
	for _, p := range f.predictions {
		if p.Outcome(horizon).Verified {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) MarkVerified(ctx context.Context, prediction *entity.Prediction, horizon entity.Horizon) error {
	for _, p := range f.predictions {
		if p.ID == prediction.ID {
			*p.Outcome(horizon) = *prediction.Outcome(horizon)
			return nil
		}
	}
	return nil
}

func (f *fakePredictionRepo) FindRecent(ctx context.Context, limit int) ([]entity.Prediction, error) {
	var out []entity.Prediction
	for i := len(f.predictions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.predictions[i])
	}
	return out, nil
}

type fakeStatsRepo struct {
	snapshots []*entity.VerificationStats
}

func (f *fakeStatsRepo) Append(ctx context.Context, stats *entity.VerificationStats) error {
	stats.CalculatedAt = time.Now().UTC()
	f.snapshots = append(f.snapshots, stats)
	return nil
}

func (f *fakeStatsRepo) Latest(ctx context.Context) (*entity.VerificationStats, error) {
	if len(f.snapshots) == 0 {
		return nil, nil
	}
	return f.snapshots[len(f.snapshots)-1], nil
}

func newTestVerificationService(t *testing.T, predictionRepo *fakePredictionRepo, statsRepo *fakeStatsRepo, yahoo *fakeYahooRepo) VerificationService {
	t.Helper()
	return NewVerificationService(&config.Config{}, testLogger(t), predictionRepo, statsRepo, yahoo)
}

func ledgerEntry(ticker, direction string, price float64, age time.Duration) *entity.Prediction {
	return &entity.Prediction{
		Ticker:            ticker,
		CompanyName:       ticker + " Inc.",
		Direction:         direction,
		Score:             42,
		PriceAtPrediction: price,
		PredictedAt:       time.Now().UTC().Add(-age),
	}
}

func TestRunVerification_BuyPriceRose(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	require.NoError(t, predictionRepo.Create(context.Background(),
		ledgerEntry("AAPL", entity.DirectionBuy, 100, 8*24*time.Hour)))

	yahoo := &fakeYahooRepo{quote: &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(110)}}
	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, yahoo)

	result, err := svc.RunVerification(context.Background())
	require.NoError(t, err)

	// Eight days old: the 1d and 7d horizons matured, 30d has not.
	assert.Equal(t, 1, result.Verified1D)
	assert.Equal(t, 1, result.Verified7D)
	assert.Equal(t, 0, result.Verified30D)
	assert.Empty(t, result.Errors)

	stored := predictionRepo.predictions[0]
	outcome := stored.Outcome7D
	require.True(t, outcome.Verified)
	assert.Equal(t, 110.0, *outcome.PriceAfter)
	assert.True(t, *outcome.Correct)
	assert.Equal(t, 10.0, *outcome.ReturnPct)
	assert.False(t, stored.Outcome30D.Verified)
}

func TestRunVerification_SellPriceRose(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	require.NoError(t, predictionRepo.Create(context.Background(),
		ledgerEntry("XOM", entity.DirectionSell, 100, 2*24*time.Hour)))

	yahoo := &fakeYahooRepo{quote: &dto.StockQuote{Ticker: "XOM", Price: utils.Float64Ptr(110)}}
	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, yahoo)

	result, err := svc.RunVerification(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Verified1D)

	// A sell call with a rising price is wrong, and the attributed return is
	// the negated price change.
	outcome := predictionRepo.predictions[0].Outcome1D
	require.True(t, outcome.Verified)
	assert.False(t, *outcome.Correct)
	assert.Equal(t, -10.0, *outcome.ReturnPct)
}

func TestRunVerification_Idempotent(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	require.NoError(t, predictionRepo.Create(context.Background(),
		ledgerEntry("AAPL", entity.DirectionBuy, 100, 2*24*time.Hour)))

	yahoo := &fakeYahooRepo{quote: &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(105)}}
	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, yahoo)

	first, err := svc.RunVerification(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Verified1D)

	// The price moved again afterwards; the recorded outcome must not change.
	yahoo.quote = &dto.StockQuote{Ticker: "AAPL", Price: utils.Float64Ptr(90)}
	second, err := svc.RunVerification(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Verified1D)
	assert.Equal(t, 105.0, *predictionRepo.predictions[0].Outcome1D.PriceAfter)
}

func TestRunVerification_FetchFailureStaysPending(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	require.NoError(t, predictionRepo.Create(context.Background(),
		ledgerEntry("AAPL", entity.DirectionBuy, 100, 2*24*time.Hour)))

	yahoo := &fakeYahooRepo{quoteErr: dto.ErrNoData}
	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, yahoo)

	result, err := svc.RunVerification(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Verified1D)
	assert.Len(t, result.Errors, 1)
	assert.False(t, predictionRepo.predictions[0].Outcome1D.Verified)
}

// seedVerified7D populates the ledger with entries already verified on the
// 7-day horizon: correct of total are graded correct, each with a recorded
// return.
func seedVerified7D(repo *fakePredictionRepo, total, correct int, returnPct float64) {
	for i := 0; i < total; i++ {
		p := ledgerEntry("AAPL", entity.DirectionBuy, 100, 10*24*time.Hour)
		p.Outcome7D = entity.PredictionOutcome{
			Verified:   true,
			PriceAfter: utils.Float64Ptr(100 + returnPct),
			Correct:    utils.BoolPtr(i < correct),
			ReturnPct:  utils.Float64Ptr(returnPct),
		}
		_ = repo.Create(context.Background(), p)
	}
}

func TestRecalculateStats_LockedBelowMinimumCount(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	seedVerified7D(predictionRepo, 49, 49, 5)

	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, &fakeYahooRepo{})
	stats, err := svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	assert.False(t, stats.IsUnlocked)
	assert.Contains(t, stats.UnlockReason, "Need 1 more")
	assert.Equal(t, 49, stats.Stats7D.VerifiedCount)
	require.NotNil(t, stats.Stats7D.Accuracy)
	assert.Equal(t, 100.0, *stats.Stats7D.Accuracy)
}

func TestRecalculateStats_LockedBelowAccuracy(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	seedVerified7D(predictionRepo, 50, 27, 1)

	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, &fakeYahooRepo{})
	stats, err := svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	assert.False(t, stats.IsUnlocked)
	assert.Contains(t, stats.UnlockReason, "below")
	require.NotNil(t, stats.Stats7D.Accuracy)
	assert.Equal(t, 54.0, *stats.Stats7D.Accuracy)
}

func TestRecalculateStats_UnlockedAtThreshold(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	// 33 of 60 is exactly 55.0%.
	seedVerified7D(predictionRepo, 60, 33, 2)

	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, &fakeYahooRepo{})
	stats, err := svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.IsUnlocked)
	assert.Contains(t, stats.UnlockReason, "Unlocked")
	require.NotNil(t, stats.HypotheticalReturn)
	assert.Equal(t, 120.0, *stats.HypotheticalReturn)
}

func TestRecalculateStats_AverageExcludesMissingReturns(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	seedVerified7D(predictionRepo, 2, 2, 10)

	// A verified entry without a recorded return must not drag the average.
	p := ledgerEntry("MSFT", entity.DirectionBuy, 100, 10*24*time.Hour)
	p.Outcome7D = entity.PredictionOutcome{Verified: true, Correct: utils.BoolPtr(true)}
	require.NoError(t, predictionRepo.Create(context.Background(), p))

	svc := newTestVerificationService(t, predictionRepo, &fakeStatsRepo{}, &fakeYahooRepo{})
	stats, err := svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Stats7D.VerifiedCount)
	require.NotNil(t, stats.Stats7D.AvgReturnPct)
	assert.Equal(t, 10.0, *stats.Stats7D.AvgReturnPct)
	require.NotNil(t, stats.HypotheticalReturn)
	assert.Equal(t, 20.0, *stats.HypotheticalReturn)
}

func TestRecalculateStats_EmptyLedger(t *testing.T) {
	svc := newTestVerificationService(t, &fakePredictionRepo{}, &fakeStatsRepo{}, &fakeYahooRepo{})
	stats, err := svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalPredictions)
	assert.Nil(t, stats.Stats7D.Accuracy)
	assert.Nil(t, stats.Stats7D.AvgReturnPct)
	assert.Nil(t, stats.HypotheticalReturn)
	assert.False(t, stats.IsUnlocked)
}

func TestSystemStatus(t *testing.T) {
	predictionRepo := &fakePredictionRepo{}
	statsRepo := &fakeStatsRepo{}
	svc := newTestVerificationService(t, predictionRepo, statsRepo, &fakeYahooRepo{})

	// No snapshot yet: observation mode with the gate criteria stated.
	status, err := svc.SystemStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsUnlocked)
	assert.Equal(t, "observation", status.Mode)
	assert.Equal(t, 50, status.UnlockRequirements.MinPredictions)
	assert.Equal(t, 55.0, status.UnlockRequirements.MinAccuracy)

	seedVerified7D(predictionRepo, 60, 40, 3)
	_, err = svc.RecalculateStats(context.Background())
	require.NoError(t, err)

	status, err = svc.SystemStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsUnlocked)
	assert.Equal(t, "active", status.Mode)
	assert.Equal(t, 60, status.UnlockRequirements.CurrentPredictions)
}
