package service

import (
	"context"
	"fmt"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/repository"
	"stockpulse/internal/entity"
	"stockpulse/pkg/logger"
	"stockpulse/pkg/utils"
)

// Unlock gate thresholds. The system stays in observation mode until the
// 7-day horizon has a long enough and accurate enough track record.
const (
	unlockMinVerified7D = 50
	unlockMinAccuracy7D = 55.0

	defaultMaxErrorList = 20
	defaultHistoryLimit = 50
)

// VerificationService checks matured predictions against realized prices and
// maintains the aggregate track record.
type VerificationService interface {
	RunVerification(ctx context.Context) (*dto.VerificationRunResult, error)
	RecalculateStats(ctx context.Context) (*entity.VerificationStats, error)
	LatestStats(ctx context.Context) (*dto.StatsResponse, error)
	PredictionHistory(ctx context.Context, limit int) ([]dto.PredictionResponse, error)
	SystemStatus(ctx context.Context) (*dto.SystemStatusResponse, error)
}

// NewVerificationService creates a new verification service.
func NewVerificationService(
	cfg *config.Config,
	log *logger.Logger,
	predictionRepo repository.PredictionRepository,
	statsRepo repository.VerificationStatsRepository,
	yahooRepo repository.YahooFinanceRepository,
) VerificationService {
	return &verificationService{
		cfg:            cfg,
		log:            log,
		predictionRepo: predictionRepo,
		statsRepo:      statsRepo,
		yahooRepo:      yahooRepo,
	}
}

type verificationService struct {
	cfg            *config.Config
	log            *logger.Logger
	predictionRepo repository.PredictionRepository
	statsRepo      repository.VerificationStatsRepository
	yahooRepo      repository.YahooFinanceRepository
}

// RunVerification resolves every matured, still-pending (prediction, horizon)
// pair. A pair whose price fetch fails stays pending and is retried on the
// next run. Stats are recomputed afterwards when anything changed.
func (s *verificationService) RunVerification(ctx context.Context) (*dto.VerificationRunResult, error) {
	result := &dto.VerificationRunResult{Errors: []string{}}
	maxErrors := s.cfg.Verification.MaxErrorList
	if maxErrors <= 0 {
		maxErrors = defaultMaxErrorList
	}

	now := time.Now().UTC()
	verifiedTotal := 0
	for _, horizon := range entity.Horizons {
		pending, err := s.predictionRepo.FindPending(ctx, horizon, now.Add(-horizon.Duration()))
		if err != nil {
			return nil, fmt.Errorf("failed to load pending predictions for %s: %w", horizon, err)
		}
		if len(pending) == 0 {
			continue
		}
		s.log.Info("Verifying matured predictions",
			logger.StringField("horizon", string(horizon)),
			logger.IntField("pending", len(pending)))

		for i := range pending {
			prediction := &pending[i]
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if err := s.verifyOne(ctx, prediction, horizon); err != nil {
				if len(result.Errors) < maxErrors {
					result.Errors = append(result.Errors,
						fmt.Sprintf("%s (%s): %v", prediction.Ticker, horizon, err))
				}
				continue
			}
			verifiedTotal++
			switch horizon {
			case entity.Horizon1D:
				result.Verified1D++
			case entity.Horizon7D:
				result.Verified7D++
			case entity.Horizon30D:
				result.Verified30D++
			}
		}
	}

	if verifiedTotal > 0 {
		if _, err := s.RecalculateStats(ctx); err != nil {
			s.log.Error("Failed to recalculate stats after verification", logger.ErrorField(err))
		}
	}
	return result, nil
}

// verifyOne grades a single prediction against the current price for one
// horizon. A buy is correct when the price rose, a sell when it fell; the
// attributed return for a sell is the negated price change.
func (s *verificationService) verifyOne(ctx context.Context, prediction *entity.Prediction, horizon entity.Horizon) error {
	quote, err := s.yahooRepo.GetQuote(ctx, prediction.Ticker)
	if err != nil {
		return err
	}
	if quote.Price == nil {
		return dto.ErrNoData
	}

	priceAfter := *quote.Price
	changePct := (priceAfter - prediction.PriceAtPrediction) / prediction.PriceAtPrediction * 100

	correct := changePct > 0
	returnPct := changePct
	if prediction.Direction == entity.DirectionSell {
		correct = changePct < 0
		returnPct = -changePct
	}

	outcome := prediction.Outcome(horizon)
	outcome.Verified = true
	outcome.PriceAfter = utils.Float64Ptr(priceAfter)
	outcome.Correct = utils.BoolPtr(correct)
	outcome.ReturnPct = utils.Float64Ptr(utils.Round2(returnPct))

	if err := s.predictionRepo.MarkVerified(ctx, prediction, horizon); err != nil {
		return err
	}
	s.log.Debug("Verified prediction",
		logger.IntField("prediction_id", int(prediction.ID)),
		logger.StringField("ticker", prediction.Ticker),
		logger.StringField("horizon", string(horizon)),
		logger.Field("correct", correct))
	return nil
}

// RecalculateStats recomputes the full track record from the ledger and
// appends it as a new immutable snapshot.
func (s *verificationService) RecalculateStats(ctx context.Context) (*entity.VerificationStats, error) {
	total, err := s.predictionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	stats := &entity.VerificationStats{TotalPredictions: int(total)}
	for _, horizon := range entity.Horizons {
		verified, err := s.predictionRepo.FindVerified(ctx, horizon)
		if err != nil {
			return nil, fmt.Errorf("failed to load verified predictions for %s: %w", horizon, err)
		}
		block := stats.HorizonStats(horizon)
		*block = computeHorizonStats(verified, horizon)

		if horizon == entity.Horizon7D {
			stats.HypotheticalReturn = sumReturns(verified, horizon)
		}
	}

	stats.IsUnlocked, stats.UnlockReason = evaluateUnlock(&stats.Stats7D)

	if err := s.statsRepo.Append(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to store stats snapshot: %w", err)
	}
	s.log.Info("Recalculated verification stats",
		logger.IntField("total_predictions", stats.TotalPredictions),
		logger.IntField("verified_7d", stats.Stats7D.VerifiedCount),
		logger.Field("is_unlocked", stats.IsUnlocked))
	return stats, nil
}

// computeHorizonStats derives accuracy and average return for one horizon.
// Entries verified without a recorded return are excluded from the average.
func computeHorizonStats(verified []entity.Prediction, horizon entity.Horizon) entity.HorizonStats {
	block := entity.HorizonStats{VerifiedCount: len(verified)}

	returnSum := 0.0
	returnCount := 0
	for i := range verified {
		outcome := verified[i].Outcome(horizon)
		if outcome.Correct != nil && *outcome.Correct {
			block.CorrectCount++
		}
		if outcome.ReturnPct != nil {
			returnSum += *outcome.ReturnPct
			returnCount++
		}
	}

	if block.VerifiedCount > 0 {
		block.Accuracy = utils.Float64Ptr(utils.Round2(float64(block.CorrectCount) / float64(block.VerifiedCount) * 100))
	}
	if returnCount > 0 {
		block.AvgReturnPct = utils.Float64Ptr(utils.Round2(returnSum / float64(returnCount)))
	}
	return block
}

// sumReturns totals the recorded returns for one horizon, or nil when none
// exist yet.
func sumReturns(verified []entity.Prediction, horizon entity.Horizon) *float64 {
	sum := 0.0
	count := 0
	for i := range verified {
		outcome := verified[i].Outcome(horizon)
		if outcome.ReturnPct != nil {
			sum += *outcome.ReturnPct
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return utils.Float64Ptr(utils.Round2(sum))
}

// evaluateUnlock applies the gate on the 7-day track record.
func evaluateUnlock(stats7d *entity.HorizonStats) (bool, string) {
	if stats7d.VerifiedCount < unlockMinVerified7D {
		return false, fmt.Sprintf("Need %d more verified 7-day predictions (have %d of %d)",
			unlockMinVerified7D-stats7d.VerifiedCount, stats7d.VerifiedCount, unlockMinVerified7D)
	}
	if stats7d.Accuracy == nil || *stats7d.Accuracy < unlockMinAccuracy7D {
		accuracy := 0.0
		if stats7d.Accuracy != nil {
			accuracy = *stats7d.Accuracy
		}
		return false, fmt.Sprintf("7-day accuracy %.1f%% is below the required %.1f%%",
			accuracy, unlockMinAccuracy7D)
	}
	return true, fmt.Sprintf("Unlocked: %d verified 7-day predictions at %.1f%% accuracy",
		stats7d.VerifiedCount, *stats7d.Accuracy)
}

// LatestStats returns the most recent snapshot, or a zero-valued response
// when nothing has been computed yet.
func (s *verificationService) LatestStats(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := s.statsRepo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		_, reason := evaluateUnlock(&entity.HorizonStats{})
		return &dto.StatsResponse{UnlockReason: reason}, nil
	}
	return toStatsResponse(stats), nil
}

func toStatsResponse(stats *entity.VerificationStats) *dto.StatsResponse {
	calculatedAt := stats.CalculatedAt
	return &dto.StatsResponse{
		TotalPredictions:   stats.TotalPredictions,
		Verified1D:         stats.Stats1D.VerifiedCount,
		Verified7D:         stats.Stats7D.VerifiedCount,
		Verified30D:        stats.Stats30D.VerifiedCount,
		Accuracy1D:         stats.Stats1D.Accuracy,
		Accuracy7D:         stats.Stats7D.Accuracy,
		Accuracy30D:        stats.Stats30D.Accuracy,
		AvgReturn1D:        stats.Stats1D.AvgReturnPct,
		AvgReturn7D:        stats.Stats7D.AvgReturnPct,
		AvgReturn30D:       stats.Stats30D.AvgReturnPct,
		HypotheticalReturn: stats.HypotheticalReturn,
		IsUnlocked:         stats.IsUnlocked,
		UnlockReason:       stats.UnlockReason,
		LastUpdated:        &calculatedAt,
	}
}

// PredictionHistory returns the most recent ledger entries with their
// per-horizon verification status.
func (s *verificationService) PredictionHistory(ctx context.Context, limit int) ([]dto.PredictionResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	predictions, err := s.predictionRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PredictionResponse, 0, len(predictions))
	for i := range predictions {
		p := &predictions[i]
		responses = append(responses, dto.PredictionResponse{
			ID:                p.ID,
			Ticker:            p.Ticker,
			CompanyName:       p.CompanyName,
			Direction:         p.Direction,
			Score:             p.Score,
			PredictedAt:       p.PredictedAt,
			PriceAtPrediction: p.PriceAtPrediction,
			Outcome1D:         toOutcomeResponse(&p.Outcome1D),
			Outcome7D:         toOutcomeResponse(&p.Outcome7D),
			Outcome30D:        toOutcomeResponse(&p.Outcome30D),
		})
	}
	return responses, nil
}

func toOutcomeResponse(outcome *entity.PredictionOutcome) dto.HorizonOutcomeResponse {
	return dto.HorizonOutcomeResponse{
		Verified:   outcome.Verified,
		PriceAfter: outcome.PriceAfter,
		Correct:    outcome.Correct,
		ReturnPct:  outcome.ReturnPct,
	}
}

// SystemStatus reports whether recommendations should be treated as
// actionable. Until the unlock gate passes the system presents itself as
// observational.
func (s *verificationService) SystemStatus(ctx context.Context) (*dto.SystemStatusResponse, error) {
	stats, err := s.statsRepo.Latest(ctx)
	if err != nil {
		return nil, err
	}

	response := &dto.SystemStatusResponse{
		Mode:    "observation",
		Message: "Track record is still being established. Recommendations are informational only.",
		UnlockRequirements: dto.UnlockRequirements{
			MinPredictions: unlockMinVerified7D,
			MinAccuracy:    unlockMinAccuracy7D,
		},
	}
	if stats == nil {
		return response, nil
	}

	response.Stats = toStatsResponse(stats)
	response.UnlockRequirements.CurrentPredictions = stats.Stats7D.VerifiedCount
	response.UnlockRequirements.CurrentAccuracy = stats.Stats7D.Accuracy
	if stats.IsUnlocked {
		response.IsUnlocked = true
		response.Mode = "active"
		response.Message = "Verified track record meets the unlock criteria."
	}
	return response, nil
}
