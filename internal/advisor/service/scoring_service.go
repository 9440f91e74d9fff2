package service

import (
	"context"
	"fmt"
	"strings"

	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/repository"
	"stockpulse/pkg/logger"
)

// Factor weights of the composite score. They sum to 1.0.
const (
	technicalWeight   = 0.40
	sentimentWeight   = 0.30
	fundamentalWeight = 0.30
)

const maxHeadlinesPerTicker = 10

// ScoringService combines technical, sentiment, and fundamental signals into
// one composite score in [-100, 100] with a discrete signal label.
type ScoringService interface {
	Score(ctx context.Context, ticker, name string, sector *string, universe map[string]string) *dto.StockScore
}

// NewScoringService creates a new scoring service.
func NewScoringService(
	log *logger.Logger,
	yahooFinance repository.YahooFinanceRepository,
	newsFeed repository.NewsFeedRepository,
	stockNews repository.StockNewsRepository,
	sentiment *SentimentAnalyzer,
	fundamental *FundamentalAnalyzer,
) ScoringService {
	return &scoringService{
		log:          log,
		yahooFinance: yahooFinance,
		newsFeed:     newsFeed,
		stockNews:    stockNews,
		sentiment:    sentiment,
		fundamental:  fundamental,
	}
}

type scoringService struct {
	log          *logger.Logger
	yahooFinance repository.YahooFinanceRepository
	newsFeed     repository.NewsFeedRepository
	stockNews    repository.StockNewsRepository
	sentiment    *SentimentAnalyzer
	fundamental  *FundamentalAnalyzer
}

// Score evaluates one ticker. A failed market data lookup downgrades the
// ticker to a neutral zero-score result carrying the error; it never aborts
// the caller's batch.
func (s *scoringService) Score(ctx context.Context, ticker, name string, sector *string, universe map[string]string) *dto.StockScore {
	quote, err := s.yahooFinance.GetQuote(ctx, ticker)
	if err != nil {
		s.log.Warn("Market data unavailable", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return errorScore(ticker, name, err)
	}

	history, err := s.yahooFinance.GetHistory(ctx, ticker, "3mo")
	if err != nil {
		s.log.Debug("No price history", logger.StringField("ticker", ticker), logger.ErrorField(err))
		history = nil
	}
	yearHistory, err := s.yahooFinance.GetHistory(ctx, ticker, "1y")
	if err != nil {
		yearHistory = nil
	}
	technicals := EvaluateTechnicals(ticker, history, yearHistory)

	headlines := s.headlinesFor(ctx, ticker, universe)

	// No headlines means "no information", which is neutral.
	sentimentScore := 0.0
	if agg := s.sentiment.Aggregate(headlines); agg != nil {
		sentimentScore = *agg
	}

	fundamentalScore := s.fundamental.Score(quote.PERatio, sector)

	technicalScore := technicals.Score
	composite := (technicalScore*technicalWeight +
		sentimentScore*sentimentWeight +
		fundamentalScore*fundamentalWeight) * 100

	topHeadlines := headlines
	if len(topHeadlines) > 3 {
		topHeadlines = topHeadlines[:3]
	}

	return &dto.StockScore{
		Ticker: ticker,
		Name:   name,
		Score:  composite,
		Signal: SignalFromScore(composite),
		Breakdown: dto.ScoreBreakdown{
			Technical:   breakdownComponent(technicalScore, technicalWeight),
			Sentiment:   breakdownComponent(sentimentScore, sentimentWeight),
			Fundamental: breakdownComponent(fundamentalScore, fundamentalWeight),
		},
		CurrentPrice:  quote.Price,
		DayChangePct:  quote.DayChangePct,
		PERatio:       quote.PERatio,
		NewsHeadlines: topHeadlines,
		Explanation:   buildExplanation(ticker, name, composite, technicals, sentimentScore, fundamentalScore),
	}
}

// headlinesFor gathers sentiment input for one ticker. Stored headlines from
// earlier ingestion passes come first; the live feed cache is only consulted
// when nothing is stored yet.
func (s *scoringService) headlinesFor(ctx context.Context, ticker string, universe map[string]string) []string {
	var headlines []string

	stored, err := s.stockNews.FindForTicker(ctx, ticker, maxHeadlinesPerTicker)
	if err != nil {
		s.log.Warn("Stored news lookup failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
	}
	for _, item := range stored {
		headlines = append(headlines, item.Title)
	}
	if len(headlines) > 0 {
		return headlines
	}

	news, err := s.newsFeed.FetchForTicker(ctx, ticker, universe, maxHeadlinesPerTicker)
	if err != nil {
		s.log.Warn("News fetch failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return headlines
	}
	for _, item := range news {
		headlines = append(headlines, item.Title)
	}
	return headlines
}

// SignalFromScore maps a composite score onto its discrete label.
func SignalFromScore(score float64) string {
	switch {
	case score >= 60:
		return "Strong Buy"
	case score >= 30:
		return "Buy"
	case score >= -30:
		return "Hold"
	case score >= -60:
		return "Sell"
	default:
		return "Strong Sell"
	}
}

func breakdownComponent(score, weight float64) dto.BreakdownComponent {
	return dto.BreakdownComponent{
		Score:        score,
		Weight:       weight,
		Contribution: score * weight,
	}
}

func errorScore(ticker, name string, err error) *dto.StockScore {
	return &dto.StockScore{
		Ticker: ticker,
		Name:   name,
		Score:  0,
		Signal: "Hold",
		Breakdown: dto.ScoreBreakdown{
			Technical:   dto.BreakdownComponent{Weight: technicalWeight},
			Sentiment:   dto.BreakdownComponent{Weight: sentimentWeight},
			Fundamental: dto.BreakdownComponent{Weight: fundamentalWeight},
		},
		NewsHeadlines: []string{},
		Explanation:   fmt.Sprintf("No data available for %s", ticker),
		Error:         err.Error(),
	}
}

// buildExplanation generates the human-readable rationale. It is a pure
// function of its inputs: identical inputs always yield identical text.
func buildExplanation(ticker, name string, score float64, technicals dto.TechnicalSignals, sentimentScore, fundamentalScore float64) string {
	var parts []string

	switch {
	case score >= 30:
		parts = append(parts, fmt.Sprintf("%s (%s) has a positive signal.", name, ticker))
	case score <= -30:
		parts = append(parts, fmt.Sprintf("%s (%s) has a negative signal.", name, ticker))
	default:
		parts = append(parts, fmt.Sprintf("%s (%s) is currently neutral.", name, ticker))
	}

	if technicals.OverallSignal != "" && technicals.OverallSignal != "Neutral" {
		if strings.Contains(technicals.OverallSignal, "Bullish") && technicals.RSI != nil {
			parts = append(parts, fmt.Sprintf("Technical picture is %s with RSI at %.0f.", strings.ToLower(technicals.OverallSignal), *technicals.RSI))
		} else {
			parts = append(parts, fmt.Sprintf("Technical picture is %s.", strings.ToLower(technicals.OverallSignal)))
		}
	}

	if sentimentScore > 0.2 {
		parts = append(parts, "News sentiment is positive.")
	} else if sentimentScore < -0.2 {
		parts = append(parts, "News sentiment is negative.")
	}

	if fundamentalScore > 0.2 {
		parts = append(parts, "Valuation is attractive versus the sector.")
	} else if fundamentalScore < -0.2 {
		parts = append(parts, "Valuation is expensive versus the sector.")
	}

	return strings.Join(parts, " ")
}
