package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/repository"
	"stockpulse/internal/entity"
	"stockpulse/pkg/common"
	"stockpulse/pkg/logger"
	redisPkg "stockpulse/pkg/redis"
	"stockpulse/pkg/telegram"
	"stockpulse/pkg/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// maxPositionFraction caps a single position at 10% of the budget.
var maxPositionFraction = decimal.NewFromFloat(0.10)

// DigestService generates and serves the daily set of top buy/sell picks.
type DigestService interface {
	Generate(ctx context.Context) (*dto.DigestResponse, error)
	GetLatest(ctx context.Context) (*dto.DigestResponse, error)
	GetByDate(ctx context.Context, date string) (*dto.DigestResponse, error)
}

// NewDigestService creates a new digest service.
func NewDigestService(
	cfg *config.Config,
	log *logger.Logger,
	scoring ScoringService,
	stocksRepo repository.StocksRepository,
	digestRepo repository.DigestRepository,
	predictionRepo repository.PredictionRepository,
	stockNewsRepo repository.StockNewsRepository,
	newsFeed repository.NewsFeedRepository,
	redisClient *redisPkg.Client,
	notifier telegram.Notifier,
) DigestService {
	return &digestService{
		cfg:            cfg,
		log:            log,
		scoring:        scoring,
		stocksRepo:     stocksRepo,
		digestRepo:     digestRepo,
		predictionRepo: predictionRepo,
		stockNewsRepo:  stockNewsRepo,
		newsFeed:       newsFeed,
		redisClient:    redisClient,
		notifier:       notifier,
	}
}

type digestService struct {
	cfg            *config.Config
	log            *logger.Logger
	scoring        ScoringService
	stocksRepo     repository.StocksRepository
	digestRepo     repository.DigestRepository
	predictionRepo repository.PredictionRepository
	stockNewsRepo  repository.StockNewsRepository
	newsFeed       repository.NewsFeedRepository
	redisClient    *redisPkg.Client
	notifier       telegram.Notifier
}

// SelectTopPicks ranks a scored universe and extracts the buy and sell
// candidates. Error-flagged entries are dropped, the rest sorted by score
// descending with a stable tie-break on input order. Buys are the first topN
// entries with positive scores. Sells are taken from the last topN positions
// of the same sorted list, filtered to negative scores and reversed so the
// most negative comes first.
func SelectTopPicks(scores []*dto.StockScore, topN int) (buy, sell []*dto.StockScore) {
	valid := make([]*dto.StockScore, 0, len(scores))
	for _, s := range scores {
		if s.Error == "" {
			valid = append(valid, s)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Score > valid[j].Score
	})

	for i := 0; i < len(valid) && i < topN; i++ {
		if valid[i].Score > 0 {
			buy = append(buy, valid[i])
		}
	}

	tailStart := len(valid) - topN
	if tailStart < 0 {
		tailStart = 0
	}
	for i := len(valid) - 1; i >= tailStart; i-- {
		if valid[i].Score < 0 {
			sell = append(sell, valid[i])
		}
	}

	return buy, sell
}

// FormatPick formats one pick with a position size suggestion scaled linearly
// by score confidence against the budget.
func FormatPick(pick *dto.StockScore, budget float64) dto.DigestPick {
	confidence := decimal.NewFromFloat(pick.Score).Abs().Div(decimal.NewFromInt(100))
	suggested := decimal.NewFromFloat(budget).Mul(maxPositionFraction).Mul(confidence)
	suggestedFloat, _ := suggested.Round(2).Float64()

	headlines := pick.NewsHeadlines
	if headlines == nil {
		headlines = []string{}
	}

	return dto.DigestPick{
		Ticker:            pick.Ticker,
		Name:              pick.Name,
		Score:             utils.Round1(pick.Score),
		Signal:            pick.Signal,
		CurrentPrice:      pick.CurrentPrice,
		DayChangePct:      pick.DayChangePct,
		Explanation:       pick.Explanation,
		SuggestedPosition: suggestedFloat,
		NewsHeadlines:     headlines,
		Breakdown:         pick.Breakdown,
	}
}

// Generate scores the full universe, selects the top picks, persists the
// digest and one ledger entry per pick, and publishes the result. A failing
// ticker is skipped, never fatal.
func (s *digestService) Generate(ctx context.Context) (*dto.DigestResponse, error) {
	stocks, err := s.stocksRepo.GetStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked universe: %w", err)
	}
	s.log.Info("Starting digest generation", logger.IntField("universe_size", len(stocks)))

	universe := make(map[string]string, len(stocks))
	for _, stock := range stocks {
		universe[stock.Ticker] = stock.Name
	}

	s.ingestNews(ctx, universe)

	scores := make([]*dto.StockScore, 0, len(stocks))
	for _, stock := range stocks {
		// Abort between tickers on cancellation; scored results stay valid.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		score := s.scoring.Score(ctx, stock.Ticker, stock.Name, stock.Sector, universe)
		scores = append(scores, score)

		if score.Error == "" && score.CurrentPrice != nil {
			if err := s.stocksRepo.UpdateLastPrice(ctx, stock.Ticker, *score.CurrentPrice); err != nil {
				s.log.Warn("Failed to update last price", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
			}
		}
	}

	topN := s.cfg.Digest.TopN
	if topN <= 0 {
		topN = 5
	}
	buyPicks, sellPicks := SelectTopPicks(scores, topN)
	s.log.Info("Selected digest picks",
		logger.IntField("buy_count", len(buyPicks)),
		logger.IntField("sell_count", len(sellPicks)))

	budget := s.cfg.Digest.DefaultBudget
	if budget <= 0 {
		budget = 10000
	}

	data := dto.DigestData{Buy: []dto.DigestPick{}, Sell: []dto.DigestPick{}}
	for _, pick := range buyPicks {
		data.Buy = append(data.Buy, FormatPick(pick, budget))
	}
	for _, pick := range sellPicks {
		data.Sell = append(data.Sell, FormatPick(pick, budget))
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal digest payload: %w", err)
	}

	now := time.Now().UTC()
	date := utils.Today()
	digest := &entity.Digest{
		Date:        date,
		GeneratedAt: now,
		Data:        datatypes.JSON(payload),
	}
	if err := s.digestRepo.Upsert(ctx, digest); err != nil {
		return nil, fmt.Errorf("failed to persist digest: %w", err)
	}

	s.logPredictions(ctx, buyPicks, entity.DirectionBuy, now)
	s.logPredictions(ctx, sellPicks, entity.DirectionSell, now)

	response := &dto.DigestResponse{
		Date:        date,
		GeneratedAt: &now,
		Buy:         data.Buy,
		Sell:        data.Sell,
	}

	s.cacheDigest(ctx, response)
	s.notify(response)

	s.log.Info("Digest generation completed", logger.StringField("date", date))
	return response, nil
}

// logPredictions appends one ledger entry per pick. Picks without a price are
// skipped: there is nothing to verify against later.
func (s *digestService) logPredictions(ctx context.Context, picks []*dto.StockScore, direction string, now time.Time) {
	for _, pick := range picks {
		if pick.CurrentPrice == nil {
			continue
		}
		prediction := &entity.Prediction{
			Ticker:            pick.Ticker,
			CompanyName:       pick.Name,
			Direction:         direction,
			Score:             pick.Score,
			PriceAtPrediction: *pick.CurrentPrice,
			PredictedAt:       now,
		}
		if err := s.predictionRepo.Create(ctx, prediction); err != nil {
			s.log.Error("Failed to log prediction", logger.StringField("ticker", pick.Ticker), logger.ErrorField(err))
			continue
		}
		s.log.Debug("Logged prediction",
			logger.StringField("ticker", pick.Ticker),
			logger.StringField("direction", direction),
			logger.Field("price", *pick.CurrentPrice))
	}
}

// ingestNews stores the current headline set so sentiment inputs are
// auditable after the fact.
func (s *digestService) ingestNews(ctx context.Context, universe map[string]string) {
	items, err := s.newsFeed.FetchAll(ctx, universe)
	if err != nil {
		s.log.Warn("News ingestion failed", logger.ErrorField(err))
		return
	}

	for _, item := range items {
		hash := md5.Sum([]byte(item.URL))
		news := &entity.StockNews{
			Title:          item.Title,
			Link:           item.URL,
			Source:         item.Source,
			PublishedAt:    item.PublishedAt,
			HashIdentifier: hex.EncodeToString(hash[:]),
			TickerMentions: pq.StringArray(item.TickersMentioned),
		}
		if s.cfg.News.FetchContent && len(item.TickersMentioned) > 0 {
			if content, err := s.newsFeed.FetchArticleContent(ctx, item.URL); err == nil {
				news.RawContent = content
			}
		}
		if err := s.stockNewsRepo.Upsert(ctx, news); err != nil {
			s.log.Warn("Failed to store headline", logger.StringField("link", item.URL), logger.ErrorField(err))
		}
	}
}

// GetLatest returns the most recent digest, read through the Redis cache.
func (s *digestService) GetLatest(ctx context.Context) (*dto.DigestResponse, error) {
	if cached := s.cachedDigest(ctx, common.RedisKeyDigestLatest); cached != nil {
		return cached, nil
	}

	digest, err := s.digestRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, nil
	}

	response, err := toDigestResponse(digest)
	if err != nil {
		return nil, err
	}
	s.cacheDigest(ctx, response)
	return response, nil
}

// GetByDate returns the digest for one date, or nil when absent.
func (s *digestService) GetByDate(ctx context.Context, date string) (*dto.DigestResponse, error) {
	key := fmt.Sprintf(common.RedisKeyDigestByDate, date)
	if cached := s.cachedDigest(ctx, key); cached != nil {
		return cached, nil
	}

	digest, err := s.digestRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, nil
	}

	response, err := toDigestResponse(digest)
	if err != nil {
		return nil, err
	}
	s.setCache(ctx, key, response)
	return response, nil
}

func toDigestResponse(digest *entity.Digest) (*dto.DigestResponse, error) {
	var data dto.DigestData
	if err := json.Unmarshal(digest.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digest payload: %w", err)
	}
	generatedAt := digest.GeneratedAt
	return &dto.DigestResponse{
		Date:        digest.Date,
		GeneratedAt: &generatedAt,
		Buy:         data.Buy,
		Sell:        data.Sell,
	}, nil
}

func (s *digestService) cachedDigest(ctx context.Context, key string) *dto.DigestResponse {
	if s.redisClient == nil {
		return nil
	}
	raw, err := s.redisClient.Client.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var response dto.DigestResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return nil
	}
	return &response
}

func (s *digestService) cacheDigest(ctx context.Context, response *dto.DigestResponse) {
	s.setCache(ctx, common.RedisKeyDigestLatest, response)
	s.setCache(ctx, fmt.Sprintf(common.RedisKeyDigestByDate, response.Date), response)
}

func (s *digestService) setCache(ctx context.Context, key string, response *dto.DigestResponse) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	ttl, err := time.ParseDuration(common.RedisDigestCacheTTL)
	if err != nil {
		ttl = 10 * time.Minute
	}
	if err := s.redisClient.Client.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.log.Debug("Failed to cache digest", logger.StringField("key", key), logger.ErrorField(err))
	}
}

func (s *digestService) notify(response *dto.DigestResponse) {
	if s.notifier == nil {
		return
	}
	message := telegram.FormatDigest(response.Date, response.Buy, response.Sell)
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Warn("Failed to send digest notification", logger.ErrorField(err))
	}
}
