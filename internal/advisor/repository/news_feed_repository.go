package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

// NewsFeedRepository retrieves headlines from the configured RSS sources and
// tags each with the tracked tickers it mentions. A failing feed is skipped,
// never fatal.
type NewsFeedRepository interface {
	FetchAll(ctx context.Context, universe map[string]string) ([]dto.NewsItem, error)
	FetchForTicker(ctx context.Context, ticker string, universe map[string]string, maxItems int) ([]dto.NewsItem, error)
	FetchArticleContent(ctx context.Context, url string) (string, error)
}

var (
	cashtagPattern = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	parenPattern   = regexp.MustCompile(`\(([A-Z]{1,5})\)`)
)

// companyNameStopWords are skipped when picking the significant token of a
// company name for substring matching.
var companyNameStopWords = map[string]struct{}{
	"inc.": {}, "corp.": {}, "company": {}, "corporation": {}, "group": {}, "limited": {},
}

type newsFeedRepository struct {
	cfg       *config.Config
	log       *logger.Logger
	parser    *gofeed.Parser
	client    *http.Client
	feedCache *cache.Cache
}

// NewNewsFeedRepository creates a new RSS news repository.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:       cfg,
		log:       log,
		parser:    gofeed.NewParser(),
		client:    &http.Client{Timeout: 15 * time.Second},
		feedCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// FetchAll retrieves headlines from every configured feed, deduplicated by
// URL. The universe maps ticker to company name for mention matching.
func (r *newsFeedRepository) FetchAll(ctx context.Context, universe map[string]string) ([]dto.NewsItem, error) {
	const cacheKey = "all_news"
	if cached, found := r.feedCache.Get(cacheKey); found {
		return cached.([]dto.NewsItem), nil
	}

	maxPerFeed := r.cfg.News.MaxItemsPerFeed
	if maxPerFeed <= 0 {
		maxPerFeed = 20
	}

	seen := make(map[string]struct{})
	var items []dto.NewsItem

	for _, feedCfg := range r.cfg.News.Feeds {
		feed, err := r.parser.ParseURLWithContext(feedCfg.URL, ctx)
		if err != nil {
			r.log.Warn("Failed to fetch RSS feed", logger.StringField("feed", feedCfg.Name), logger.ErrorField(err))
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			if count >= maxPerFeed {
				break
			}
			count++

			url := strings.TrimSpace(entry.Link)
			title := strings.TrimSpace(entry.Title)
			if url == "" || title == "" {
				continue
			}
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}

			items = append(items, dto.NewsItem{
				Title:            title,
				Source:           feedCfg.Name,
				URL:              url,
				PublishedAt:      parseEntryDate(entry),
				TickersMentioned: ExtractTickers(title, universe),
			})
		}
	}

	r.feedCache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

// FetchForTicker retrieves the most recent headlines mentioning one ticker.
func (r *newsFeedRepository) FetchForTicker(ctx context.Context, ticker string, universe map[string]string, maxItems int) ([]dto.NewsItem, error) {
	all, err := r.FetchAll(ctx, universe)
	if err != nil {
		return nil, err
	}

	var matched []dto.NewsItem
	for _, item := range all {
		for _, t := range item.TickersMentioned {
			if t == ticker {
				matched = append(matched, item)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti, tj := matched[i].PublishedAt, matched[j].PublishedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	if maxItems > 0 && len(matched) > maxItems {
		matched = matched[:maxItems]
	}
	return matched, nil
}

// FetchArticleContent downloads an article page and extracts its readable
// body text.
func (r *newsFeedRepository) FetchArticleContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stockpulse/1.0)")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching article", resp.StatusCode)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	doc, err := readability.NewDocument(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	content := doc.Content()
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content), nil
	}
	return strings.TrimSpace(gq.Text()), nil
}

// ExtractTickers finds tracked tickers mentioned in a text via cashtags,
// parenthesized symbols, and company-name tokens.
func ExtractTickers(text string, universe map[string]string) []string {
	found := make(map[string]struct{})
	textUpper := strings.ToUpper(text)

	for _, match := range cashtagPattern.FindAllStringSubmatch(textUpper, -1) {
		if _, ok := universe[match[1]]; ok {
			found[match[1]] = struct{}{}
		}
	}
	for _, match := range parenPattern.FindAllStringSubmatch(textUpper, -1) {
		if _, ok := universe[match[1]]; ok {
			found[match[1]] = struct{}{}
		}
	}

	textLower := strings.ToLower(text)
	for ticker, name := range universe {
		for _, part := range strings.Fields(strings.ToLower(name)) {
			if _, stop := companyNameStopWords[part]; stop || len(part) <= 3 {
				continue
			}
			if strings.Contains(textLower, part) {
				found[ticker] = struct{}{}
			}
			// Only the first significant word of the name is considered.
			break
		}
	}

	tickers := make([]string, 0, len(found))
	for t := range found {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func parseEntryDate(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		return &t
	}
	if entry.UpdatedParsed != nil {
		t := entry.UpdatedParsed.UTC()
		return &t
	}
	return nil
}
