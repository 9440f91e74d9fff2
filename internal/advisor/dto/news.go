package dto

import (
	"time"
)

// NewsItem is a single retrieved headline with the tickers it mentions.
type NewsItem struct {
	Title            string     `json:"title"`
	Source           string     `json:"source"`
	URL              string     `json:"url"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	TickersMentioned []string   `json:"tickers_mentioned"`
}
