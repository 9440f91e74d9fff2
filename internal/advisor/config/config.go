package config

import (
	"stockpulse/pkg/config"
)

// Auth holds JWT authentication configuration.
type Auth struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenLifetime string `mapstructure:"token_lifetime"`
}

// YahooFinance holds the configuration for the Yahoo Finance API client.
type YahooFinance struct {
	ChartBaseURL        string `mapstructure:"chart_base_url"`
	QuoteSummaryBaseURL string `mapstructure:"quote_summary_base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       string `mapstructure:"quote_cache_ttl"`
	HistoryCacheTTL     string `mapstructure:"history_cache_ttl"`
}

// NewsFeed identifies one RSS source.
type NewsFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// News holds the RSS retrieval configuration.
type News struct {
	Feeds           []NewsFeed `mapstructure:"feeds"`
	MaxItemsPerFeed int        `mapstructure:"max_items_per_feed"`
	FetchContent    bool       `mapstructure:"fetch_content"`
}

// Digest holds digest generation configuration.
type Digest struct {
	TopN          int     `mapstructure:"top_n"`
	DefaultBudget float64 `mapstructure:"default_budget"`
	CronSpec      string  `mapstructure:"cron_spec"`
}

// Verification holds verification pass configuration.
type Verification struct {
	CronSpec     string `mapstructure:"cron_spec"`
	MaxErrorList int    `mapstructure:"max_error_list"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Auth         Auth            `mapstructure:"auth"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	News         News            `mapstructure:"news"`
	Digest       Digest          `mapstructure:"digest"`
	Verification Verification    `mapstructure:"verification"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the advisor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
