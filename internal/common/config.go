// Package common provides shared utilities for Kabutaro
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Kabutaro
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Market      MarketConfig   `toml:"market"`
	Registry    RegistryConfig `toml:"registry"`
	Clients     ClientsConfig  `toml:"clients"`
	Ranking     RankingConfig  `toml:"ranking"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port" validate:"gt=0,lt=65536"`
	APIToken string `toml:"api_token"` // bearer token for operator-only endpoints; empty disables them
}

// MarketConfig describes the single market the bot resolves symbols against.
type MarketConfig struct {
	Suffix   string `toml:"suffix" validate:"required"`   // appended to 4-digit codes, e.g. ".T"
	Exchange string `toml:"exchange" validate:"required"` // exchange tag in search results, e.g. "JPX"
}

// RegistryConfig holds the location of the static ticker registry.
type RegistryConfig struct {
	Path string `toml:"path" validate:"required"` // .json, .yaml or .yml
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo   YahooConfig          `toml:"yahoo"`
	Finnhub FinnhubConfig        `toml:"finnhub"`
	YahooJP YahooJPConfig        `toml:"yahoojp"`
	Line    LineConfig           `toml:"line"`
	Quote   QuoteProviderConfig  `toml:"quote"`
	Search  SearchProviderConfig `toml:"search"`
}

// QuoteProviderConfig selects the Quote collaborator.
type QuoteProviderConfig struct {
	Provider string `toml:"provider" validate:"oneof=yahoo financego"`
}

// SearchProviderConfig selects the Search collaborator.
type SearchProviderConfig struct {
	Provider string `toml:"provider" validate:"oneof=yahoo index"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	CookieURL string `toml:"cookie_url"`
	RateLimit int    `toml:"rate_limit" validate:"gt=0"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout)
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Exchange  string `toml:"exchange"`
	RateLimit int    `toml:"rate_limit" validate:"gt=0"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout)
}

// YahooJPConfig holds configuration for the Yahoo!ファイナンス ranking pages.
type YahooJPConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit" validate:"gt=0"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooJPConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout)
}

// LineConfig holds LINE Messaging API configuration
type LineConfig struct {
	BaseURL            string `toml:"base_url"`
	ChannelAccessToken string `toml:"channel_access_token"`
	ChannelSecret      string `toml:"channel_secret"`
	RateLimit          int    `toml:"rate_limit" validate:"gt=0"`
	Timeout            string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *LineConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout)
}

// RankingConfig holds the scheduled movers digest configuration.
type RankingConfig struct {
	Provider      string `toml:"provider" validate:"oneof=finnhub yahoojp"`
	Kind          string `toml:"kind" validate:"oneof=gainers losers volume"`
	Limit         int    `toml:"limit" validate:"gt=0"`
	Schedule      string `toml:"schedule" validate:"required_if=Enabled true"`
	Enabled       bool   `toml:"enabled"`
	PushOnStartup bool   `toml:"push_on_startup"`
	UserID        string `toml:"user_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// Provider names accepted in [clients.quote] and [clients.search].
const (
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
	ProviderIndex     = "index"
)

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Market: MarketConfig{
			Suffix:   ".T",
			Exchange: "JPX",
		},
		Registry: RegistryConfig{
			Path: "data/japan_tickers.json",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				CookieURL: "https://fc.yahoo.com",
				RateLimit: 5,
				Timeout:   "15s",
			},
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				Exchange:  "TO",
				RateLimit: 1,
				Timeout:   "15s",
			},
			YahooJP: YahooJPConfig{
				BaseURL:   "https://finance.yahoo.co.jp",
				RateLimit: 1,
				Timeout:   "15s",
			},
			Line: LineConfig{
				BaseURL:   "https://api.line.me",
				RateLimit: 10,
				Timeout:   "10s",
			},
			Quote:  QuoteProviderConfig{Provider: ProviderYahoo},
			Search: SearchProviderConfig{Provider: ProviderYahoo},
		},
		Ranking: RankingConfig{
			Provider: "finnhub",
			Kind:     "gainers",
			Limit:    5,
			Schedule: "0 0 * * *", // 09:00 JST
			Enabled:  true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/kabutaro.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("KABUTARO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("KABUTARO_HOST"); host != "" {
		config.Server.Host = host
	}

	// PORT is what most PaaS runtimes inject; KABUTARO_PORT wins when both are set
	for _, name := range []string{"PORT", "KABUTARO_PORT"} {
		if port := os.Getenv(name); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
		}
	}

	if level := os.Getenv("KABUTARO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("KABUTARO_REGISTRY_PATH"); path != "" {
		config.Registry.Path = path
	}

	if v := os.Getenv("CHANNEL_ACCESS_TOKEN"); v != "" {
		config.Clients.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("CHANNEL_SECRET"); v != "" {
		config.Clients.Line.ChannelSecret = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		config.Clients.Finnhub.APIKey = v
	}
	if v := os.Getenv("KABUTARO_API_TOKEN"); v != "" {
		config.Server.APIToken = v
	}
	if v := os.Getenv("KABUTARO_PUSH_USER_ID"); v != "" {
		config.Ranking.UserID = v
	}

	if v := os.Getenv("KABUTARO_QUOTE_PROVIDER"); v != "" {
		config.Clients.Quote.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("KABUTARO_SEARCH_PROVIDER"); v != "" {
		config.Clients.Search.Provider = strings.ToLower(v)
	}
}

// Validate checks the struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ValidateRequired returns the names of settings the bot cannot serve traffic without.
// An empty result means the LINE channel is fully configured.
func (c *Config) ValidateRequired() []string {
	var missing []string
	if c.Clients.Line.ChannelAccessToken == "" {
		missing = append(missing, "clients.line.channel_access_token")
	}
	if c.Clients.Line.ChannelSecret == "" {
		missing = append(missing, "clients.line.channel_secret")
	}
	if c.Ranking.Enabled && c.Ranking.UserID == "" {
		missing = append(missing, "ranking.user_id")
	}
	if c.Ranking.Enabled && c.Ranking.Provider == "finnhub" && c.Clients.Finnhub.APIKey == "" {
		missing = append(missing, "clients.finnhub.api_key")
	}
	return missing
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseTimeout(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
