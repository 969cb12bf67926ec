package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxLeadsPerRequest caps num_leads regardless of what the caller asks for.
	MaxLeadsPerRequest = 100

	defaultBrowserUseBaseURL = "https://api.browser-use.com/api/v2"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// ProviderConfig holds the browser-automation provider settings.
type ProviderConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	Timeout      time.Duration
}

// Configured reports whether a provider credential was supplied.
func (p ProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port             string
	Provider         ProviderConfig
	RateLimitLeads   RateLimitConfig
	DefaultLeadCount int
	PhoneRegion      string
	LogLevel         string
	LogFormat        string
	TokenSecret      string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "5000"),
		Provider: ProviderConfig{
			APIKey:  strings.TrimSpace(os.Getenv("BROWSER_USE_API_KEY")),
			BaseURL: strings.TrimRight(getEnv("BROWSER_USE_BASE_URL", defaultBrowserUseBaseURL), "/"),
		},
		PhoneRegion: strings.ToUpper(strings.TrimSpace(os.Getenv("LEADS_PHONE_REGION"))),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
		TokenSecret: os.Getenv("API_TOKEN_SECRET"),
	}

	poll, err := parseDuration(getEnv("PROVIDER_POLL_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_POLL_INTERVAL value: %w", err)
	}
	cfg.Provider.PollInterval = poll

	timeout, err := parseDuration(getEnv("PROVIDER_TIMEOUT", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT value: %w", err)
	}
	cfg.Provider.Timeout = timeout

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_LEADS", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LEADS value: %w", err)
	}
	cfg.RateLimitLeads = rl

	count, err := strconv.Atoi(getEnv("LEADS_DEFAULT_COUNT", "20"))
	if err != nil || count <= 0 || count > MaxLeadsPerRequest {
		return nil, fmt.Errorf("invalid LEADS_DEFAULT_COUNT value: must be between 1 and %d", MaxLeadsPerRequest)
	}
	cfg.DefaultLeadCount = count

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", input)
	}
	return d, nil
}
