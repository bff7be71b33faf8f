package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	NATSURL           string
	NATSSubject       string
	AnalyticsCacheTTL time.Duration
	ResultCachePrefix string
	ComparisonTimeout time.Duration
	PriorHistoryLimit int
	OpenAIAPIKey      string
	OpenAIModel       string
	ReviewerEnabled   bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADELENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GradeLens API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "gradelens.plagiarism")
	v.SetDefault("analytics.cache_ttl", "5m")
	v.SetDefault("result_cache.prefix", "graderesult")
	v.SetDefault("comparison_timeout_ms", 5000)
	v.SetDefault("prior_history_limit", 10)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("reviewer.enabled", false)

	ttlString := v.GetString("analytics.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid analytics cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("comparison_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		NATSURL:           v.GetString("nats.url"),
		NATSSubject:       v.GetString("nats.subject"),
		AnalyticsCacheTTL: ttl,
		ResultCachePrefix: v.GetString("result_cache.prefix"),
		ComparisonTimeout: time.Duration(timeoutMs) * time.Millisecond,
		PriorHistoryLimit: v.GetInt("prior_history_limit"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		ReviewerEnabled:   v.GetBool("reviewer.enabled"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.PriorHistoryLimit <= 0 {
		cfg.PriorHistoryLimit = 10
	}

	return cfg, nil
}
