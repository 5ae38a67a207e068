package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// envConfig maps QUIZ_* variables. Unset variables keep the value the
// struct was seeded with.
type envConfig struct {
	APIBaseURL        string        `env:"QUIZ_API_URL"`
	RequestTimeout    time.Duration `env:"QUIZ_REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `env:"QUIZ_RPS"`
	CacheBackend      string        `env:"QUIZ_CACHE_BACKEND"`
	CacheDSN          string        `env:"QUIZ_CACHE_DSN"`
	RedisAddr         string        `env:"QUIZ_REDIS_ADDR"`
	Locale            string        `env:"QUIZ_LOCALE"`
	LogLevel          string        `env:"QUIZ_LOG_LEVEL"`
	LogBackend        string        `env:"QUIZ_LOG_BACKEND"`
}

func parseEnv(cfg *Config) error {
	ec := envConfig{
		APIBaseURL:        cfg.APIBaseURL,
		RequestTimeout:    cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CacheBackend:      cfg.CacheBackend,
		CacheDSN:          cfg.CacheDSN,
		RedisAddr:         cfg.RedisAddr,
		Locale:            cfg.Locale,
		LogLevel:          cfg.LogLevel,
		LogBackend:        cfg.LogBackend,
	}

	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("decode environment: %w", err)
	}

	cfg.APIBaseURL = ec.APIBaseURL
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.RequestsPerSecond = ec.RequestsPerSecond
	cfg.CacheBackend = ec.CacheBackend
	cfg.CacheDSN = ec.CacheDSN
	cfg.RedisAddr = ec.RedisAddr
	cfg.Locale = ec.Locale
	cfg.LogLevel = ec.LogLevel
	cfg.LogBackend = ec.LogBackend
	return nil
}
