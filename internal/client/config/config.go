package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/logging"
)

// Cache backends.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Config holds runtime settings for the quiz CLI.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	RequestsPerSecond float64

	CacheBackend string
	CacheDSN     string
	RedisAddr    string

	Locale     string
	LogLevel   string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 0
	c.CacheBackend = CacheSQLite
	c.CacheDSN = "quizstate.db"
	c.RedisAddr = ""
	c.Locale = "en"
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
}

// Load builds a Config from defaults, then the config file named by -c or
// -config, then QUIZ_* environment variables, then flags. Later sources
// win. args are the command-line arguments without the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var errInvalid = errors.New("invalid config")

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: api base url is empty", errInvalid)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", errInvalid, c.RequestTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", errInvalid)
	}
	switch c.CacheBackend {
	case CacheSQLite:
		if c.CacheDSN == "" {
			return fmt.Errorf("%w: sqlite cache needs a dsn", errInvalid)
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis cache needs an address", errInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", errInvalid, c.CacheBackend)
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		return fmt.Errorf("%w: unknown log backend %q", errInvalid, c.LogBackend)
	}
	return nil
}
