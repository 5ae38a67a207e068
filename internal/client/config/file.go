package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/quizstate/internal/flagx"
	"github.com/dmitrijs2005/quizstate/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Durations
// use timex.Duration, so files may say "3s" or give integer nanoseconds.
// Zero values leave the current setting alone.
type FileConfig struct {
	APIBaseURL        string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout    timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond float64        `json:"requests_per_second" yaml:"requests_per_second"`
	CacheBackend      string         `json:"cache_backend" yaml:"cache_backend"`
	CacheDSN          string         `json:"cache_dsn" yaml:"cache_dsn"`
	RedisAddr         string         `json:"redis_addr" yaml:"redis_addr"`
	Locale            string         `json:"locale" yaml:"locale"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	LogBackend        string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile overlays cfg with the file given by -c/-config. Files ending in
// .yaml or .yml are YAML, anything else is JSON. No flag, no change.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = fc.RequestsPerSecond
	}
	setString(&cfg.CacheBackend, fc.CacheBackend)
	setString(&cfg.CacheDSN, fc.CacheDSN)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.Locale, fc.Locale)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogBackend, fc.LogBackend)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
