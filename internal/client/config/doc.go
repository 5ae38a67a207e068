// Package config loads runtime configuration for the quiz CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are YAML, everything else is JSON.
//  3. QUIZ_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   cache DSN
//	-l string   locale (en, pl)
//
// # File schema
//
//	{
//	  "api_base_url": "https://quiz.example.com/api",
//	  "request_timeout": "5s",
//	  "requests_per_second": 5,
//	  "cache_backend": "sqlite",
//	  "cache_dsn": "quizstate.db",
//	  "redis_addr": "",
//	  "locale": "pl",
//	  "log_level": "debug",
//	  "log_backend": "zap"
//	}
//
// # Environment
//
//	QUIZ_API_URL, QUIZ_REQUEST_TIMEOUT ("5s"), QUIZ_RPS, QUIZ_CACHE_BACKEND,
//	QUIZ_CACHE_DSN, QUIZ_REDIS_ADDR, QUIZ_LOCALE, QUIZ_LOG_LEVEL,
//	QUIZ_LOG_BACKEND
package config
