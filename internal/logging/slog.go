package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// SlogLogger is the default Logger, backed by log/slog. When built by
// NewSlogText it owns its level, which SetLevel can move at runtime.
type SlogLogger struct {
	l     *slog.Logger
	level *slog.LevelVar
}

// NewSlogLogger wraps an existing slog logger; filtering is left to its
// handler.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

// NewSlogText writes text records to w, dropping those below level
// ("debug", "info", "warn", "error").
func NewSlogText(w io.Writer, level string) (*SlogLogger, error) {
	lv := new(slog.LevelVar)
	if err := setLevel(lv, level); err != nil {
		return nil, err
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	return &SlogLogger{l: slog.New(h), level: lv}, nil
}

func setLevel(lv *slog.LevelVar, level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	lv.Set(l)
	return nil
}

// SetLevel changes the threshold of a logger built by NewSlogText and of
// every child made from it with With.
func (s *SlogLogger) SetLevel(level string) error {
	if s.level == nil {
		return errors.New("log level is owned by the wrapped handler")
	}
	return setLevel(s.level, level)
}

func (s *SlogLogger) log(ctx context.Context, lvl slog.Level, msg string, args []any) {
	if !s.l.Enabled(ctx, lvl) {
		return
	}
	s.l.Log(ctx, lvl, msg, args...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...), level: s.level}
}
