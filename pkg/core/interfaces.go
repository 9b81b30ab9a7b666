package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// slogLogger adapts a *slog.Logger to the Logger interface
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l so it can be handed to the renderer. A nil l discards output.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		return NopLogger()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Printf(format string, args ...interface{}) {
	if !s.l.Enabled(context.Background(), slog.LevelInfo) {
		return
	}
	s.l.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NopLogger returns a Logger that produces no output
func NopLogger() Logger {
	return &slogLogger{l: slog.New(slog.DiscardHandler)}
}
