package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vertex/internal/domain/ports"
)

// ZapLogger adapts a zap logger to ports.Logger. Arguments are alternating
// key/value pairs.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

var _ ports.Logger = (*ZapLogger)(nil)

// New wraps logger. A nil logger discards everything.
func New(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger.Sugar()}
}

// Build creates a production zap logger at the given level. format is "json"
// or "console".
func Build(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	switch format {
	case "", "json":
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func (l *ZapLogger) Debug(_ context.Context, msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

func (l *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	l.logger.Infow(msg, args...)
}

func (l *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logger.Warnw(msg, args...)
}

func (l *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	l.logger.Errorw(msg, args...)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
