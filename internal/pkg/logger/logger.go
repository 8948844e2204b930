// Package logger builds the process-wide structured logger. Every ingest,
// cache build/load, and query-handling path logs through a child of this
// logger rather than the standard log package, so ParseSkip/CacheStale/
// CacheCorrupt recoveries (spec.md §7) are visible in production without
// ever failing a request.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger at the given level ("debug", "info", "warn",
// "error" — anything unrecognized falls back to info). Debug level switches
// to a human-readable console encoder; everything else emits JSON so log
// aggregation can index fields like query correlation ids.
func New(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if level == "debug" {
		config.Development = true
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// WithQuery returns a child logger tagged with the query's correlation id,
// so every log line belonging to one find_route call can be grepped
// together.
func WithQuery(base *zap.Logger, queryID string) *zap.Logger {
	return base.With(zap.String("query_id", queryID))
}
