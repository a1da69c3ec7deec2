// Package telemetry carries the process logger. The logger travels in the request
// context so handlers and services log with the request's fields attached.
package telemetry

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvProduction = "production"
	EnvDev        = "dev"
)

var (
	mu            sync.RWMutex
	defaultLogger = zap.NewNop()
)

// Setup configures the default logger for the given environment.
// Production emits JSON at info level; everything else uses the development encoder.
// debug forces the debug level in any environment.
func Setup(env string, debug bool) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == EnvProduction {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		logger, err = cfg.Build()
	} else {
		cfg := zap.NewDevelopmentConfig()
		if !debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		logger = zap.NewExample()
	}
	SetDefault(logger)
}

// SetDefault replaces the default logger. Tests use it with an observer core.
func SetDefault(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
}

// Default returns the process-wide logger.
func Default() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Sync flushes buffered entries of the default logger.
func Sync() {
	_ = Default().Sync()
}

type key struct{}

// Get returns the logger stored in ctx, or the default logger.
func Get(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(key{}).(*zap.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// WithFields returns a context whose logger carries fields on every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
