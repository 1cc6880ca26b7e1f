// Package log carries a zap logger through a context so that the effect
// runtime and system leaves can emit structured logs without every
// constructor taking a logger parameter.
//
// The logger travels with the context, not with effect values: an effect
// sees the logger of the context it is run with, which keeps descriptions
// inert and lets tests swap the logger per run.
package log

import (
	"context"
	"os"

	"github.com/taskfx/taskfx/eff/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

// With returns a context carrying the given logger.
func With(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// From returns the logger carried by ctx, or a no-op logger when none has
// been attached.
func From(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// Ensure returns a context that carries a logger. If ctx already has one it
// is returned unchanged. Otherwise the log level is looked up via the
// config scope (config.KeyLogLevel); when set, a console logger at that
// level is attached, and when unset logging stays off.
func Ensure(ctx context.Context) context.Context {
	if _, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return ctx
	}
	levelName, ok := config.Lookup(ctx, config.KeyLogLevel)
	if !ok {
		return With(ctx, zap.NewNop())
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return With(ctx, newConsoleLogger(level))
}

// NewTestLogger builds a console logger at debug level writing to stdout.
// Meant for tests and examples.
func NewTestLogger() *zap.Logger {
	return newConsoleLogger(zap.DebugLevel)
}

func newConsoleLogger(level zapcore.Level) *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(consoleCore)
}
