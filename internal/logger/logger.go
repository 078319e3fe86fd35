// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"

	"quiz-maker/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Initialize builds the global logger from the production or development zap preset,
// depending on loggerCfg.Env.
func Initialize(loggerCfg config.LoggerConfig) error {
	built, err := build(loggerCfg)
	if err != nil {
		return err
	}
	log = built
	return nil
}

func build(loggerCfg config.LoggerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if loggerCfg.Level != "" {
		parsed, err := zapcore.ParseLevel(loggerCfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logger.level %q: %w", loggerCfg.Level, err)
		}
		level = parsed
	}

	var zc zap.Config
	if loggerCfg.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stdout"}
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder

	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Get returns the global logger instance. Before Initialize it is a no-op logger.
func Get() *zap.Logger {
	return log
}

// Replace swaps the global logger and returns a function restoring the previous one.
// Not safe for concurrent use with Get.
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
