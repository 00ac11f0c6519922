// Package logging constructs the zap logger used across the
// timetable pipeline, following noah-isme-sma-adp-api/pkg/logger's
// production-vs-development config split.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger. env should be "production" or
// "development" ("" defaults to development, matching local/dev CLI
// runs rather than a deployed service). level overrides the minimum
// log level ("debug", "info", "warn", "error"); an empty or invalid
// level falls back to info.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level == "" || cfg.Level.UnmarshalText([]byte(level)) != nil {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
