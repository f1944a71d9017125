// Package logging bootstraps the single *zap.Logger threaded through
// the engine, transports, and world loader via constructor injection
// (SPEC_FULL.md Ambient Stack: Logging).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production or console logger depending on format
// ("json" or "console"), grounded on the teacher-adjacent
// rdtc8822-debug-L1JGO-Whale's newLogger.
func New(format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncoderConfig.ConsoleSeparator = "  "
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
	}
	return cfg.Build()
}

// SessionLogger tags a logger with the session id, mirroring
// rdtc8822's per-session log.With(zap.Uint64("session", id)).
func SessionLogger(base *zap.Logger, sessionId uint64) *zap.Logger {
	return base.With(zap.Uint64("session", sessionId))
}
