package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger configured for CLI output on stderr.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds the CLI logger. Verbose enables debug logging and
// caller annotations.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &Logger{base.Sugar()}
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
