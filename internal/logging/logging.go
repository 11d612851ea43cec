package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper so callers log key/value pairs without importing zap
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// NewLogger returns a console logger on stderr. Debug output is enabled
// when verbose is set.
func NewLogger(verbose bool) *Logger {
	return newLogger(consoleCore(verbose))
}

// NewFileLogger is NewLogger plus a JSON copy of every entry, debug
// included, appended to path.
func NewFileLogger(verbose bool, path string) (*Logger, error) {
	if path == "" {
		return NewLogger(verbose), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewTee(
		consoleCore(verbose),
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			zapcore.AddSync(file),
			zap.DebugLevel,
		),
	)
	return newLogger(core), nil
}

// Nop discards everything; used by tests.
func Nop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// Zap exposes the structured logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

func newLogger(core zapcore.Core) *Logger {
	base := zap.New(core, zap.AddCaller())
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

func consoleCore(verbose bool) zapcore.Core {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
