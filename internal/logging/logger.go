package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level and sink of the process logger.
type Config struct {
	// Level is debug, info, warn or error. Empty falls back to LOG_LEVEL,
	// then info.
	Level string
	// File enables a rotating log file. Empty logs to Console.
	File string
	// Console receives JSON lines when File is empty. Defaults to stderr.
	Console io.Writer
}

// ParseLevel maps a level name to a zap level. Unknown names are info.
func ParseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a JSON logger. The returned func flushes buffers and closes
// the rotating file, if any.
func New(cfg Config) (*zap.Logger, func(), error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	level := ParseLevel(levelName)

	encoderCfg := zap.NewProductionConfig().EncoderConfig
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	var (
		sink    zapcore.WriteSyncer
		closeFn = func() {}
	)
	if file := strings.TrimSpace(cfg.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     15, // days
			Compress:   true,
		}
		sink = zapcore.AddSync(rotator)
		closeFn = func() { _ = rotator.Close() }
	} else {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		sink = zapcore.AddSync(console)
	}

	logger := zap.New(
		zapcore.NewCore(encoder, sink, level),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
