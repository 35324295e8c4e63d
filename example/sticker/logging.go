package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the default slog handler. Logs go to stderr as text
// unless a file is configured, in which case they are rotated JSON.
func setupLogging(conf LogConfig) io.Closer {
	opts := &slog.HandlerOptions{Level: parseLevel(conf.Level)}
	if conf.File == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return io.NopCloser(nil)
	}
	rotator := &lumberjack.Logger{
		Filename:   conf.File,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
		Compress:   true,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(rotator, opts)))
	return rotator
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
