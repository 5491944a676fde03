// Package logging wires up the structured logger the rest of the
// engine takes as a constructor dependency: slog on top of a rotating
// file writer, the way GoogleCloudPlatform-gcsfuse pairs its logger
// package with lumberjack.
package logging

import (
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the rotating log file. A zero value logs to
// stderr with no rotation.
type Options struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      slog.Level
}

// New builds a slog.Logger. When opts.FilePath is empty it logs to
// stderr, which is the common case for short-lived CLI invocations;
// a long-running host process supplies FilePath to get rotation.
func New(opts Options) *slog.Logger {
	var writer = os.Stderr
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.FilePath == "" {
		return slog.New(slog.NewTextHandler(writer, handlerOpts))
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    orDefault(opts.MaxSizeMB, 50),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     orDefault(opts.MaxAgeDays, 28),
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(rotator, handlerOpts))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
