// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logging builds the process-wide structured logger.

Output is JSON on stdout. When a file path is configured the same records are
teed into a size-rotated file handled by lumberjack.
*/
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the optional log file.
const (
	maxFileSizeMB = 100
	maxBackups    = 3
	maxAgeDays    = 28
)

// Options controls how [New] builds the logger.
type Options struct {
	// App is attached to every record as the "app" attribute.
	App string
	// Debug lowers the minimum level from info to debug.
	Debug bool
	// File, when set, receives a rotated copy of every record.
	File string
	// Stdout overrides the console writer. Defaults to os.Stdout.
	Stdout io.Writer
}

// New returns the configured logger and a closer for the rotated file.
//
// The closer is a no-op when no file is configured.
func New(opts Options) (*slog.Logger, io.Closer) {
	console := opts.Stdout
	if console == nil {
		console = os.Stdout
	}

	var (
		output io.Writer = console
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		output = io.MultiWriter(console, rotated)
		closer = rotated
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App))
	}

	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
