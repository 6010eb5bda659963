// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"io"

	"github.com/deverl/initool/internal/config"
	"zombiezen.com/go/log"
)

// Logger sends each entry to the logger that Run attached to the entry's
// Context and drops entries from any other Context. Programs install it
// once with log.SetDefault before calling Run.
var Logger log.Logger = runLogger{}

type runLogger struct{}

type loggerKey struct{}

func (runLogger) Log(ctx context.Context, entry log.Entry) {
	if l := loggerFrom(ctx); l != nil {
		l.Log(ctx, entry)
	}
}

func (runLogger) LogEnabled(entry log.Entry) bool {
	return true
}

func withLogger(ctx context.Context, l log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context) log.Logger {
	l, _ := ctx.Value(loggerKey{}).(log.Logger)
	return l
}

// newLogger returns a logger that writes "initool: LEVEL: message" lines to
// w for entries at or above level.
func newLogger(w io.Writer, level string) *log.LevelFilter {
	return &log.LevelFilter{
		Min:    parseLevel(level),
		Output: log.New(w, "initool: ", log.ShowLevel, nil),
	}
}

func parseLevel(level string) log.Level {
	switch level {
	case config.LevelDebug:
		return log.Debug
	case config.LevelInfo:
		return log.Info
	case config.LevelError:
		return log.Error
	default:
		return log.Warn
	}
}
