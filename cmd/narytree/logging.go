package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

type simpleHandler struct {
	level  slog.Level
	writer io.Writer
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log level must be one of: debug, info, warn, error")
}

// setupLogging installs the default logger. An empty logFile logs to
// stderr; otherwise the returned closer releases the file.
func setupLogging(level, logFile string) (io.Closer, error) {
	logLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var writer io.Writer = os.Stderr
	var closer io.Closer
	if logFile != "" {
		path, err := homedir.Expand(logFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		writer, closer = f, f
	}

	handler := &simpleHandler{
		level:  logLevel,
		writer: writer,
	}
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

func (h *simpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *simpleHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String()
	msg := r.Message
	var attrs []string
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s='%v'", a.Key, a.Value))
		return true
	})
	if len(attrs) > 0 {
		fmt.Fprintf(h.writer, "%s: %s (%s)\n", level, msg, strings.Join(attrs, " "))
	} else {
		fmt.Fprintf(h.writer, "%s: %s\n", level, msg)
	}
	return nil
}

func (h *simpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *simpleHandler) WithGroup(name string) slog.Handler {
	return h
}
