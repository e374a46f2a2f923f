package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level     string
	File      string
	MaxSizeMB int
	MaxFiles  int
	// Stderr receives text output when File is empty. Defaults to os.Stderr.
	Stderr io.Writer
}

// New builds the process logger. With a log file the output is JSON into a
// rotating writer, otherwise human-readable text on stderr. The returned
// closer releases the log file and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.File == "" {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		return slog.New(NewRedactingHandler(slog.NewTextHandler(w, handlerOpts))), nopCloser{}, nil
	}

	writer, err := NewRotatingWriter(RotationConfig{
		File:      opts.File,
		MaxSizeMB: opts.MaxSizeMB,
		MaxFiles:  opts.MaxFiles,
	})
	if err != nil {
		return nil, nil, err
	}
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(writer, handlerOpts))), writer, nil
}

func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
