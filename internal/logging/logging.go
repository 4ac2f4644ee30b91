// Package logging builds the slog loggers used by the client and the dev backend.
// The client owns the terminal, so its logs go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Options struct {
	File  string
	Debug bool
}

// Setup opens the log file for appending and returns a text logger writing to it.
// The returned closer releases the file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.File == "" {
		return nil, nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(file, handlerOptions(opts.Debug)))
	logger.Debug("logging initialized", slog.String("file", opts.File))
	return logger, file, nil
}

// Fallback discards everything. It is used when the log file cannot be opened,
// since writing to stderr would corrupt the TUI.
func Fallback() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewServer returns a JSON logger on stdout for the dev backend.
func NewServer(debug bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions(debug)))
}

func handlerOptions(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
