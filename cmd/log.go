package cmd

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns an slog.Logger backed by a charmbracelet/log handler.
// Timestamps are formatted as "HH:MM:SS.ms"; verbose enables debug records.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	return slog.New(handler)
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *slog.Logger
	start  time.Time
}

func newProgress(l *slog.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, args ...any) {
	args = append(args, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Debug(msg, args...)
}
