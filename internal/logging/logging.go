// Package logging builds the CLI's structured logger from the logger
// section of toolcrate.yaml.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/toolcrate/toolcrate/internal/config"
)

// Setup creates the process logger. Output goes to stderr so command
// output on stdout stays pipeable.
func Setup(cfg config.Logger) *slog.Logger {
	return New(os.Stderr, cfg)
}

// New builds a logger writing to w.
func New(w io.Writer, cfg config.Logger) *slog.Logger {
	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	level := log.InfoLevel
	switch cfg.Level {
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "toolcrate",
		Formatter:       formatter,
		Level:           level,
	})
	return slog.New(handler)
}
