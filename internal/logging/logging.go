// Package logging builds the leveled diagnostic logger used across commands.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
)

// Prefix is shown in front of every log line.
const Prefix = "todo"

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New creates a logger writing to w using the level and format from cfg.
// --debug wins over --quiet, which wins over the configured level.
func New(w io.Writer, cfg *config.Config) *log.Logger {
	level := ParseLevel(cfg.LogLevel)
	if cfg.Quiet && level < log.WarnLevel {
		level = log.WarnLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(cfg.LogFormat),
		ReportTimestamp: cfg.Debug,
		Prefix:          Prefix,
	})
}
