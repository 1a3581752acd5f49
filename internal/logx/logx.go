// Package logx builds the structured loggers used across the game.
package logx

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tomz197/swarm/internal/config"
)

// New creates a logger writing to w. Level and formatter come from
// SWARM_LOG_LEVEL and SWARM_LOG_FORMAT.
func New(w io.Writer) *log.Logger {
	return NewWith(w, config.GetEnv("SWARM_LOG_LEVEL", "info"), config.GetEnv("SWARM_LOG_FORMAT", "text"))
}

// NewWith creates a logger with an explicit level and format name.
// Unknown values fall back to info and text.
func NewWith(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       parseFormatter(format),
		Prefix:          "swarm",
	})
}

// Discard returns a logger that drops everything. Used by tests and by
// components constructed without a logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func parseFormatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
