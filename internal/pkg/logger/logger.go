package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures the service logger
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Prefix string
}

// New builds a slog.Logger backed by charmbracelet/log writing to stdout
func New(opts Options) *slog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter builds the logger on an arbitrary writer
func NewWithWriter(w io.Writer, opts Options) *slog.Logger {
	level, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	if strings.EqualFold(opts.Format, "json") {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})

	return slog.New(handler)
}

// Discard returns a logger that drops everything, for tests
func Discard() *slog.Logger {
	return NewWithWriter(io.Discard, Options{Level: "error"})
}
