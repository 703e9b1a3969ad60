package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config holds the logger configuration.
type Config struct {
	Level  slog.Level
	Format string
}

// NewLogger initializes a new slog logger based on the provided configuration.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level: cfg.Level,
		})
	default:
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: cfg.Level,
		})
	}

	return slog.New(handler)
}
