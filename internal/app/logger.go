package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the application logger. Production ships JSON for the
// log pipeline; everything else gets the readable text handler. Every line
// carries the service name and environment so the aggregator can split the
// API and worker streams.
func NewLogger(cfg *Config) *slog.Logger {
	return newLoggerTo(cfg, os.Stdout)
}

func newLoggerTo(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	attrs := []any{slog.String("service", "meridian")}
	if cfg != nil && cfg.AppEnv != "" {
		attrs = append(attrs, slog.String("env", cfg.AppEnv))
	}
	return slog.New(handler).With(attrs...)
}
