package cli

import (
	"io"
	"log/slog"

	"github.com/leapstack-labs/contratos/internal/cli/config"
)

// NewLogger builds the process logger from cfg, writing to w.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
