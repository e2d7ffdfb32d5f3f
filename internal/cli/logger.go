package cli

import (
	"io"
	"log/slog"
)

// newLogger builds the diagnostic logger. Without --verbose only warnings
// and errors are shown.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
