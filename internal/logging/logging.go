// Package logging provides the structured logger the teacher's
// fileformat/wav.go reached for (utils.GetLogger()) but never defined.
package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Get returns the process-wide logger, initialized lazily on first use.
func Get() *slog.Logger {
	once.Do(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
	return logger
}

// Wrap attaches a stack trace to err via go-xerrors, the way the teacher's
// fileformat/wav.go wraps errors before logging them.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return xerrors.New(err)
}

// Error logs a wrapped error against the given stage name.
func Error(ctx context.Context, stage string, err error) {
	Get().ErrorContext(ctx, stage, slog.Any("error", Wrap(err)))
}
