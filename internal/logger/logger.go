package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// RunIDKey is the context key holding the export run id.
var RunIDKey = ctxKey{}

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogging configures the global logger. When logFilePath is set, logs go to
// both stdout and the file.
func InitLogging(logFilePath string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stdout
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file %s: %v\n", logFilePath, err)
		} else {
			w = zerolog.MultiLevelWriter(os.Stdout, f)
		}
	}
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the global minimum level ("debug", "info", ...). Unknown values mean info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// SetOutput replaces the logger writer. Used by tests.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// WithRunID stores an export run id in ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// Logger returns the logger for ctx, tagged with its run id if any.
func Logger(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if id, ok := ctx.Value(RunIDKey).(string); ok && id != "" {
			return log.With().Str("run_id", id).Logger()
		}
	}
	return log
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	l := Logger(ctx)
	l.Error().Msgf(format, args...)
}
