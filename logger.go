package bmserial

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/bmserial/blockcodec"
)

// Logger wraps slog.Logger with bmserial-specific context, giving
// structured logging consistent field names across Serialize, Deserialize,
// and OperationDeserialize calls.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	}))}
}

// WithStream tags the logger with a stream size, useful when serializing
// many independent bit-vectors in a loop.
func (l *Logger) WithStream(bytes int) *Logger {
	return &Logger{Logger: l.Logger.With("stream_bytes", bytes)}
}

// LogSerialize logs a Serialize/SerializeIntoResizable call.
func (l *Logger) LogSerialize(ctx context.Context, level int, bytesWritten int, stats *blockcodec.Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "serialize failed",
			"compression_level", level,
			"error", err,
		)
		return
	}
	attrs := []any{"compression_level", level, "bytes_written", bytesWritten}
	if stats != nil {
		attrs = append(attrs, "block_tokens", stats.Total())
	}
	l.DebugContext(ctx, "serialize completed", attrs...)
}

// LogDeserialize logs a Deserialize call.
func (l *Logger) LogDeserialize(ctx context.Context, bytesRead int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "deserialize failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "deserialize completed",
		"bytes_read", bytesRead,
	)
}

// LogOperation logs an OperationDeserialize call.
func (l *Logger) LogOperation(ctx context.Context, op string, exitOnOne bool, count uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "operation deserialize failed",
			"op", op,
			"exit_on_one", exitOnOne,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "operation deserialize completed",
		"op", op,
		"exit_on_one", exitOnOne,
		"count", count,
	)
}

// LogByteOrderSwap logs the transparent byte-order recovery path.
func (l *Logger) LogByteOrderSwap(ctx context.Context) {
	l.WarnContext(ctx, "stream byte order mismatch, retrying with byte-swap")
}
