package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger atomic.Pointer[slog.Logger]

	// mu guards fileSink and serializes Init with Close
	mu       sync.Mutex
	fileSink *lumberjack.Logger
)

// Options selects the level, format and optional rotating file of the global logger.
type Options struct {
	Level string
	JSON  bool
	File  string // empty means stdout only
}

// Init initializes the global logger
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer = os.Stdout

	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
	if opts.File != "" {
		fileSink = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     10,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, fileSink)
	}

	l := slog.New(newHandler(out, opts))
	defaultLogger.Store(l)
	slog.SetDefault(l)
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	ho := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	}
	if opts.JSON {
		return slog.NewJSONHandler(w, ho)
	}
	return slog.NewTextHandler(w, ho)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}

// Get returns the default logger, falling back to info on stdout when Init
// has not run yet. Safe for concurrent use.
func Get() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := slog.New(newHandler(os.Stdout, Options{Level: "info"}))
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	return defaultLogger.Load()
}

// Info logs at info level
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	_ = Close()
	os.Exit(1)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
