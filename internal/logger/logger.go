package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Init initializes the default logger writing JSON to stdout. It is safe
// to call multiple times; only the first call has any effect.
func Init() {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	})
}

// SetLevel adjusts the global log level ("debug", "info", "warn", "error").
// Unknown values fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// Get returns the initialized default logger, initializing it if needed.
func Get() zerolog.Logger {
	Init()
	return defaultLogger
}

// Info logs an informational message with optional key/value pairs.
func Info(msg string, kv ...any) {
	l := Get()
	l.Info().Fields(fields(kv)).Msg(msg)
}

// Warn logs a warning message with optional key/value pairs.
func Warn(msg string, kv ...any) {
	l := Get()
	l.Warn().Fields(fields(kv)).Msg(msg)
}

// Error logs an error message. A nil err is allowed.
func Error(msg string, err error, kv ...any) {
	l := Get()
	l.Error().Err(err).Fields(fields(kv)).Msg(msg)
}

// Debug logs a debug message with optional key/value pairs.
func Debug(msg string, kv ...any) {
	l := Get()
	l.Debug().Fields(fields(kv)).Msg(msg)
}

// fields converts alternating key/value arguments into a map. A trailing
// key without a value is dropped.
func fields(kv []any) map[string]any {
	if len(kv) < 2 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		m[key] = kv[i+1]
	}
	return m
}
