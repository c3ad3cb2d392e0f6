package logger

import (
	"os"
)

// Init configures the global logger from APP_ENV
func Init() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	InitStructured(env)
}

// Info logs a formatted message at info level
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn logs a formatted message at warn level
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error logs a formatted message at error level
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}

// Fatal logs a formatted message and exits
func Fatal(format string, args ...interface{}) {
	zlog.Fatal().Msgf(format, args...)
}
