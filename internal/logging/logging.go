// Package logging wraps zerolog behind a package-level logger so every part
// of paramedit logs through the same sink and level.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Level aliases zerolog's level type.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level that gets written.
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Pretty switches from JSON lines to the human console format.
	Pretty bool
	// TimeFormat defaults to RFC3339.
	TimeFormat string
}

// DefaultConfig returns JSON logging at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Init replaces the global logger.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	Logger = zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// InitFromEnv initializes the global logger from PARAMEDIT_LOG_LEVEL and
// PARAMEDIT_LOG_PRETTY.
func InitFromEnv() {
	cfg := DefaultConfig()
	if lvl := os.Getenv("PARAMEDIT_LOG_LEVEL"); lvl != "" {
		cfg.Level = ParseLevel(lvl)
	}
	if pretty := os.Getenv("PARAMEDIT_LOG_PRETTY"); pretty == "1" || strings.EqualFold(pretty, "true") {
		cfg.Pretty = true
	}
	Init(cfg)
}

// ParseLevel maps a level name (case-insensitive) to a Level. Unrecognized
// names fall back to info.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Debug starts a debug-level message.
func Debug() *zerolog.Event { return Logger.Debug() }

// Info starts an info-level message.
func Info() *zerolog.Event { return Logger.Info() }

// Warn starts a warn-level message.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error starts an error-level message.
func Error() *zerolog.Event { return Logger.Error() }

// Fatal starts a fatal-level message; Msg/Send on it exits the process.
func Fatal() *zerolog.Event { return Logger.Fatal() }

// With starts a child logger with extra fields.
func With() zerolog.Context { return Logger.With() }

func init() {
	Init(DefaultConfig())
}
