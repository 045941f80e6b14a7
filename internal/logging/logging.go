package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Settings is the subset of configuration the logger needs.
type Settings interface {
	GetLogLevel() string
	GetLogFormat() string
}

// Init configures the global zerolog logger. Output goes to stderr so that
// command output on stdout stays machine readable.
func Init(s Settings) {
	InitWithWriter(s, os.Stderr)
}

func InitWithWriter(s Settings, w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(s.GetLogLevel()))
	zerolog.TimeFieldFormat = time.RFC3339

	if s.GetLogFormat() == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
