package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Production emits JSON lines; every other
// environment gets the human-readable console writer at debug level.
func New(environment string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if environment != "production" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return NewWithWriter(environment, out)
}

func NewWithWriter(environment string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "pawfinder").
		Str("env", environment).
		Logger()
}
