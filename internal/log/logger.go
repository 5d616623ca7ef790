package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger. Production writes JSON lines for the log
// collector; every other environment gets the colored console format.
func New(environment string) zerolog.Logger {
	var output io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if environment != "production" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "campusboard-api").
		Str("env", environment).
		Logger()
}
