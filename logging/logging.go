// Package logging builds the zerolog loggers used across AgentHub.
//
// All components receive a zerolog.Logger by value and derive scoped child
// loggers via With(). This package only centralizes construction: level
// parsing, output format and timestamping.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger writing JSON records to stdout at the given level.
// Unknown level strings fall back to info. When pretty is true the output is
// rendered through zerolog's console writer instead (development use).
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a disabled logger for tests and minimal setups.
func Nop() zerolog.Logger { return zerolog.Nop() }
