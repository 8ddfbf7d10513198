// Package logger builds the gateway's root zerolog logger.
//
// The gateway runs one root logger per process; device-scoped children
// are derived from it with WithDevice so every line a client core emits
// carries the device it belongs to.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "client-gateway"

// Options controls how the root logger is built.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Unrecognised or empty values fall back to info.
	Level string
	// Pretty switches to the coloured console writer for local runs.
	// Leave false in production to keep pure JSON lines.
	Pretty bool
	// Output is the writer logs are sent to. Defaults to os.Stdout.
	Output io.Writer
}

// New builds the root logger carrying the service field every line
// shares. Call once from main and pass the result down.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// WithDevice returns a child logger tagged with the device id the log
// lines belong to.
func WithDevice(log zerolog.Logger, deviceID string) zerolog.Logger {
	return log.With().Str("device_id", deviceID).Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to
// info for anything zerolog does not recognise.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
