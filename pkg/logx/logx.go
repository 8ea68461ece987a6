// Package logx configures the process-wide zerolog logger.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger initialisation.
type Options struct {
	// Production switches to JSON output at info level.
	Production bool
	// Level overrides the default level when set (debug, info, warn, error).
	Level string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// Init replaces the global logger. It is safe to call more than once.
func Init(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var l zerolog.Logger
	level := zerolog.DebugLevel
	if opts.Production {
		l = zerolog.New(w).With().Timestamp().Logger()
		level = zerolog.InfoLevel
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Caller().Logger()
	}

	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil {
			level = parsed
		}
	}

	log.Logger = l.Level(level)
}

// Nop silences the global logger; used by tests and by the stdio MCP server,
// where stdout belongs to the protocol.
func Nop() {
	log.Logger = zerolog.Nop()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
