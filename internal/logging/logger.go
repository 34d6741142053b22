// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the level, format and static fields of the global logger.
type Options struct {
	Level   string
	Pretty  bool // console output for local development
	Service string
	Env     string
	Output  io.Writer
}

// Setup replaces log.Logger. An unknown level falls back to info.
func Setup(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("service", opts.Service).
		Str("env", opts.Env).
		Logger()
	log.Logger = logger
	return logger
}
