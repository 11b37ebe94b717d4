// Package logging builds the zerolog loggers handed to the archive service.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures a logger.
type Options struct {
	Level  string    // debug, info, warn or error; empty means info
	Pretty bool      // human-readable console output instead of JSON lines
	Out    io.Writer // defaults to os.Stderr
	Name   string    // program name shown in console output
}

// New returns a logger for opts.
func New(opts *Options) (zerolog.Logger, error) {
	if opts == nil {
		opts = &Options{}
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if opts.Pretty {
		prefix := ""
		if opts.Name != "" {
			prefix = opts.Name + ": "
		}
		// archivedir: INFO: message key=value
		cw := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("%s%s:", prefix, strings.ToUpper(fmt.Sprint(i)))
			},
		}
		return zerolog.New(cw).Level(level), nil
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// NoOp returns a logger that discards everything.
func NoOp() zerolog.Logger {
	return zerolog.Nop()
}
