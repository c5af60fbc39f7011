// Package logx configures the global zerolog logger. CLI runs write a
// console stream to stderr; TUI runs must keep the terminal clean, so they
// either log to a file or discard.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitCLI sets up stderr console logging. Production keeps info level and
// machine-readable output; development gets the console writer and debug.
func InitCLI(production bool) {
	if production {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// InitTUI routes logs to the given file path, or discards them when the
// path is empty. The returned closer flushes the sink; callers defer it.
func InitTUI(path string) (func() error, error) {
	if path == "" {
		log.Logger = zerolog.Nop()
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return f.Close, nil
}

// Logger returns the current global logger, for components that take one
// by value.
func Logger() zerolog.Logger { return log.Logger }
