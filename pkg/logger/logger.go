// backend-go/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(consoleWriter(os.Stdout), zerolog.InfoLevel)
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Setup picks the output format from the server mode: colored console output
// for debug and test, JSON lines for release. Packages logging through
// zerolog/log share the same logger afterwards.
func Setup(mode, level string) {
	SetupWriter(os.Stdout, mode, level)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(out io.Writer, mode, level string) {
	w := out
	if mode != "release" {
		w = consoleWriter(out)
	}

	Log = newLogger(w, zerolog.InfoLevel)
	log.Logger = Log
	SetLevel(level)
}

// SetLevel sets the log level. Gin mode names map onto zerolog levels.
func SetLevel(levelStr string) {
	switch levelStr {
	case "release", "":
		levelStr = "info"
	case "test":
		levelStr = "warn"
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = log.Logger.Level(level)
}
