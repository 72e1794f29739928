// pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the process-wide logger. Commands reconfigure its level at startup
// via SetLevel; everything else just logs.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Log = newConsoleLogger(zerolog.InfoLevel)
}

func newConsoleLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Caller().Logger()
}

// SetLevel applies a named level ("debug", "info", ...) globally. Server mode
// strings double as levels; anything unparseable falls back to info.
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
