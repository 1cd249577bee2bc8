package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	config "github.com/thirdweb-dev/blob-indexer/configs"
)

const defaultLevel = zerolog.WarnLevel

func InitLogger() {
	// overrides zerolog global logger
	log.Logger = NewLogger("blob-indexer", os.Stderr)
}

// NewLogger builds a logger for the configured level and format. The level is applied
// globally so package level loggers follow it too.
func NewLogger(name string, out io.Writer) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(parseLevel(config.Cfg.Log.Level))

	if config.Cfg.Log.Prettify {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).With().Timestamp().Str("component", name).Caller().Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return defaultLevel
	}
	return lvl
}
