package logger

import (
	"io"
	"os"
	"time"

	"tablebook/config"
	"tablebook/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output is where every log line goes. Tests swap it.
var Output io.Writer = os.Stdout

// InitLogger installs a human readable console logger at trace level until
// SetLogLevel has seen the configuration.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: Output, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// SetLogLevel applies SERVER_LOG_LEVEL. Outside development the output
// switches to JSON lines tagged with the application name.
func SetLogLevel(config *config.Config) {
	if config.Server.Env != constant.ServerEnvDevelopment {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log.Logger = zerolog.New(Output).With().Timestamp().Str("app", config.App.Name).Logger()
	}

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("log level set")
}

// ErrorWithStack logs err together with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
