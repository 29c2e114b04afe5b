package commands

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// zeroLogger adapts a zerolog.Logger to capi.Logger.
type zeroLogger struct {
	logger zerolog.Logger
}

var _ capi.Logger = (*zeroLogger)(nil)

// newLogger writes human-readable log lines to w. Debug lines are dropped
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zeroLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{logger: logger}
}

func (l *zeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *zeroLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *zeroLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
