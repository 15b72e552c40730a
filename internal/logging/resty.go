package logging

import "github.com/rs/zerolog"

// RestyLogger adapts a zerolog logger to resty's Logger interface
type RestyLogger struct {
	logger zerolog.Logger
}

// NewRestyLogger creates a resty logger writing to the "http" component
func NewRestyLogger() *RestyLogger {
	return &RestyLogger{logger: Component("http")}
}

func (l *RestyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}

func (l *RestyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *RestyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}
