package container

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// LoggerPackage provides *zap.Logger and a watermill adapter on top of it.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})

	do.Provide(i, func(i *do.Injector) (watermill.LoggerAdapter, error) {
		return NewWatermillLogger(do.MustInvoke[*zap.Logger](i)), nil
	})
}

// WatermillLogger routes watermill logs to zap.
type WatermillLogger struct {
	logger *zap.Logger
}

// NewWatermillLogger wraps logger as a watermill.LoggerAdapter.
func NewWatermillLogger(logger *zap.Logger) *WatermillLogger {
	return &WatermillLogger{logger: logger}
}

func (l *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (l *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

// Trace maps to debug; zap has no lower level.
func (l *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: l.logger.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}

	return out
}

var _ watermill.LoggerAdapter = (*WatermillLogger)(nil)
