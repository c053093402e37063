package infra

import (
	"context"

	"github.com/rs/zerolog"
)

// ErrorReporter receives terminal request failures. Production deployments
// point this at an external error-tracking sink; the default implementation
// writes structured log events.
type ErrorReporter interface {
	Report(ctx context.Context, err error, message string)
}

type logReporter struct {
	logger zerolog.Logger
}

// NewLogReporter returns an ErrorReporter backed by the given logger.
func NewLogReporter(logger zerolog.Logger) ErrorReporter {
	return &logReporter{logger: logger}
}

func (r *logReporter) Report(ctx context.Context, err error, message string) {
	r.logger.Error().Ctx(ctx).Err(err).Msg(message)
}
