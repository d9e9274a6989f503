package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
)

// Ensure LoggingSink implements creatorscan.Sink.
var _ creatorscan.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with a log line per export.
type LoggingSink struct {
	next   creatorscan.Sink
	name   string
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink. name identifies the sink in logs.
func NewLoggingSink(next creatorscan.Sink, name string, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, name: name, logger: logger}
}

// Export delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) Export(ctx context.Context, records []*creatorscan.ContentRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("export",
			"sink", s.name,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Export(ctx, records)
}
