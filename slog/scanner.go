// Package slog decorates creatorscan services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
)

// Ensure LoggingScanner implements creatorscan.Scanner.
var _ creatorscan.Scanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a Scanner with a summary log line per pass.
type LoggingScanner struct {
	next   creatorscan.Scanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next creatorscan.Scanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// Scan delegates to the wrapped scanner and logs the outcome.
func (s *LoggingScanner) Scan(ctx context.Context, req creatorscan.ScanRequest) (result *creatorscan.ScanResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.ProfileURL,
			"threshold", req.Threshold,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"records", len(result.Records),
				"harvested", result.Harvested,
				"skipped", result.Skipped,
				"expected", result.ExpectedCount,
				"attempts", result.Scroll.Attempts,
				"height", result.Scroll.Height,
			)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
			s.logger.Error("scan", attrs...)
			return
		}
		s.logger.Info("scan", attrs...)
		if result.Scroll.CeilingHit {
			s.logger.Warn("feed did not settle before the attempt limit; results may be incomplete",
				"attempts", result.Scroll.Attempts)
		}
	}(time.Now())
	return s.next.Scan(ctx, req)
}
