package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
)

// Ensure LoggingViewport implements creatorscan.Viewport.
var _ creatorscan.Viewport = (*LoggingViewport)(nil)

// LoggingViewport wraps a Viewport with debug logging of page commands.
type LoggingViewport struct {
	next   creatorscan.Viewport
	logger *slog.Logger
}

// NewLoggingViewport creates a new LoggingViewport.
func NewLoggingViewport(next creatorscan.Viewport, logger *slog.Logger) *LoggingViewport {
	return &LoggingViewport{next: next, logger: logger}
}

// URL delegates to the wrapped viewport.
func (v *LoggingViewport) URL(ctx context.Context) (string, error) {
	return v.next.URL(ctx)
}

// ScrollTo delegates to the wrapped viewport and logs the command.
func (v *LoggingViewport) ScrollTo(ctx context.Context, y int) (err error) {
	defer func() {
		v.logger.Debug("scroll to", "y", y, "err", err)
	}()
	return v.next.ScrollTo(ctx, y)
}

// ScrollToBottom delegates to the wrapped viewport and logs the command.
func (v *LoggingViewport) ScrollToBottom(ctx context.Context) (err error) {
	defer func() {
		v.logger.Debug("scroll to bottom", "err", err)
	}()
	return v.next.ScrollToBottom(ctx)
}

// ScrollBy delegates to the wrapped viewport and logs the command.
func (v *LoggingViewport) ScrollBy(ctx context.Context, dy int) (err error) {
	defer func() {
		v.logger.Debug("scroll by", "dy", dy, "err", err)
	}()
	return v.next.ScrollBy(ctx, dy)
}

// ScrollHeight delegates to the wrapped viewport and logs the measurement.
func (v *LoggingViewport) ScrollHeight(ctx context.Context) (height int, err error) {
	defer func() {
		v.logger.Debug("scroll height", "height", height, "err", err)
	}()
	return v.next.ScrollHeight(ctx)
}

// ViewportHeight delegates to the wrapped viewport.
func (v *LoggingViewport) ViewportHeight(ctx context.Context) (int, error) {
	return v.next.ViewportHeight(ctx)
}

// HTML delegates to the wrapped viewport and logs the snapshot size.
func (v *LoggingViewport) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		v.logger.Info("page snapshot",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return v.next.HTML(ctx)
}
