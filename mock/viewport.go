package mock

import (
	"context"
	"time"

	"github.com/fwojciec/creatorscan"
)

var (
	_ creatorscan.Viewport = (*Viewport)(nil)
	_ creatorscan.Sleeper  = (*Sleeper)(nil)
)

// Viewport is a mock implementation of creatorscan.Viewport.
type Viewport struct {
	URLFn            func(ctx context.Context) (string, error)
	ScrollToFn       func(ctx context.Context, y int) error
	ScrollToBottomFn func(ctx context.Context) error
	ScrollByFn       func(ctx context.Context, dy int) error
	ScrollHeightFn   func(ctx context.Context) (int, error)
	ViewportHeightFn func(ctx context.Context) (int, error)
	HTMLFn           func(ctx context.Context) (string, error)
}

func (v *Viewport) URL(ctx context.Context) (string, error) {
	return v.URLFn(ctx)
}

func (v *Viewport) ScrollTo(ctx context.Context, y int) error {
	return v.ScrollToFn(ctx, y)
}

func (v *Viewport) ScrollToBottom(ctx context.Context) error {
	return v.ScrollToBottomFn(ctx)
}

func (v *Viewport) ScrollBy(ctx context.Context, dy int) error {
	return v.ScrollByFn(ctx, dy)
}

func (v *Viewport) ScrollHeight(ctx context.Context) (int, error) {
	return v.ScrollHeightFn(ctx)
}

func (v *Viewport) ViewportHeight(ctx context.Context) (int, error) {
	return v.ViewportHeightFn(ctx)
}

func (v *Viewport) HTML(ctx context.Context) (string, error) {
	return v.HTMLFn(ctx)
}

// Sleeper is a mock implementation of creatorscan.Sleeper.
type Sleeper struct {
	SleepFn func(ctx context.Context, d time.Duration) error
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	return s.SleepFn(ctx, d)
}
