// Package discover implements the content discovery engine: it expands an
// infinite-scroll profile feed, harvests the rendered posts, and filters
// them into an ordered, deduplicated record list.
package discover

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
)

// Scroll defaults.
const (
	DefaultMaxAttempts = 30
	DefaultSettleDelay = 3 * time.Second
	DefaultNudgeDelay  = 1 * time.Second

	// StallLimit is the number of consecutive unchanged height samples
	// that marks the feed as fully loaded.
	StallLimit = 3

	// PerturbEvery is the attempt interval of the up-then-down nudge.
	PerturbEvery = 5
	PerturbUp    = 200
	PerturbDown  = 300

	// FineStepSteps is the number of partial steps used per attempt once
	// the controller is past 70% of its attempt ceiling.
	FineStepSteps = 3
)

// RealSleeper pauses on the wall clock.
var RealSleeper creatorscan.Sleeper = creatorscan.SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})

// ScrollController forces a lazy-loading feed to materialize by scrolling
// until the document height stops growing or the attempt ceiling is hit.
type ScrollController struct {
	Sleeper     creatorscan.Sleeper
	MaxAttempts int
	SettleDelay time.Duration
	NudgeDelay  time.Duration
	Logger      *slog.Logger
}

// NewScrollController creates a ScrollController with default bounds.
func NewScrollController(sleeper creatorscan.Sleeper) *ScrollController {
	return &ScrollController{
		Sleeper:     sleeper,
		MaxAttempts: DefaultMaxAttempts,
		SettleDelay: DefaultSettleDelay,
		NudgeDelay:  DefaultNudgeDelay,
	}
}

// scrollState is the ephemeral state of one scroll phase.
type scrollState struct {
	lastHeight int
	stalls     int
	attempts   int
}

// Run scrolls vp until the feed stabilizes or MaxAttempts is reached.
// Viewport failures count as unchanged samples; only context cancellation
// is returned as an error.
func (c *ScrollController) Run(ctx context.Context, vp creatorscan.Viewport) (creatorscan.ScrollStats, error) {
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	logger := c.logger()

	st := scrollState{lastHeight: c.height(ctx, vp, 0)}
	stats := creatorscan.ScrollStats{}

	for st.attempts < maxAttempts {
		if st.attempts*10 > maxAttempts*7 {
			if err := c.fineStep(ctx, vp); err != nil {
				return c.finish(stats, st), err
			}
		} else {
			c.do(ctx, "scroll to bottom", vp.ScrollToBottom)
			if err := c.sleep(ctx, c.SettleDelay); err != nil {
				return c.finish(stats, st), err
			}
		}

		if st.attempts > 0 && st.attempts%PerturbEvery == 0 {
			if err := c.perturb(ctx, vp); err != nil {
				return c.finish(stats, st), err
			}
		}

		height := c.height(ctx, vp, st.lastHeight)
		if height == st.lastHeight {
			st.stalls++
			logger.Debug("page height unchanged", "height", height, "stalls", st.stalls)
			if st.stalls >= StallLimit {
				if err := c.lastChance(ctx, vp); err != nil {
					st.attempts++
					return c.finish(stats, st), err
				}
				st.attempts++
				stats.Stabilized = true
				logger.Debug("reached end of feed", "attempts", st.attempts)
				break
			}
		} else {
			st.stalls = 0
			logger.Debug("page still loading", "height", height)
		}
		st.lastHeight = height
		st.attempts++
	}

	stats = c.finish(stats, st)
	if !stats.Stabilized {
		stats.CeilingHit = true
		logger.Warn("scroll attempt ceiling reached", "attempts", st.attempts, "height", st.lastHeight)
	}
	return stats, nil
}

// fineStep scrolls down by a third of the viewport FineStepSteps times.
func (c *ScrollController) fineStep(ctx context.Context, vp creatorscan.Viewport) error {
	vh, err := vp.ViewportHeight(ctx)
	if err != nil || vh <= 0 {
		c.do(ctx, "scroll to bottom", vp.ScrollToBottom)
		return c.sleep(ctx, c.SettleDelay)
	}
	for i := 0; i < FineStepSteps; i++ {
		step := vh / 3
		c.do(ctx, "fine step", func(ctx context.Context) error { return vp.ScrollBy(ctx, step) })
		if err := c.sleep(ctx, c.NudgeDelay); err != nil {
			return err
		}
	}
	return nil
}

// perturb nudges the viewport up and back down for direction-sensitive loaders.
func (c *ScrollController) perturb(ctx context.Context, vp creatorscan.Viewport) error {
	c.do(ctx, "nudge up", func(ctx context.Context) error { return vp.ScrollBy(ctx, -PerturbUp) })
	if err := c.sleep(ctx, c.NudgeDelay); err != nil {
		return err
	}
	c.do(ctx, "nudge down", func(ctx context.Context) error { return vp.ScrollBy(ctx, PerturbDown) })
	return c.sleep(ctx, c.NudgeDelay)
}

// lastChance resets to the top and scrolls to the bottom once more.
func (c *ScrollController) lastChance(ctx context.Context, vp creatorscan.Viewport) error {
	c.do(ctx, "scroll to top", func(ctx context.Context) error { return vp.ScrollTo(ctx, 0) })
	if err := c.sleep(ctx, c.NudgeDelay); err != nil {
		return err
	}
	c.do(ctx, "scroll to bottom", vp.ScrollToBottom)
	return c.sleep(ctx, c.SettleDelay)
}

func (c *ScrollController) finish(stats creatorscan.ScrollStats, st scrollState) creatorscan.ScrollStats {
	stats.Attempts = st.attempts
	stats.Stalls = st.stalls
	stats.Height = st.lastHeight
	return stats
}

// height samples the document height, returning fallback on failure.
func (c *ScrollController) height(ctx context.Context, vp creatorscan.Viewport, fallback int) int {
	h, err := vp.ScrollHeight(ctx)
	if err != nil {
		c.logger().Warn("measure page height", "err", err)
		return fallback
	}
	return h
}

func (c *ScrollController) do(ctx context.Context, op string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		c.logger().Warn(op, "err", err)
	}
}

func (c *ScrollController) sleep(ctx context.Context, d time.Duration) error {
	sleeper := c.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper
	}
	return sleeper.Sleep(ctx, d)
}

func (c *ScrollController) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
