package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/creatorscan"
	main "github.com/fwojciec/creatorscan/cmd/creatorscan"
	"github.com/fwojciec/creatorscan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is a static single-screen profile page.
type fakeSession struct {
	*mock.Viewport
	closed bool
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func newFakeSession(pageURL, html string) *fakeSession {
	return &fakeSession{Viewport: &mock.Viewport{
		URLFn:            func(context.Context) (string, error) { return pageURL, nil },
		ScrollToFn:       func(context.Context, int) error { return nil },
		ScrollToBottomFn: func(context.Context) error { return nil },
		ScrollByFn:       func(context.Context, int) error { return nil },
		ScrollHeightFn:   func(context.Context) (int, error) { return 900, nil },
		ViewportHeightFn: func(context.Context) (int, error) { return 900, nil },
		HTMLFn:           func(context.Context) (string, error) { return html, nil },
	}}
}

// instantSleeper skips scroll pauses.
type instantSleeper struct{}

func (instantSleeper) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func TestBrowserScanner_Scan(t *testing.T) {
	t.Parallel()

	const feed = `<html><body><ul>
<li class="video-item"><a href="/video/1"><p class="video-title">One</p><span class="like-count">1.2万</span></a></li>
<li class="video-item"><a href="/video/2"><p class="video-title">Two</p><span class="like-count">300</span></a></li>
</ul></body></html>`

	t.Run("opens the profile, scans and closes the page", func(t *testing.T) {
		t.Parallel()

		session := newFakeSession("https://www.douyin.com/user/a", feed)
		var opened string
		scanner := &main.BrowserScanner{
			Open: func(_ context.Context, profileURL string) (main.Session, error) {
				opened = profileURL
				return session, nil
			},
			Sleeper: instantSleeper{},
		}

		result, err := scanner.Scan(context.Background(), creatorscan.ScanRequest{ProfileURL: "https://www.douyin.com/user/a", Threshold: 1000})

		require.NoError(t, err)
		assert.Equal(t, "https://www.douyin.com/user/a", opened)
		assert.True(t, session.closed)
		require.Len(t, result.Records, 1)
		assert.Equal(t, 12000, result.Records[0].Likes)
		assert.True(t, result.Scroll.Stabilized)
	})

	t.Run("applies the attempt ceiling", func(t *testing.T) {
		t.Parallel()

		session := newFakeSession("https://www.douyin.com/user/a", feed)
		height := 0
		session.ScrollHeightFn = func(context.Context) (int, error) {
			height += 100
			return height, nil
		}
		scanner := &main.BrowserScanner{
			Open:        func(context.Context, string) (main.Session, error) { return session, nil },
			MaxAttempts: 4,
			Sleeper:     instantSleeper{},
		}

		result, err := scanner.Scan(context.Background(), creatorscan.ScanRequest{ProfileURL: "https://www.douyin.com/user/a"})

		require.NoError(t, err)
		assert.Equal(t, 4, result.Scroll.Attempts)
		assert.True(t, result.Scroll.CeilingHit)
	})

	t.Run("restricts hosts", func(t *testing.T) {
		t.Parallel()

		session := newFakeSession("https://example.com/user/a", feed)
		scanner := &main.BrowserScanner{
			Open:    func(context.Context, string) (main.Session, error) { return session, nil },
			Sleeper: instantSleeper{},
		}

		_, err := scanner.Scan(context.Background(), creatorscan.ScanRequest{ProfileURL: "https://example.com/user/a"})

		assert.Equal(t, creatorscan.EPRECONDITION, creatorscan.ErrorCode(err))
		assert.True(t, session.closed)
	})

	t.Run("rejects malformed profile URLs before opening", func(t *testing.T) {
		t.Parallel()

		scanner := &main.BrowserScanner{
			Open: func(context.Context, string) (main.Session, error) {
				t.Fatal("Open must not be called")
				return nil, nil
			},
		}

		_, err := scanner.Scan(context.Background(), creatorscan.ScanRequest{ProfileURL: "douyin.com/user/a"})

		assert.Equal(t, creatorscan.EINVALID, creatorscan.ErrorCode(err))
	})

	t.Run("wraps open failures", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("navigation timeout")
		scanner := &main.BrowserScanner{
			Open: func(context.Context, string) (main.Session, error) { return nil, boom },
		}

		_, err := scanner.Scan(context.Background(), creatorscan.ScanRequest{ProfileURL: "https://www.douyin.com/user/a"})

		assert.ErrorIs(t, err, boom)
	})
}
