// Package rod drives a real Chrome browser with go-rod so discovery runs
// against the rendered, JavaScript-populated profile feed.
package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/creatorscan"
	"github.com/go-rod/rod"
)

// Ensure Session implements creatorscan.Viewport at compile time.
var _ creatorscan.Viewport = (*Session)(nil)

// Session is an open browser tab exposed as a creatorscan.Viewport.
type Session struct {
	page *rod.Page
}

// URL returns the address of the loaded document.
func (s *Session) URL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.URL, nil
}

// ScrollTo moves the window to vertical offset y.
func (s *Session) ScrollTo(ctx context.Context, y int) error {
	_, err := s.page.Context(ctx).Eval(`(y) => window.scrollTo(0, y)`, y)
	return err
}

// ScrollToBottom moves the window to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(`() => window.scrollTo(0, document.documentElement.scrollHeight)`)
	return err
}

// ScrollBy moves the window by dy pixels.
func (s *Session) ScrollBy(ctx context.Context, dy int) error {
	_, err := s.page.Context(ctx).Eval(`(dy) => window.scrollBy(0, dy)`, dy)
	return err
}

// ScrollHeight returns document.documentElement.scrollHeight.
func (s *Session) ScrollHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, `() => document.documentElement.scrollHeight`)
}

// ViewportHeight returns window.innerHeight.
func (s *Session) ViewportHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, `() => window.innerHeight`)
}

// HTML returns the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// Close closes the tab.
func (s *Session) Close() error {
	return s.page.Close()
}

func (s *Session) evalInt(ctx context.Context, js string) (int, error) {
	res, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}
