package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/creatorscan"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultNavigateTimeout bounds navigation and initial page load.
const DefaultNavigateTimeout = 30 * time.Second

// BrowserManager owns a Chrome process and opens profile pages in it.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	mu       sync.Mutex
	closed   atomic.Bool

	headless        bool
	proxy           string
	userDataDir     string
	navigateTimeout time.Duration
	renderDelay     time.Duration
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithHeadless controls whether Chrome runs without a window. Defaults to true.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// WithProxy routes browser traffic through the given proxy URL.
func WithProxy(proxyURL string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.proxy = proxyURL
	}
}

// WithUserDataDir reuses a Chrome profile directory, keeping the
// logged-in session of a regular browser.
func WithUserDataDir(dir string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.userDataDir = dir
	}
}

// WithNavigateTimeout sets the timeout for navigation and page load.
// Defaults to DefaultNavigateTimeout.
func WithNavigateTimeout(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.navigateTimeout = d
	}
}

// WithRenderDelay waits after page load before the session is returned,
// giving client-side rendering time to populate the first feed batch.
func WithRenderDelay(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.renderDelay = d
	}
}

// NewBrowserManager launches Chrome and connects to it.
// Close must be called when the BrowserManager is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		headless:        true,
		navigateTimeout: DefaultNavigateTimeout,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Open creates a tab, navigates to profileURL and waits for it to load.
// The returned Session must be closed by the caller.
func (bm *BrowserManager) Open(ctx context.Context, profileURL string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bm.closed.Load() {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "browser manager is closed")
	}

	bm.mu.Lock()
	browser := bm.browser
	bm.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	nav := page.Context(ctx).Timeout(bm.navigateTimeout)
	defer nav.CancelTimeout()
	if err := nav.Navigate(profileURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigating to %s: %w", profileURL, err)
	}
	if err := nav.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("waiting for %s to load: %w", profileURL, err)
	}

	if bm.renderDelay > 0 {
		select {
		case <-ctx.Done():
			_ = page.Close()
			return nil, ctx.Err()
		case <-time.After(bm.renderDelay):
		}
	}

	return &Session{page: page}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// launchBrowser starts a browser instance with stability flags.
// Background throttling is disabled so timers keep firing while the
// feed loads in an unfocused tab.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(bm.headless)

	if bm.proxy != "" {
		lnchr = lnchr.Proxy(bm.proxy)
	}
	if bm.userDataDir != "" {
		lnchr = lnchr.UserDataDir(bm.userDataDir)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}
