package creatorscan

import (
	"context"
	"time"
)

// ScanRequest starts one discovery pass over a profile page.
type ScanRequest struct {
	// ProfileURL is the creator profile to open. Scanners bound to an
	// already open page may ignore it.
	ProfileURL string

	// Threshold is the minimum like count a post needs to be included.
	Threshold int
}

// Validate returns an error if the request contains invalid fields.
func (r *ScanRequest) Validate() error {
	if r.Threshold < 0 {
		return Errorf(EINVALID, "threshold must be non-negative, got %d", r.Threshold)
	}
	return nil
}

// ScrollStats summarizes the incremental scroll phase of a scan.
type ScrollStats struct {
	Attempts   int
	Stalls     int
	Height     int
	Stabilized bool // page height stopped growing before the ceiling
	CeilingHit bool // attempt ceiling reached without stabilizing
}

// ScanResult is the outcome of one discovery pass.
type ScanResult struct {
	Records []*ContentRecord

	Scroll        ScrollStats
	Harvested     int // unique candidate elements
	Skipped       int // candidates that failed extraction
	ExpectedCount int // work count advertised by the profile, 0 if unknown
	Pinned        int
}

// Scanner runs a discovery pass and returns the qualifying records.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (*ScanResult, error)
}

// Viewport is the live page surface a scan drives.
// Implementations may use browser automation against a rendered page.
type Viewport interface {
	// URL returns the address of the currently loaded document.
	URL(ctx context.Context) (string, error)

	// ScrollTo moves the viewport to the absolute vertical offset y.
	ScrollTo(ctx context.Context, y int) error

	// ScrollToBottom moves the viewport to the end of the document.
	ScrollToBottom(ctx context.Context) error

	// ScrollBy moves the viewport by dy pixels (negative scrolls up).
	ScrollBy(ctx context.Context, dy int) error

	// ScrollHeight returns the total scrollable height of the document.
	ScrollHeight(ctx context.Context) (int, error)

	// ViewportHeight returns the visible height of the window.
	ViewportHeight(ctx context.Context) (int, error)

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
}

// Sleeper pauses between scroll steps so asynchronous content can render.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Element is a harvested candidate post element.
type Element interface {
	// Classify decides the content type. guessed is true when no signal
	// matched and the type is a best-effort default.
	Classify() (t ContentType, guessed bool)

	// Extract produces a record for the element using the given type.
	Extract(t ContentType) (*ContentRecord, error)
}

// Harvest is the set of candidate elements found in a rendered page.
type Harvest struct {
	Elements      []Element
	ExpectedCount int
	Pinned        int
}

// Harvester finds candidate post elements across known layout variants.
type Harvester interface {
	// Harvest parses html and returns unique candidate elements.
	// Relative links are resolved against pageURL.
	Harvest(html string, pageURL string) (*Harvest, error)
}
