package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/creatorscan"
)

// State is a phase of a discovery pass.
type State int

// Discovery pass states. A pass moves strictly forward and never retries a phase.
const (
	StateIdle State = iota
	StateScrolling
	StateHarvesting
	StateIterating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScrolling:
		return "scrolling"
	case StateHarvesting:
		return "harvesting"
	case StateIterating:
		return "iterating"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultAllowedHosts lists the hosts a pass may run against.
var DefaultAllowedHosts = []string{"douyin.com"}

// Ensure Engine implements creatorscan.Scanner at compile time.
var _ creatorscan.Scanner = (*Engine)(nil)

// Engine runs discovery passes against an already open page.
// Only one pass may be active at a time; a concurrent Scan fails with
// EPRECONDITION.
type Engine struct {
	Viewport  creatorscan.Viewport
	Harvester creatorscan.Harvester
	Scroller  *ScrollController

	// AllowedHosts restricts the page host (suffix match on a label
	// boundary). Empty allows any host.
	AllowedHosts []string

	Logger *slog.Logger

	mu      sync.Mutex
	state   State
	running bool
}

// State returns the phase of the current or last pass.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Scan expands the feed, harvests every candidate post, and returns the
// records whose like count reaches req.Threshold, first occurrence per URL,
// in harvest order.
func (e *Engine) Scan(ctx context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	logger := e.logger()

	pageURL, err := e.Viewport.URL(ctx)
	if err != nil {
		return nil, creatorscan.Errorf(creatorscan.EPRECONDITION, "no page context: %v", err)
	}
	if !e.hostAllowed(pageURL) {
		return nil, creatorscan.Errorf(creatorscan.EPRECONDITION, "page %q is not a supported profile page", pageURL)
	}

	result := &creatorscan.ScanResult{}

	e.setState(StateScrolling)
	scroller := NewScrollController(RealSleeper)
	if e.Scroller != nil {
		scroller = e.Scroller
	}
	if scroller.Logger == nil {
		sc := *scroller
		sc.Logger = logger
		scroller = &sc
	}
	result.Scroll, err = scroller.Run(ctx, e.Viewport)
	if err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}

	e.setState(StateHarvesting)
	html, err := e.Viewport.HTML(ctx)
	if err != nil {
		return nil, creatorscan.Errorf(creatorscan.EPRECONDITION, "page content unavailable: %v", err)
	}
	harvest, err := e.Harvester.Harvest(html, pageURL)
	if err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}
	result.Harvested = len(harvest.Elements)
	result.ExpectedCount = harvest.ExpectedCount
	result.Pinned = harvest.Pinned
	logger.Info("harvested candidates",
		"elements", result.Harvested,
		"expected", result.ExpectedCount,
		"pinned", result.Pinned,
	)

	e.setState(StateIterating)
	seen := make(map[string]bool)
	for i, el := range harvest.Elements {
		contentType, guessed := el.Classify()
		if guessed {
			logger.Debug("content type undetermined, assuming video", "index", i)
		}

		record, err := el.Extract(contentType)
		if err != nil {
			result.Skipped++
			logger.Warn("skip element", "index", i, "err", err)
			continue
		}

		if record.Likes < req.Threshold || seen[record.URL] {
			continue
		}
		seen[record.URL] = true
		result.Records = append(result.Records, record)
		logger.Debug("add record",
			"type", record.Type,
			"url", record.URL,
			"likes", record.Likes,
			"comments", record.Comments,
		)
	}

	e.setState(StateDone)
	logger.Info("scan finished", "records", len(result.Records), "skipped", result.Skipped)
	return result, nil
}

func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return creatorscan.Errorf(creatorscan.EPRECONDITION, "scan already in progress")
	}
	e.running = true
	e.state = StateIdle
	return nil
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}

func (e *Engine) hostAllowed(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false
	}
	if len(e.AllowedHosts) == 0 {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range e.AllowedHosts {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
