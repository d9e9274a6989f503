package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/discover"
	"github.com/fwojciec/creatorscan/goquery"
	csslog "github.com/fwojciec/creatorscan/slog"
)

// Session is an open profile page.
type Session interface {
	creatorscan.Viewport
	Close() error
}

// Ensure BrowserScanner implements creatorscan.Scanner at compile time.
var _ creatorscan.Scanner = (*BrowserScanner)(nil)

// BrowserScanner opens the requested profile and runs one discovery pass
// on it, closing the page afterwards.
type BrowserScanner struct {
	Open         func(ctx context.Context, profileURL string) (Session, error)
	AllowedHosts []string
	MaxAttempts  int
	Sleeper      creatorscan.Sleeper
	Logger       *slog.Logger
}

// Scan implements creatorscan.Scanner.
func (s *BrowserScanner) Scan(ctx context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(req.ProfileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "invalid profile URL %q", req.ProfileURL)
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	session, err := s.Open(ctx, req.ProfileURL)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer session.Close()

	sleeper := s.Sleeper
	if sleeper == nil {
		sleeper = discover.RealSleeper
	}
	scroller := discover.NewScrollController(sleeper)
	if s.MaxAttempts > 0 {
		scroller.MaxAttempts = s.MaxAttempts
	}

	hosts := s.AllowedHosts
	if len(hosts) == 0 {
		hosts = discover.DefaultAllowedHosts
	}

	engine := &discover.Engine{
		Viewport:     csslog.NewLoggingViewport(session, logger),
		Harvester:    goquery.NewHarvester(),
		Scroller:     scroller,
		AllowedHosts: hosts,
		Logger:       logger,
	}
	return engine.Scan(ctx, req)
}
