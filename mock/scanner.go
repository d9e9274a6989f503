package mock

import (
	"context"

	"github.com/fwojciec/creatorscan"
)

// Compile-time interface verification.
var (
	_ creatorscan.Scanner   = (*Scanner)(nil)
	_ creatorscan.Harvester = (*Harvester)(nil)
	_ creatorscan.Element   = (*Element)(nil)
	_ creatorscan.Sink      = (*Sink)(nil)
)

// Scanner is a mock implementation of creatorscan.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error)
}

func (s *Scanner) Scan(ctx context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
	return s.ScanFn(ctx, req)
}

// Harvester is a mock implementation of creatorscan.Harvester.
type Harvester struct {
	HarvestFn func(html string, pageURL string) (*creatorscan.Harvest, error)
}

func (h *Harvester) Harvest(html string, pageURL string) (*creatorscan.Harvest, error) {
	return h.HarvestFn(html, pageURL)
}

// Element is a mock implementation of creatorscan.Element.
type Element struct {
	ClassifyFn func() (creatorscan.ContentType, bool)
	ExtractFn  func(t creatorscan.ContentType) (*creatorscan.ContentRecord, error)
}

func (e *Element) Classify() (creatorscan.ContentType, bool) {
	return e.ClassifyFn()
}

func (e *Element) Extract(t creatorscan.ContentType) (*creatorscan.ContentRecord, error) {
	return e.ExtractFn(t)
}

// Sink is a mock implementation of creatorscan.Sink.
type Sink struct {
	ExportFn func(ctx context.Context, records []*creatorscan.ContentRecord) error
}

func (s *Sink) Export(ctx context.Context, records []*creatorscan.ContentRecord) error {
	return s.ExportFn(ctx, records)
}
