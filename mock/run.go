package mock

import (
	"context"

	"github.com/fwojciec/creatorscan"
)

// Compile-time interface verification.
var _ creatorscan.RunService = (*RunService)(nil)

// RunService is a mock implementation of creatorscan.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *creatorscan.Run, records []*creatorscan.ContentRecord) error
	FindRunByIDFn func(ctx context.Context, id string) (*creatorscan.Run, error)
	FindRunsFn    func(ctx context.Context, filter creatorscan.RunFilter) ([]*creatorscan.Run, error)
	FindRecordsFn func(ctx context.Context, runID string) ([]*creatorscan.ContentRecord, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *creatorscan.Run, records []*creatorscan.ContentRecord) error {
	return s.CreateRunFn(ctx, run, records)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*creatorscan.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter creatorscan.RunFilter) ([]*creatorscan.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindRecords(ctx context.Context, runID string) ([]*creatorscan.ContentRecord, error) {
	return s.FindRecordsFn(ctx, runID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
