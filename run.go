package creatorscan

import (
	"context"
	"time"
)

// Run is a stored scan of one profile.
type Run struct {
	ID          string    `json:"id"`
	ProfileURL  string    `json:"profileUrl"`
	Threshold   int       `json:"threshold"`
	RecordCount int       `json:"recordCount"`
	Harvested   int       `json:"harvested"`
	CeilingHit  bool      `json:"ceilingHit"`
	Digest      string    `json:"digest"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ProfileURL == "" {
		return Errorf(EINVALID, "run profile URL required")
	}
	if r.Threshold < 0 {
		return Errorf(EINVALID, "run threshold must be non-negative")
	}
	return nil
}

// RunService stores scan runs and their records.
type RunService interface {
	// CreateRun stores the run and its records in order. ID, RecordCount,
	// Digest and CreatedAt are assigned by the service.
	CreateRun(ctx context.Context, run *Run, records []*ContentRecord) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRecords retrieves the records of a run in harvest order.
	// Returns ENOTFOUND if the run does not exist.
	FindRecords(ctx context.Context, runID string) ([]*ContentRecord, error)

	// DeleteRun permanently removes a run and its records.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ProfileURL *string `json:"profileUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
