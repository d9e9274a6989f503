package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/creatorscan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ creatorscan.RunService = (*RunService)(nil)

// RunService implements creatorscan.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// hashRecord computes the xxHash of the fields that change between scans
// of the same post and returns it as a hex string.
func hashRecord(r *creatorscan.ContentRecord) string {
	h := xxhash.New()
	_, _ = h.WriteString(r.URL)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(r.Title)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(r.Likes))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(r.Comments))
	return hex.EncodeToString(h.Sum(nil))
}

// digestRecords combines record hashes in order. Two runs with equal
// digests saw the same posts with the same counts.
func digestRecords(hashes []string) string {
	h := xxhash.New()
	for _, s := range hashes {
		_, _ = h.WriteString(s)
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h.Sum64())
	return hex.EncodeToString(b)
}

// CreateRun stores run and records in a single transaction.
func (s *RunService) CreateRun(ctx context.Context, run *creatorscan.Run, records []*creatorscan.ContentRecord) error {
	if err := run.Validate(); err != nil {
		return err
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	hashes := make([]string, len(records))
	for i, r := range records {
		hashes[i] = hashRecord(r)
	}

	run.ID = uuid.New().String()
	run.RecordCount = len(records)
	run.Digest = digestRecords(hashes)
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, profile_url, threshold, record_count, harvested, ceiling_hit, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ProfileURL, run.Threshold, run.RecordCount, run.Harvested, run.CeilingHit,
		run.Digest, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, url, title, type, likes, comments, publish_time, cover_image, summary, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.URL, r.Title, string(r.Type), r.Likes, r.Comments,
			r.PublishTime, r.CoverImage, r.Summary, hashes[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const runColumns = "id, profile_url, threshold, record_count, harvested, ceiling_hit, digest, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*creatorscan.Run, error) {
	var run creatorscan.Run
	var createdAt string
	if err := row.Scan(&run.ID, &run.ProfileURL, &run.Threshold, &run.RecordCount, &run.Harvested,
		&run.CeilingHit, &run.Digest, &createdAt); err != nil {
		return nil, err
	}

	var err error
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*creatorscan.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, creatorscan.Errorf(creatorscan.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter creatorscan.RunFilter) ([]*creatorscan.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")
	if filter.ProfileURL != nil {
		query.WriteString(" AND profile_url = ?")
		args = append(args, *filter.ProfileURL)
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*creatorscan.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindRecords retrieves the records of a run in harvest order.
func (s *RunService) FindRecords(ctx context.Context, runID string) ([]*creatorscan.ContentRecord, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, type, likes, comments, publish_time, cover_image, summary
		FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*creatorscan.ContentRecord
	for rows.Next() {
		var r creatorscan.ContentRecord
		var contentType string
		if err := rows.Scan(&r.URL, &r.Title, &contentType, &r.Likes, &r.Comments,
			&r.PublishTime, &r.CoverImage, &r.Summary); err != nil {
			return nil, err
		}
		r.Type = creatorscan.ContentType(contentType)
		records = append(records, &r)
	}
	return records, rows.Err()
}

// DeleteRun permanently removes a run and its records.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return creatorscan.Errorf(creatorscan.ENOTFOUND, "run not found")
	}
	return nil
}

// Ensure HistorySink implements creatorscan.Sink at compile time.
var _ creatorscan.Sink = (*HistorySink)(nil)

// HistorySink stores exported records as a new run.
type HistorySink struct {
	service creatorscan.RunService
	run     creatorscan.Run
}

// NewHistorySink creates a sink recording a run described by run. Each
// Export stores a fresh run with the exported records.
func NewHistorySink(service creatorscan.RunService, run creatorscan.Run) *HistorySink {
	return &HistorySink{service: service, run: run}
}

// Export stores records under a new run and returns when committed.
func (s *HistorySink) Export(ctx context.Context, records []*creatorscan.ContentRecord) error {
	if len(records) == 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "no records to store")
	}
	run := s.run
	return s.service.CreateRun(ctx, &run, records)
}
