package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/creatorscan"
)

// Ensure TextSink implements creatorscan.Sink at compile time.
var _ creatorscan.Sink = (*TextSink)(nil)

// TextSink writes records to a text file with atomic replace semantics.
// Content goes to path.tmp first and is renamed over path on success.
type TextSink struct {
	path string
}

// NewTextSink creates a TextSink writing to path.
func NewTextSink(path string) *TextSink {
	return &TextSink{path: path}
}

// Path returns the destination file.
func (s *TextSink) Path() string {
	return s.path
}

func (s *TextSink) tempPath() string {
	return s.path + ".tmp"
}

// Export writes the formatted records. An empty list is rejected so an
// earlier export is never replaced by an empty file.
func (s *TextSink) Export(ctx context.Context, records []*creatorscan.ContentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "no records to export")
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	if err := os.WriteFile(s.tempPath(), []byte(FormatRecords(records)), 0644); err != nil {
		_ = os.Remove(s.tempPath())
		return fmt.Errorf("writing export: %w", err)
	}
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		_ = os.Remove(s.tempPath())
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
