package feishu

import (
	"context"

	"github.com/fwojciec/creatorscan"
)

// Ensure TableSink implements creatorscan.Sink at compile time.
var _ creatorscan.Sink = (*TableSink)(nil)

// TableSink appends scan results to a bitable table.
type TableSink struct {
	client *Client
}

// NewTableSink creates a TableSink writing through client.
func NewTableSink(client *Client) *TableSink {
	return &TableSink{client: client}
}

// Export writes one row per record in order.
func (s *TableSink) Export(ctx context.Context, records []*creatorscan.ContentRecord) error {
	if len(records) == 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "no records to export")
	}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = RecordRow(r)
	}
	_, err := s.client.BatchCreate(ctx, rows)
	return err
}
