package creatorscan

import "context"

// ContentType identifies the kind of post on a creator's feed.
type ContentType string

// Content types assigned by classification.
const (
	ContentUnknown ContentType = "unknown"
	ContentVideo   ContentType = "video"
	ContentNote    ContentType = "note"
)

// Label returns the localized label used by exports.
func (t ContentType) Label() string {
	if t == ContentNote {
		return "图文"
	}
	return "视频"
}

// ContentRecord is a single post discovered on a profile feed.
// Records are never mutated after being appended to a scan result.
type ContentRecord struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	Likes       int         `json:"likes"`
	Comments    int         `json:"comments"`
	PublishTime string      `json:"publishTime"`

	// CoverImage and Summary are only populated for notes.
	CoverImage string `json:"coverImage,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ContentRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	switch r.Type {
	case ContentVideo, ContentNote, ContentUnknown:
	default:
		return Errorf(EINVALID, "unknown content type %q", r.Type)
	}
	if r.Likes < 0 || r.Comments < 0 {
		return Errorf(EINVALID, "record counts must be non-negative")
	}
	return nil
}

// HasNotes reports whether any record is a note.
func HasNotes(records []*ContentRecord) bool {
	for _, r := range records {
		if r.Type == ContentNote {
			return true
		}
	}
	return false
}

// Sink consumes the ordered records produced by a scan.
type Sink interface {
	// Export hands the records to the sink. The slice must not be modified.
	Export(ctx context.Context, records []*ContentRecord) error
}
