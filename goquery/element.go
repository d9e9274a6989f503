package goquery

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/creatorscan"
)

var _ creatorscan.Element = (*Element)(nil)

// Element is a harvested post anchor.
type Element struct {
	sel  *goquery.Selection
	base *url.URL
}

// NewElement wraps sel as a candidate post. Relative links resolve against base.
func NewElement(sel *goquery.Selection, base *url.URL) *Element {
	return &Element{sel: sel, base: base}
}

// Href returns the raw link target of the anchor.
func (e *Element) Href() string {
	href, _ := e.sel.Attr("href")
	return strings.TrimSpace(href)
}

// Classify decides the content type of the element. The first signal wins:
// video path, note path, nested video icon, nested image icon. Without any
// signal the element is treated as a video and guessed is true.
func (e *Element) Classify() (creatorscan.ContentType, bool) {
	href := e.Href()
	switch {
	case strings.Contains(href, VideoPathMarker):
		return creatorscan.ContentVideo, false
	case strings.Contains(href, NotePathMarker):
		return creatorscan.ContentNote, false
	case e.sel.Find(VideoIconSelector).Length() > 0:
		return creatorscan.ContentVideo, false
	case e.sel.Find(ImageIconSelector).Length() > 0:
		return creatorscan.ContentNote, false
	}
	return creatorscan.ContentVideo, true
}

// Extract builds a record for the element. Missing fields fall back to
// zero counts, empty text, and a placeholder title naming the post ID.
// Cover image and summary are only read for notes.
func (e *Element) Extract(t creatorscan.ContentType) (*creatorscan.ContentRecord, error) {
	href := e.Href()
	if href == "" {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "element has no link")
	}

	canonical, err := CanonicalURL(e.base, href)
	if err != nil {
		return nil, err
	}

	record := &creatorscan.ContentRecord{
		URL:         canonical,
		Type:        t,
		Likes:       ParseCount(Lookup(e.sel, FieldLikes)),
		Comments:    ParseCount(Lookup(e.sel, FieldComments)),
		PublishTime: Lookup(e.sel, FieldPublishTime),
		Title:       Lookup(e.sel, FieldTitle),
	}
	if record.Title == "" {
		record.Title = PlaceholderTitle(t, PostID(canonical))
	}

	if t == creatorscan.ContentNote {
		record.CoverImage = Lookup(e.sel, FieldCoverImage)
		record.Summary = Lookup(e.sel, FieldSummary)
	}

	return record, nil
}

// CanonicalURL resolves href against base and strips the query and
// fragment so the same post always maps to the same key.
func CanonicalURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", creatorscan.Errorf(creatorscan.EINVALID, "invalid link %q: %v", href, err)
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return "", creatorscan.Errorf(creatorscan.EINVALID, "link %q is not absolute", href)
	}
	ref.RawQuery = ""
	ref.Fragment = ""
	return ref.String(), nil
}

// PostID returns the last path segment of a post URL.
func PostID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	id := path.Base(strings.TrimSuffix(u.Path, "/"))
	if id == "." || id == "/" {
		return ""
	}
	return id
}

// PlaceholderTitle synthesizes a title for posts without visible text.
func PlaceholderTitle(t creatorscan.ContentType, id string) string {
	if t == creatorscan.ContentNote {
		return fmt.Sprintf("无标题图文 (ID: %s)", id)
	}
	return fmt.Sprintf("无标题视频 (ID: %s)", id)
}

func parseBase(pageURL string) (*url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "invalid page URL %q", pageURL)
	}
	return base, nil
}
