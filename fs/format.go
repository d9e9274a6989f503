// Package fs exports scan results to local text files.
package fs

import (
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/creatorscan"
)

// DefaultFilePrefix is the base name of exported files.
const DefaultFilePrefix = "douyin_videos_"

// DefaultFileName returns the export file name for the given day,
// e.g. douyin_videos_2024-05-01.txt.
func DefaultFileName(now time.Time) string {
	return DefaultFilePrefix + now.Format("2006-01-02") + ".txt"
}

// FormatRecords renders records as the export text.
//
// A video-only list is one URL per line. When any note is present every
// record becomes a labeled block and blocks are separated by a blank line.
func FormatRecords(records []*creatorscan.ContentRecord) string {
	var b strings.Builder
	if !creatorscan.HasNotes(records) {
		for _, r := range records {
			b.WriteString(r.URL)
			b.WriteByte('\n')
		}
		return b.String()
	}

	for i, r := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("类型: ")
		b.WriteString(r.Type.Label())
		b.WriteString("\n标题: ")
		b.WriteString(r.Title)
		b.WriteString("\n链接: ")
		b.WriteString(r.URL)
		b.WriteString("\n点赞: ")
		b.WriteString(strconv.Itoa(r.Likes))
		b.WriteString("\n评论: ")
		b.WriteString(strconv.Itoa(r.Comments))
		b.WriteString("\n发布时间: ")
		b.WriteString(r.PublishTime)
		b.WriteByte('\n')
	}
	return b.String()
}
