package feishu

import "github.com/fwojciec/creatorscan"

// Column names of the destination table.
const (
	FieldLink        = "链接"
	FieldLikes       = "点赞数"
	FieldComments    = "评论数"
	FieldType        = "类型"
	FieldPublishTime = "发布时间"
)

// Link is a hyperlink cell value.
type Link struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Row is one bitable record keyed by column name.
type Row struct {
	Fields map[string]any `json:"fields"`
}

// RecordRow maps a scanned record to a table row. An empty title is shown
// as a generic label for the post type.
func RecordRow(r *creatorscan.ContentRecord) Row {
	text := r.Title
	if text == "" {
		text = "抖音" + r.Type.Label()
	}
	return Row{Fields: map[string]any{
		FieldLink:        Link{Text: text, Link: r.URL},
		FieldLikes:       r.Likes,
		FieldComments:    r.Comments,
		FieldType:        r.Type.Label(),
		FieldPublishTime: r.PublishTime,
	}}
}

// ProbeRow is the marker row written by a connection test.
func ProbeRow() Row {
	return Row{Fields: map[string]any{
		FieldLink:  Link{Text: "测试", Link: "https://www.douyin.com/"},
		FieldLikes: 10000,
	}}
}
