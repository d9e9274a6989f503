package goquery_test

import (
	"net/url"
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstElement harvests html and returns the first candidate.
func firstElement(t *testing.T, html string) creatorscan.Element {
	t.Helper()

	h := goquery.NewHarvester()
	harvest, err := h.Harvest(html, "https://www.douyin.com/user/abc")
	require.NoError(t, err)
	require.NotEmpty(t, harvest.Elements)
	return harvest.Elements[0]
}

func TestElement_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		html        string
		wantType    creatorscan.ContentType
		wantGuessed bool
	}{
		{
			name:     "video path",
			html:     `<a href="/video/1"><span class="image-icon"></span></a>`,
			wantType: creatorscan.ContentVideo,
		},
		{
			name:     "note path",
			html:     `<a href="/note/1"><span class="play-icon"></span></a>`,
			wantType: creatorscan.ContentNote,
		},
		{
			name:     "video icon",
			html:     `<div class="post-card"><a href="/share/1"><i data-e2e="video-icon"></i></a></div>`,
			wantType: creatorscan.ContentVideo,
		},
		{
			name:     "image icon",
			html:     `<div class="post-card"><a href="/share/1"><i class="photo-icon"></i></a></div>`,
			wantType: creatorscan.ContentNote,
		},
		{
			name:        "defaults to video when nothing matches",
			html:        `<div class="post-card"><a href="/share/1">?</a></div>`,
			wantType:    creatorscan.ContentVideo,
			wantGuessed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			el := firstElement(t, tt.html)
			got, guessed := el.Classify()

			assert.Equal(t, tt.wantType, got)
			assert.Equal(t, tt.wantGuessed, guessed)
		})
	}

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<div class="post-card"><a href="/share/1"><i class="image-icon"></i></a></div>`)
		first, _ := el.Classify()
		second, _ := el.Classify()

		assert.Equal(t, first, second)
	})
}

func TestElement_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts fields inside the anchor", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/video/123?from=profile#top">
	<p class="video-title"> Morning run </p>
	<span class="like-count">1.2万</span>
	<span class="comment-count">88</span>
	<span class="publish-time">3天前</span>
</a>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Equal(t, "https://www.douyin.com/video/123", record.URL)
		assert.Equal(t, "Morning run", record.Title)
		assert.Equal(t, creatorscan.ContentVideo, record.Type)
		assert.Equal(t, 12000, record.Likes)
		assert.Equal(t, 88, record.Comments)
		assert.Equal(t, "3天前", record.PublishTime)
		assert.Empty(t, record.CoverImage)
		assert.Empty(t, record.Summary)
	})

	t.Run("widens to the card container", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<div class="video-card">
	<a href="/video/9">cover</a>
	<div class="content-title">From the card</div>
	<div class="interaction-info"><span class="like-num">3.5w</span><span class="comment-num">12</span></div>
</div>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Equal(t, "From the card", record.Title)
		assert.Equal(t, 35000, record.Likes)
		assert.Equal(t, 12, record.Comments)
	})

	t.Run("does not widen publish time", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<div class="video-card">
	<a href="/video/9">cover</a>
	<span class="publish-time">yesterday</span>
</div>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Empty(t, record.PublishTime)
	})

	t.Run("defaults missing counts to zero", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/video/9">cover</a>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Zero(t, record.Likes)
		assert.Zero(t, record.Comments)
	})

	t.Run("synthesizes video placeholder title", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/video/abc123"></a>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Contains(t, record.Title, "abc123")
		assert.Contains(t, record.Title, "视频")
	})

	t.Run("synthesizes note placeholder title", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/note/n42/"></a>`)

		record, err := el.Extract(creatorscan.ContentNote)

		require.NoError(t, err)
		assert.Equal(t, "无标题图文 (ID: n42)", record.Title)
	})

	t.Run("extracts cover and summary for notes", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/note/5">
	<div class="note-cover"><img src="https://cdn.example.com/c.jpg"></div>
	<p class="note-summary">Three photos from Kyoto</p>
</a>`)

		record, err := el.Extract(creatorscan.ContentNote)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/c.jpg", record.CoverImage)
		assert.Equal(t, "Three photos from Kyoto", record.Summary)
	})

	t.Run("skips cover and summary for videos", func(t *testing.T) {
		t.Parallel()

		el := firstElement(t, `<a href="/video/5">
	<div class="note-cover"><img src="https://cdn.example.com/c.jpg"></div>
	<p class="note-summary">ignored</p>
</a>`)

		record, err := el.Extract(creatorscan.ContentVideo)

		require.NoError(t, err)
		assert.Empty(t, record.CoverImage)
		assert.Empty(t, record.Summary)
	})

	t.Run("fails for anchors without a link", func(t *testing.T) {
		t.Parallel()

		doc, err := gq.NewDocumentFromReader(strings.NewReader(`<div class="feed-item"><a>no link</a></div>`))
		require.NoError(t, err)
		base, _ := url.Parse("https://www.douyin.com/user/abc")

		el := goquery.NewElement(doc.Find(".feed-item a"), base)
		_, err = el.Extract(creatorscan.ContentVideo)

		require.Error(t, err)
		assert.Equal(t, creatorscan.EINVALID, creatorscan.ErrorCode(err))
	})
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.douyin.com/user/abc?tab=post")
	require.NoError(t, err)

	got, err := goquery.CanonicalURL(base, "/video/1?x=1#c")
	require.NoError(t, err)
	assert.Equal(t, "https://www.douyin.com/video/1", got)

	got, err = goquery.CanonicalURL(base, "https://m.douyin.com/note/2")
	require.NoError(t, err)
	assert.Equal(t, "https://m.douyin.com/note/2", got)

	_, err = goquery.CanonicalURL(nil, "/video/1")
	require.Error(t, err)
}

func TestPostID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc123", goquery.PostID("https://www.douyin.com/video/abc123"))
	assert.Equal(t, "n1", goquery.PostID("https://www.douyin.com/note/n1/"))
	assert.Empty(t, goquery.PostID("https://www.douyin.com/"))
}
