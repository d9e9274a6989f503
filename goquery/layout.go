package goquery

// Profile page selectors.
// The feed ships several layouts at once (experiment cohorts, pinned rows,
// collections, image posts), so no single selector is authoritative.
// Update these when harvesting breaks.

// HarvestSelectors lists one anchor selector per known layout variant.
// Order only affects harvest order; every selector is always queried.
var HarvestSelectors = []string{
	// Standard video feed
	`a[href^="/video/"]`,
	`.xgplayer-video-item a`,
	`.author-card-user-video a`,
	`.video-feed-item a`,
	`.sec-video a`,
	`.video-card a`,
	`.video-item a`,
	`[data-e2e="video-item"] a`,

	// Pinned
	`.sticky-video a`,
	`.pinned-video a`,

	// Collections
	`.collection-video a`,
	`.collection-item a`,
	`.mix-container a`,

	// Notes (image/text posts)
	`a[href^="/note/"]`,
	`.note-item a`,
	`.image-post a`,
	`.post-item a`,
	`[data-e2e="note-item"] a`,
	`.article-item a`,
	`.image-card a`,

	// Generic cards that may hold either type
	`.post-card a`,
	`.content-card a`,
	`.feed-item a`,
}

// CardSelector matches the container a field lookup widens to when the
// anchor itself does not carry the field.
const CardSelector = `.content-item, .video-card, .note-card, .feed-item`

// Classification markers.
const (
	VideoPathMarker = "/video/"
	NotePathMarker  = "/note/"

	VideoIconSelector = `.video-icon, .play-icon, [data-e2e="video-icon"]`
	ImageIconSelector = `.image-icon, .photo-icon, [data-e2e="image-icon"]`
)

// Profile-level diagnostics.
const (
	WorkCountSelector = `.count-infos span, .user-tab-count, [data-e2e="user-tab-count"], .tab-num`
	PinnedSelector    = `.sticky-video a, .pinned-video a, [data-e2e="pinned-video"] a, .sticky-note a, .pinned-note a`
)

// Field selectors, most specific first.
var (
	LikeSelectors = []string{
		`.author-card-user-video-like .BgCg_ebQ`,
		`.author-card-user-video-like .video-count`,
		`.like-count`,
		`[data-e2e="like-count"]`,
		`.video-data .like-icon + span`,
		`.note-data .like-icon + span`,
		`.content-stats .like-count`,
		`.interaction-info .like-num`,
		`.count-item .like-num`,
		`.count-wrapper .like-count`,
	}

	CommentSelectors = []string{
		`.comment-count`,
		`[data-e2e="comment-count"]`,
		`.video-data .comment-icon + span`,
		`.note-data .comment-icon + span`,
		`.content-stats .comment-count`,
		`.interaction-info .comment-num`,
		`.count-item .comment-num`,
		`.count-wrapper .comment-count`,
	}

	PublishTimeSelectors = []string{
		`.publish-time`,
		`[data-e2e="publish-time"]`,
		`.video-create-time`,
		`.note-create-time`,
		`.content-time`,
		`.time-info`,
		`.post-time`,
	}

	TitleSelectors = []string{
		`.EtttsrEw`,
		`.video-title`,
		`[data-e2e="video-title"]`,
		`.content-title`,
		`.note-title`,
		`.post-title`,
		`.desc`,
		`.content-desc`,
	}

	CoverImageSelectors = []string{
		`.note-cover img`,
		`.post-cover img`,
		`.cover-image`,
		`.first-image img`,
	}

	SummarySelectors = []string{
		`.note-summary`,
		`.post-summary`,
		`.content-brief`,
		`.desc-text`,
	}
)
