package extractors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityfeed/internal/activity"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const profileURL = "https://www.linkedin.com/in/someone/"

func page(body string) string {
	return "<html><head><title>Activity</title></head><body>" + body + "</body></html>"
}

func TestPostExtractorPrimarySelector(t *testing.T) {
	markup := page(`
<article class="feed-shared-update-v2">
  <span class="break-words">  Shipping   a new   model </span>
  <div class="feed-shared-text">We released the evaluation harness today.</div>
  <img data-ghost-url="ghost" src="https://media.example.com/post.jpg">
  <span class="feed-shared-actor__sub-description">3 days ago • Edited</span>
</article>`)

	got := NewPostExtractor(WithClock(fixedClock)).Extract(markup, profileURL)

	require.Len(t, got, 1)
	assert.Equal(t, activity.Entry{
		Date:        fixedNow.AddDate(0, 0, -3),
		Title:       "Shipping a new model",
		Description: "We released the evaluation harness today.",
		Link:        profileURL,
		Image:       "https://media.example.com/post.jpg",
		Type:        activity.DefaultType,
	}, got[0])
}

func TestPostExtractorSecondarySelector(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, `<div data-urn="urn:li:activity:%d"><p>paragraph %d</p></div>`, i, i)
	}

	got := NewPostExtractor(WithClock(fixedClock)).Extract(page(b.String()), profileURL)

	require.Len(t, got, MaxEntries)
	for i, e := range got {
		assert.Equal(t, fmt.Sprintf("LinkedIn Update %d", i+1), e.Title)
		assert.Equal(t, fmt.Sprintf("paragraph %d", i), e.Description)
		assert.Equal(t, activity.PlaceholderImage, e.Image)
		assert.Equal(t, fixedNow.AddDate(0, 0, -10*i), e.Date)
		assert.Equal(t, profileURL, e.Link)
	}
}

func TestPostExtractorPrimaryWinsOverSecondary(t *testing.T) {
	markup := page(`
<div data-urn="a"><p>secondary a</p></div>
<article class="feed-shared-update-v2"><p>primary</p></article>
<div data-urn="b"><p>secondary b</p></div>`)

	got := NewPostExtractor(WithClock(fixedClock)).Extract(markup, profileURL)

	require.Len(t, got, 1)
	assert.Equal(t, "primary", got[0].Description)
}

func TestPostExtractorNoPostsReturnsFallback(t *testing.T) {
	ex := NewPostExtractor(WithClock(fixedClock))
	want := activity.Fallback(fixedNow)

	for name, markup := range map[string]string{
		"unrelated": page(`<section><p>nothing to see</p></section>`),
		"empty":     "",
		"text":      "not even html",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ex.Extract(markup, profileURL))
		})
	}
}

func TestPostExtractorCapsAtThree(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, `<article class="feed-shared-update-v2"><span class="break-words">post %d</span></article>`, i)
	}

	got := NewPostExtractor(WithClock(fixedClock)).Extract(page(b.String()), profileURL)

	require.Len(t, got, MaxEntries)
	assert.Equal(t, "post 0", got[0].Title)
	assert.Equal(t, "post 2", got[2].Title)
}

func TestPostExtractorImageValidation(t *testing.T) {
	tests := []struct {
		name string
		img  string
		want string
	}{
		{"absolute", `<img class="feed-shared-image" src="https://cdn.example.com/a.png">`, "https://cdn.example.com/a.png"},
		{"relative", `<img class="feed-shared-image" src="/static/a.png">`, activity.PlaceholderImage},
		{"empty", `<img class="feed-shared-image" src="">`, activity.PlaceholderImage},
		{"data uri", `<img class="feed-shared-image" src="data:image/gif;base64,R0lGOD">`, activity.PlaceholderImage},
		{"missing", ``, activity.PlaceholderImage},
		{"ghost preferred", `<img data-ghost-url="g" src="https://a.example.com/1.png"><img class="feed-shared-image" src="https://a.example.com/2.png">`, "https://a.example.com/1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := page(`<article class="feed-shared-update-v2">` + tt.img + `</article>`)
			got := NewPostExtractor(WithClock(fixedClock)).Extract(markup, profileURL)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Image)
		})
	}
}

func TestPostExtractorTruncates(t *testing.T) {
	title := strings.Repeat("T", 150)
	desc := strings.Repeat("D", 250)
	markup := page(fmt.Sprintf(
		`<article class="feed-shared-update-v2"><span class="break-words">%s</span><div class="feed-shared-text">%s</div></article>`,
		title, desc))

	got := NewPostExtractor(WithClock(fixedClock)).Extract(markup, profileURL)

	require.Len(t, got, 1)
	assert.Equal(t, strings.Repeat("T", activity.TitleLimit)+activity.Ellipsis, got[0].Title)
	assert.Equal(t, strings.Repeat("D", activity.DescriptionLimit)+activity.Ellipsis, got[0].Description)
}

func TestPostExtractorFieldFallbacks(t *testing.T) {
	markup := page(`
<article class="feed-shared-update-v2">
  <span class="break-words">   </span>
  <span class="feed-shared-text">secondary title</span>
</article>
<article class="feed-shared-update-v2">
  <span class="feed-shared-actor__sub-description">2w</span>
</article>`)

	got := NewPostExtractor(WithClock(fixedClock)).Extract(markup, profileURL)

	require.Len(t, got, 2)
	assert.Equal(t, "secondary title", got[0].Title)
	assert.Equal(t, defaultDescription, got[0].Description)

	assert.Equal(t, "LinkedIn Update 2", got[1].Title)
	assert.Equal(t, fixedNow.AddDate(0, 0, -10), got[1].Date)
}

func TestParseDaysAgo(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3 days ago", 3, true},
		{"1 day ago • Edited", 1, true},
		{"0 days", 0, true},
		{"  12 days  ", 12, true},
		{"5 hours ago", 0, false},
		{"2w", 0, false},
		{"days 3", 0, false},
		{"-1 days", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := parseDaysAgo(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}
