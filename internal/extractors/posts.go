package extractors

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"activityfeed/internal/activity"
)

// Selectors for a profile's activity page. The markup is third-party and
// changes without notice, so every field has a secondary selector and a
// synthesized default.
var (
	primaryPostSelector   = "article.feed-shared-update-v2"
	secondaryPostSelector = "div[data-urn]"

	titleChain = []Strategy{
		textOf("span.break-words"),
		textOf("span.feed-shared-text"),
	}
	descriptionChain = []Strategy{
		textOf("div.feed-shared-text"),
		textOf("p"),
	}
	imageChain = []Strategy{
		attrOf("img[data-ghost-url]", "src"),
		attrOf("img.feed-shared-image", "src"),
	}
	dateChain = []Strategy{
		textOf("span.feed-shared-actor__sub-description"),
	}
)

const defaultDescription = "Check out this LinkedIn update"

// PostExtractor reads up to three activity posts from a rendered profile page.
type PostExtractor struct {
	clocked
	Type string
}

func NewPostExtractor(opts ...Option) *PostExtractor {
	return &PostExtractor{clocked: newClocked(opts), Type: activity.DefaultType}
}

func (p *PostExtractor) Extract(markup, sourceURL string) []activity.Entry {
	now := p.now()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return activity.Fallback(now)
	}

	posts := doc.Find(primaryPostSelector)
	if posts.Length() == 0 {
		posts = doc.Find(secondaryPostSelector)
	}
	if posts.Length() == 0 {
		return activity.Fallback(now)
	}

	entries := make([]activity.Entry, 0, MaxEntries)
	posts.EachWithBreak(func(i int, post *goquery.Selection) bool {
		entries = append(entries, p.entry(post, i, sourceURL, now))
		return len(entries) < MaxEntries
	})
	return entries
}

func (p *PostExtractor) entry(post *goquery.Selection, i int, sourceURL string, now time.Time) activity.Entry {
	date := activity.DaysAgo(now, i*10)
	if text, ok := firstValue(post, dateChain); ok {
		if days, ok := parseDaysAgo(text); ok {
			date = activity.DaysAgo(now, days)
		}
	}

	return activity.Entry{
		Date:        date,
		Title:       resolve(post, defaultTitle(i), titleChain...),
		Description: resolve(post, defaultDescription, descriptionChain...),
		Link:        sourceURL,
		Image:       activity.ImageOrPlaceholder(resolve(post, activity.PlaceholderImage, imageChain...)),
		Type:        p.Type,
	}.Normalize()
}

// parseDaysAgo reads texts like "3 days ago • Edited": the text must mention
// "day" and start with an integer.
func parseDaysAgo(text string) (int, bool) {
	if !strings.Contains(text, "day") {
		return 0, false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
