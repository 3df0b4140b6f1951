package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"activityfeed/internal/activity"
)

const FeedType = "feed"

// FeedExtractor reads the newest items of an RSS or Atom document.
type FeedExtractor struct {
	clocked
	parser *gofeed.Parser
}

func NewFeedExtractor(opts ...Option) *FeedExtractor {
	return &FeedExtractor{clocked: newClocked(opts), parser: gofeed.NewParser()}
}

func (f *FeedExtractor) Extract(markup, sourceURL string) []activity.Entry {
	now := f.now()

	feed, err := f.parser.ParseString(markup)
	if err != nil || len(feed.Items) == 0 {
		return activity.Fallback(now)
	}

	items := feed.Items
	if len(items) > MaxEntries {
		items = items[:MaxEntries]
	}

	entries := make([]activity.Entry, 0, len(items))
	for i, item := range items {
		date := activity.DaysAgo(now, i*10)
		switch {
		case item.PublishedParsed != nil:
			date = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			date = *item.UpdatedParsed
		}

		title := cleanText(item.Title)
		if title == "" {
			title = defaultTitle(i)
		}

		description := htmlText(item.Description)
		if description == "" {
			description = htmlText(item.Content)
		}
		if description == "" {
			description = defaultDescription
		}

		entries = append(entries, activity.Entry{
			Date:        date,
			Title:       title,
			Description: description,
			Link:        sourceURL,
			Image:       activity.ImageOrPlaceholder(itemImage(item)),
			Type:        FeedType,
		}.Normalize())
	}
	return entries
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	// first inline image in the description
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description)); err == nil {
		if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
			return src
		}
	}
	return ""
}

// htmlText reduces an HTML fragment to its visible text.
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}
	return cleanText(doc.Text())
}
