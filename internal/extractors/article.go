package extractors

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"activityfeed/internal/activity"
)

const ArticleType = "article"

// ArticleExtractor reads a single blog post page with go-readability and
// returns it as one entry.
type ArticleExtractor struct {
	clocked
}

func NewArticleExtractor(opts ...Option) *ArticleExtractor {
	return &ArticleExtractor{clocked: newClocked(opts)}
}

func (a *ArticleExtractor) Extract(markup, sourceURL string) []activity.Entry {
	now := a.now()

	base, err := url.Parse(sourceURL)
	if err != nil {
		base = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(markup), base)
	if err != nil || strings.TrimSpace(article.Title) == "" {
		return activity.Fallback(now)
	}

	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(markup))

	description := cleanText(article.Excerpt)
	if description == "" {
		description = cleanText(article.TextContent)
	}
	if description == "" {
		description = defaultDescription
	}

	image := article.Image
	if image == "" && doc != nil {
		image = metaImage(doc)
	}

	date := now
	if doc != nil {
		if t, ok := metaPublished(doc); ok {
			date = t
		}
	}

	return []activity.Entry{
		activity.Entry{
			Date:        date,
			Title:       cleanText(article.Title),
			Description: description,
			Link:        sourceURL,
			Image:       activity.ImageOrPlaceholder(resolveImage(base, image)),
			Type:        ArticleType,
		}.Normalize(),
	}
}

// metaImage extracts an image URL from Open Graph and Twitter Card meta tags.
func metaImage(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="article:image"]`,
	} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func metaPublished(doc *goquery.Document) (time.Time, bool) {
	for _, sel := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`time[datetime]`,
	} {
		s := doc.Find(sel).First()
		v, ok := s.Attr("content")
		if !ok {
			v, ok = s.Attr("datetime")
		}
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveImage makes protocol-relative and root-relative image paths absolute.
func resolveImage(base *url.URL, src string) string {
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	if base == nil || base.Host == "" {
		return src
	}
	return base.ResolveReference(ref).String()
}
