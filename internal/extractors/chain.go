package extractors

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy looks up one field inside a post element.
type Strategy func(post *goquery.Selection) (string, bool)

// textOf returns the whitespace-normalized text of the first match.
func textOf(selector string) Strategy {
	return func(post *goquery.Selection) (string, bool) {
		s := post.Find(selector).First()
		if s.Length() == 0 {
			return "", false
		}
		text := cleanText(s.Text())
		return text, text != ""
	}
}

// attrOf returns attribute attr of the first match.
func attrOf(selector, attr string) Strategy {
	return func(post *goquery.Selection) (string, bool) {
		v, ok := post.Find(selector).First().Attr(attr)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
}

// resolve runs strategies in order and returns the first value found, or def.
func resolve(post *goquery.Selection, def string, strategies ...Strategy) string {
	if v, ok := firstValue(post, strategies); ok {
		return v
	}
	return def
}

func firstValue(post *goquery.Selection, chain []Strategy) (string, bool) {
	for _, s := range chain {
		if v, ok := s(post); ok {
			return v, true
		}
	}
	return "", false
}

// defaultTitle is the synthesized title for the i-th entry (zero-based).
func defaultTitle(i int) string {
	return fmt.Sprintf("LinkedIn Update %d", i+1)
}

// cleanText trims s and collapses inner whitespace runs to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
