package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter URLFilter
		url    string
		want   bool
	}{
		{"empty filter", URLFilter{}, "https://anything.example/x", true},
		{"exact domain", URLFilter{Domain: "medium.com"}, "https://medium.com/@a/post", true},
		{"subdomain", URLFilter{Domain: "medium.com"}, "https://blog.medium.com/post", true},
		{"lookalike domain", URLFilter{Domain: "medium.com"}, "https://notmedium.com/post", false},
		{"other domain", URLFilter{Domain: "medium.com"}, "https://dev.to/post", false},
		{"feed suffix", URLFilter{PathSuffixes: []string{"/feed", ".xml"}}, "https://example.substack.com/feed", true},
		{"xml suffix upper", URLFilter{PathSuffixes: []string{".xml"}}, "https://example.com/RSS.XML", true},
		{"no suffix", URLFilter{PathSuffixes: []string{"/feed"}}, "https://example.com/feeds/news", false},
		{"blocked wins", URLFilter{AllowedPaths: []string{"/blog"}, BlockedPaths: []string{"/blog/drafts"}}, "https://example.com/blog/drafts/1", false},
		{"allowed", URLFilter{AllowedPaths: []string{"/blog"}}, "https://example.com/blog/1", true},
		{"not allowed", URLFilter{AllowedPaths: []string{"/blog"}}, "https://example.com/about", false},
		{"unparseable", URLFilter{}, "://bad url", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.url))
		})
	}
}
