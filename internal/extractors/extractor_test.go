package extractors

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityfeed/internal/extractors/filters"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestDefaultRegistryRoutes(t *testing.T) {
	r := NewDefaultRegistry([]string{"medium.com", "dev.to"})

	tests := []struct {
		url    string
		name   string
		static bool
	}{
		{"https://www.linkedin.com/in/someone/", "posts", false},
		{"https://medium.com/@someone/post-1", "article", false},
		{"https://someone.medium.com/post-1", "article", false},
		{"https://dev.to/someone/post", "article", false},
		{"https://www.linkedin.com/feed/", "posts", false},
		{"https://www.linkedin.com/feed", "posts", false},
		{"https://medium.com/feed/@someone", "article", false},
		{"https://blog.example.com/atom.atom", "feed", true},
		{"https://blog.example.com/rss", "feed", true},
		{"https://blog.example.com/index.xml", "feed", true},
		{"https://notmedium.com/post", "posts", false},
		{"::not a url", "posts", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			route := r.ForURL(tt.url)
			assert.Equal(t, tt.name, route.Name)
			assert.Equal(t, tt.static, route.Static)
			assert.NotNil(t, route.Extractor)
		})
	}
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	r := NewRegistry(Route{Name: "default"})
	r.Register(filters.URLFilter{Domain: "example.com"}, Route{Name: "first"})
	r.Register(filters.URLFilter{Domain: "example.com"}, Route{Name: "second"})

	assert.Equal(t, "first", r.ForURL("https://example.com/a").Name)
	assert.Equal(t, "default", r.ForURL("https://other.org/a").Name)
}
