package extractors

import (
	"time"

	"activityfeed/internal/activity"
	"activityfeed/internal/extractors/filters"
)

// MaxEntries caps how many items any extractor returns.
const MaxEntries = 3

// Extractor turns rendered markup into activity entries. It never fails:
// when nothing usable is found it returns activity.Fallback.
type Extractor interface {
	Extract(markup, sourceURL string) []activity.Entry
}

// Option configures the clock shared by the extractors.
type Option func(*clocked)

type clocked struct {
	now func() time.Time
}

// WithClock overrides time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(c *clocked) {
		c.now = now
	}
}

func newClocked(opts []Option) clocked {
	c := clocked{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Route says how a URL is fetched and which extractor reads it.
type Route struct {
	Name      string
	Extractor Extractor
	// Static routes are fetched with a plain HTTP GET instead of a browser.
	Static bool
}

type rule struct {
	filter filters.URLFilter
	route  Route
}

// Registry holds registered routes and the default fallback.
type Registry struct {
	rules        []rule
	defaultRoute Route
}

func NewRegistry(def Route) *Registry {
	return &Registry{defaultRoute: def}
}

// Register adds a route; earlier registrations win.
func (r *Registry) Register(f filters.URLFilter, route Route) {
	r.rules = append(r.rules, rule{filter: f, route: route})
}

// ForURL returns the first matching route, or the default.
func (r *Registry) ForURL(url string) Route {
	for _, rl := range r.rules {
		if rl.filter.Matches(url) {
			return rl.route
		}
	}
	return r.defaultRoute
}

// FeedFilter matches URLs that look like RSS or Atom feeds. A bare "/feed"
// path is left out: on profile sites it is the script-rendered home timeline.
var FeedFilter = filters.URLFilter{
	PathSuffixes: []string{"/rss", "/rss/", ".rss", ".xml", ".atom"},
}

// NewDefaultRegistry wires the built-in routes: feeds first, then article
// hosts, and activity posts for everything else.
func NewDefaultRegistry(articleDomains []string, opts ...Option) *Registry {
	r := NewRegistry(Route{Name: "posts", Extractor: NewPostExtractor(opts...)})
	r.Register(FeedFilter, Route{Name: "feed", Extractor: NewFeedExtractor(opts...), Static: true})
	article := NewArticleExtractor(opts...)
	for _, d := range articleDomains {
		r.Register(filters.URLFilter{Domain: d}, Route{Name: "article", Extractor: article})
	}
	return r
}
