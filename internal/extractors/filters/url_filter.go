// internal/extractors/filters/url_filter.go
package filters

import (
	"net/url"
	"strings"
)

// URLFilter describes which URLs a rule applies to. Empty fields match
// everything.
type URLFilter struct {
	Domain       string   // host or parent domain, e.g. "medium.com"
	PathSuffixes []string // path must end with one of these
	AllowedPaths []string // path must contain one of these
	BlockedPaths []string // Takes priority over AllowedPaths
}

// Matches reports whether urlStr satisfies the filter. Unparseable URLs never
// match.
func (f URLFilter) Matches(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if f.Domain != "" && !hostMatches(u.Hostname(), f.Domain) {
		return false
	}

	path := strings.ToLower(u.Path)

	// Check blocked paths first (highest priority)
	for _, blocked := range f.BlockedPaths {
		if strings.Contains(path, blocked) {
			return false
		}
	}

	if len(f.PathSuffixes) > 0 && !hasAnySuffix(path, f.PathSuffixes) {
		return false
	}

	if len(f.AllowedPaths) == 0 {
		return true
	}
	for _, allowed := range f.AllowedPaths {
		if strings.Contains(path, allowed) {
			return true
		}
	}
	return false
}

func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
