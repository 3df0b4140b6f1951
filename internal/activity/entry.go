// Package activity defines the activity entry served to the portfolio site and
// the static sample data used when live retrieval fails.
package activity

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const (
	TitleLimit       = 100
	DescriptionLimit = 200
	Ellipsis         = "..."

	// DefaultType tags entries scraped from a profile's activity page.
	DefaultType = "linkedin"

	// PlaceholderImage is served whenever no usable absolute image URL was found.
	PlaceholderImage = "./assets/images/interview-1.jpeg"

	DefaultProfileURL = "https://www.linkedin.com/in/dr-lawrence-nderu/"
)

// Entry is one item of recent activity.
type Entry struct {
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	Type        string    `json:"type"`
}

// naiveLayouts are accepted for dates written without a zone offset, which
// older cache files carry. They are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339 dates as well as offset-less ISO 8601 ones.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	aux := struct {
		Date string `json:"date"`
		*plain
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := ParseDate(aux.Date)
	if err != nil {
		return err
	}
	e.Date = date
	return nil
}

// ParseDate parses an entry date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Truncate cuts s to limit runes and appends Ellipsis when s is longer.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + Ellipsis
}

// Normalize applies the title and description limits.
func (e Entry) Normalize() Entry {
	e.Title = Truncate(e.Title, TitleLimit)
	e.Description = Truncate(e.Description, DescriptionLimit)
	return e
}

// ImageOrPlaceholder returns raw when it is an absolute http(s) URL.
func ImageOrPlaceholder(raw string) string {
	if IsAbsoluteURL(raw) {
		return raw
	}
	return PlaceholderImage
}

func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DaysAgo returns now shifted back by n whole days.
func DaysAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}
