package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"activityfeed/internal/fetch"
)

const maxBodyBytes = 5 * 1024 * 1024

// StaticRenderer fetches the raw document over HTTP without running scripts.
// It serves feeds and pages that need no client-side rendering.
type StaticRenderer struct {
	client *fetch.Client
}

func NewStaticRenderer(client *fetch.Client) *StaticRenderer {
	return &StaticRenderer{client: client}
}

func (s *StaticRenderer) Render(ctx context.Context, url string) (string, error) {
	resp, err := s.client.Get(ctx, url, map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return "", &Error{Step: StepNavigate, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", &Error{Step: StepNavigate, URL: url, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{Step: StepCapture, URL: url, Err: err}
	}
	return decode(data, resp.Header.Get("Content-Type")), nil
}

// decode converts data to UTF-8 using the declared or sniffed charset.
func decode(data []byte, contentType string) string {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(out)
}
