// internal/app/activity_handler.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"activityfeed/internal/activity"
	"activityfeed/internal/extractors"
	"activityfeed/internal/render"
)

// EntryCache is the part of cache.Store the handler needs.
type EntryCache interface {
	Read(ctx context.Context) ([]activity.Entry, bool)
	Write(ctx context.Context, entries []activity.Entry) error
}

type state int

const (
	stateCacheCheck state = iota
	stateFetch
	statePersistAndRespond
	stateFallback
	stateDone
)

func (s state) String() string {
	switch s {
	case stateCacheCheck:
		return "cache_check"
	case stateFetch:
		return "fetch"
	case statePersistAndRespond:
		return "persist"
	case stateFallback:
		return "fallback"
	default:
		return "done"
	}
}

var errFetchPanic = errors.New("fetch panicked")

// ActivityHandler serves the recent activity list for one collection. It
// always answers 200 with a JSON array.
type ActivityHandler struct {
	Cache EntryCache
	// Browser renders pages that need JavaScript.
	Browser render.Renderer
	// Static fetches routes marked Static. Browser is used when nil.
	Static     render.Renderer
	Registry   *extractors.Registry
	DefaultURL string
	Now        func() time.Time
	Log        *zap.Logger

	flights singleflight.Group
}

func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		target = h.DefaultURL
	}

	entries := h.Resolve(r.Context(), target)
	if entries == nil {
		entries = []activity.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Resolve runs the request state machine: a fresh cache answers directly,
// otherwise the page is rendered and extracted, and any fetch failure yields
// the sample entries without touching the cache.
func (h *ActivityHandler) Resolve(ctx context.Context, target string) []activity.Entry {
	log := h.logger().With(zap.String("url", target))

	var entries []activity.Entry
	st := stateCacheCheck
	for st != stateDone {
		log.Debug("activity state", zap.Stringer("state", st))
		switch st {
		case stateCacheCheck:
			if cached, ok := h.Cache.Read(ctx); ok {
				log.Debug("Cache hit", zap.Int("entries", len(cached)))
				entries = cached
				st = stateDone
				continue
			}
			st = stateFetch

		case stateFetch:
			fetched, err := h.fetchShared(ctx, target)
			if err != nil {
				log.Warn("Fetch failed, serving sample activity", zap.Error(err))
				st = stateFallback
				continue
			}
			entries = fetched
			st = statePersistAndRespond

		case statePersistAndRespond:
			if err := h.Cache.Write(context.WithoutCancel(ctx), entries); err != nil {
				log.Error("Failed to write cache", zap.Error(err))
			}
			st = stateDone

		case stateFallback:
			entries = activity.Fallback(h.now())
			st = stateDone
		}
	}
	return entries
}

// fetchShared lets concurrent misses for the same URL share one render. The
// fetch is detached from ctx so a disconnecting client does not abort it.
func (h *ActivityHandler) fetchShared(ctx context.Context, target string) ([]activity.Entry, error) {
	detached := context.WithoutCancel(ctx)
	v, err, shared := h.flights.Do(target, func() (interface{}, error) {
		return h.fetch(detached, target)
	})
	if shared {
		h.logger().Debug("Joined in-flight fetch", zap.String("url", target))
	}
	if err != nil {
		return nil, err
	}
	// each caller gets its own slice
	return append([]activity.Entry(nil), v.([]activity.Entry)...), nil
}

func (h *ActivityHandler) fetch(ctx context.Context, target string) (entries []activity.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("%w: %v", errFetchPanic, r)
		}
	}()

	route := h.Registry.ForURL(target)
	renderer := h.Browser
	if route.Static && h.Static != nil {
		renderer = h.Static
	}

	start := time.Now()
	markup, err := renderer.Render(ctx, target)
	if err != nil {
		return nil, err
	}

	entries = route.Extractor.Extract(markup, target)
	h.logger().Info("Extracted activity",
		zap.String("url", target),
		zap.String("route", route.Name),
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return entries, nil
}

func (h *ActivityHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ActivityHandler) logger() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return zap.NewNop()
}
