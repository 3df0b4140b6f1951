// Package cache stores the most recent activity payload with the time it was
// written. A record older than the configured TTL is treated as absent, and so
// is any record that cannot be read or decoded: a broken cache behaves like a
// cold one.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"activityfeed/internal/activity"
)

var (
	ErrNotFound = errors.New("cache: no record")
	ErrExpired  = errors.New("cache: record expired")
)

// Record is the persisted document.
type Record struct {
	Timestamp float64          `json:"timestamp"`
	Data      []activity.Entry `json:"data"`
}

// WrittenAt converts the epoch-seconds timestamp.
func (r Record) WrittenAt() time.Time {
	sec := int64(r.Timestamp)
	nsec := int64((r.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Backend persists a single Record. Load returns ErrNotFound when nothing has
// been written yet.
type Backend interface {
	Name() string
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
	Close() error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now (useful for testing expiry).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store applies the expiry window on top of a Backend.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// New creates a Store. A nil logger discards output.
func New(b Backend, ttl time.Duration, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		backend: b,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the cached entries when a fresh, non-empty record exists.
func (s *Store) Read(ctx context.Context) ([]activity.Entry, bool) {
	rec, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired) {
			s.log.Debug("Cache miss", zap.String("backend", s.backend.Name()), zap.Error(err))
		} else {
			s.log.Warn("Error reading cache", zap.String("backend", s.backend.Name()), zap.Error(err))
		}
		return nil, false
	}
	if len(rec.Data) == 0 {
		return nil, false
	}
	return rec.Data, true
}

func (s *Store) load(ctx context.Context) (Record, error) {
	rec, err := s.backend.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	age := epochSeconds(s.now()) - rec.Timestamp
	if age > s.ttl.Seconds() {
		return Record{}, fmt.Errorf("written %s ago: %w", time.Duration(age*float64(time.Second)).Round(time.Second), ErrExpired)
	}
	return rec, nil
}

// Write replaces the stored record with entries stamped with the current time.
func (s *Store) Write(ctx context.Context, entries []activity.Entry) error {
	rec := Record{
		Timestamp: epochSeconds(s.now()),
		Data:      entries,
	}
	if err := s.backend.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving to %s cache: %w", s.backend.Name(), err)
	}
	return nil
}

// Inspect returns the stored record regardless of its age.
func (s *Store) Inspect(ctx context.Context) (Record, error) {
	return s.backend.Load(ctx)
}

// Fresh reports whether rec is inside the expiry window.
func (s *Store) Fresh(rec Record) bool {
	return epochSeconds(s.now())-rec.Timestamp <= s.ttl.Seconds()
}

func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) BackendName() string {
	return s.backend.Name()
}

// encodeEntries and decodeEntries serialize the payload for backends that keep
// it as an opaque string column.
func encodeEntries(entries []activity.Entry) (string, error) {
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding entries: %w", err)
	}
	return string(b), nil
}

func decodeEntries(data string) ([]activity.Entry, error) {
	var entries []activity.Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}
