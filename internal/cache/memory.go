package cache

import (
	"context"
	"sync"

	"activityfeed/internal/activity"
)

// MemoryBackend holds the record in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	record *Record
	saves  int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Load(ctx context.Context) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return Record{}, ErrNotFound
	}
	return copyRecord(*m.record), nil
}

func (m *MemoryBackend) Save(ctx context.Context, rec Record) error {
	rec = copyRecord(rec)
	m.mu.Lock()
	m.record = &rec
	m.saves++
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.record = nil
	m.mu.Unlock()
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryBackend) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryBackend) Close() error { return nil }

func copyRecord(rec Record) Record {
	if rec.Data != nil {
		rec.Data = append([]activity.Entry(nil), rec.Data...)
	}
	return rec
}
