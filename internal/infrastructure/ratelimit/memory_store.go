package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	windows map[string]*window
	mutex   sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
	}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, length time.Duration, now time.Time) (int, time.Time, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	w, exists := s.windows[key]
	if !exists || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(length)}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.resetAt, nil
}

// Cleanup removes windows that have already reset.
func (s *MemoryStore) Cleanup(now time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}
