package summarystore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/digestly/internal/domain/summary"
)

type entry struct {
	result    summary.Result
	expiresAt time.Time
}

// maxEntries caps the in-process cache so a stream of one-off documents
// cannot grow it without bound.
const maxEntries = 1024

// MemoryStore caches summaries in process memory; the default when no
// external cache is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

// Get implements summary.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (summary.Result, bool, error) {
	s.mu.RLock()
	record, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return summary.Result{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return summary.Result{}, false, nil
	}
	return record.result, true, nil
}

// Save caches the result with optional TTL, evicting when the cap is hit.
func (s *MemoryStore) Save(_ context.Context, key string, res summary.Result, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= maxEntries {
		s.evictLocked()
	}
	s.entries[key] = entry{result: res, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// evictLocked sweeps expired entries first and, if the store is still full,
// drops arbitrary entries until there is room for one more.
func (s *MemoryStore) evictLocked() {
	for key, record := range s.entries {
		if hasExpired(record.expiresAt) {
			delete(s.entries, key)
		}
	}
	for key := range s.entries {
		if len(s.entries) < maxEntries {
			break
		}
		delete(s.entries, key)
	}
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ summary.Store = (*MemoryStore)(nil)
