package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Store is an in-memory result cache keyed by content hash, so re-uploads of
// the same receipt photo skip the OCR pipeline entirely. Entries expire after
// a TTL; expiry is enforced lazily on access and opportunistically on write.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]entry
}

type entry struct {
	value   map[string]any
	expires time.Time
}

func NewStore(ttl time.Duration, maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Store{ttl: ttl, maxSize: maxSize, entries: make(map[string]entry)}
}

// Key computes the cache key for raw file content.
func Key(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func (s *Store) Get(key string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, value map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) >= s.maxSize {
		// full of live entries; drop one arbitrarily rather than grow
		for k := range s.entries {
			delete(s.entries, k)
			break
		}
	}
	s.entries[key] = entry{value: value, expires: now.Add(s.ttl)}
}
