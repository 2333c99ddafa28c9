package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// MemoryStore keeps revoked tokens in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.RevokedToken
	now     func() time.Time
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Pruner = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.RevokedToken), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	key := HashToken(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists {
		s.entries[key] = domain.RevokedToken{
			TokenHash: key,
			RevokedAt: s.now().UTC(),
			ExpiresAt: expiresAt.UTC(),
		}
	}
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[HashToken(token)]
	return exists, nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key, entry := range s.entries {
		if entry.ExpiresAt.Before(before) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
