package session

import (
	"context"
	"sync"
	"time"
)

// Store tracks revoked session ids. A session token stays valid until its
// expiry unless its id has been revoked by logout.
type Store interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// MemoryStore is a process-local Store for single-instance deployments
// and tests. Expired entries are dropped on read and by PruneExpired.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // session id -> revocation expiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.revoked[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if time.Now().After(expiry) {
		// The token itself has expired by now, the entry is dead weight.
		s.mu.Lock()
		delete(s.revoked, sessionID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// PruneExpired removes entries whose revocation window has passed and
// returns how many were dropped.
func (s *MemoryStore) PruneExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
			pruned++
		}
	}
	return pruned
}

// Len reports the number of tracked revocations
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
