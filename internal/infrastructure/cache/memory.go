package cache

import (
	"context"
	"sync"
)

// MemoryRefreshStore is a process-local RefreshStore. It backs tests and
// single-instance deployments that run without redis; tokens do not survive a
// restart and no TTL is enforced.
type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: make(map[string]string)}
}

func (s *MemoryRefreshStore) Save(ctx context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *MemoryRefreshStore) Take(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.tokens, token)
	return userID, nil
}

func (s *MemoryRefreshStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return ErrTokenNotFound
	}
	delete(s.tokens, token)
	return nil
}

// Len reports how many live tokens the store holds.
func (s *MemoryRefreshStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
