package memory

import (
	"context"
	"sync"

	"frontdesk/internal/app/middleware"
)

// IdempotencyStore keeps reservation state and results in memory.
type IdempotencyStore struct {
	mu       sync.Mutex
	inflight map[string]bool
	done     map[string]middleware.StoredResult
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		inflight: make(map[string]bool),
		done:     make(map[string]middleware.StoredResult),
	}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (*middleware.StoredResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.done[key]; ok {
		return &rec, nil
	}
	if s.inflight[key] {
		return nil, middleware.ErrIdempotencyConflict
	}
	s.inflight[key] = true
	return nil, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, result middleware.StoredResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
	s.done[key] = result
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
