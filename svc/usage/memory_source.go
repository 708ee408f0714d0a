package usage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local runs. The mutex
// gives the same per-record atomicity the document store provides.
type MemoryStore struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledgers: make(map[string]*Ledger)}
}

func (s *MemoryStore) FindByUser(ctx context.Context, userID string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *ledger
	return &out, nil
}

func (s *MemoryStore) Init(ctx context.Context, userID string, limit int64) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ledger, ok := s.ledgers[userID]; ok {
		out := *ledger
		return &out, nil
	}

	ledger := &Ledger{UserID: userID, UsageLimit: limit}
	s.ledgers[userID] = ledger
	out := *ledger
	return &out, nil
}

func (s *MemoryStore) Snapshot(ctx context.Context, userID string, limit int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ledger, ok := s.ledgers[userID]; ok {
		ledger.UsageLimit = limit
		return nil
	}
	s.ledgers[userID] = &Ledger{UserID: userID, UsageLimit: limit}
	return nil
}

func (s *MemoryStore) SetBlocked(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[userID]
	if !ok {
		return ErrNotFound
	}
	ledger.Blocked = true
	return nil
}

func (s *MemoryStore) IncrementUsed(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[userID]
	if !ok {
		return 0, ErrNotFound
	}
	ledger.Used++
	return ledger.Used, nil
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.ledgers[userID]
	if !ok {
		return ErrNotFound
	}
	ledger.Used = 0
	ledger.Blocked = false
	return nil
}
