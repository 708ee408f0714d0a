package subscription

import (
	"context"
	"slices"
	"sync"

	"github.com/quotagate/quotagate/svc/catalog"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

func (s *MemoryStore) FindByUser(ctx context.Context, userID string) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	sub.Permissions = slices.Clone(sub.Permissions)
	return &sub, nil
}

func (s *MemoryStore) Insert(ctx context.Context, sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.UserID]; ok {
		return ErrAlreadySubscribed
	}
	sub.Permissions = slices.Clone(sub.Permissions)
	s.subs[sub.UserID] = sub
	return nil
}

func (s *MemoryStore) UpdatePlan(ctx context.Context, userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[userID]
	if !ok {
		return ErrNotFound
	}
	sub.PlanID = planID
	s.subs[userID] = sub
	return nil
}

func (s *MemoryStore) AppendPermission(ctx context.Context, userID string, ref catalog.PermissionRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[userID]
	if !ok {
		return ErrNotFound
	}
	sub.Permissions = append(slices.Clone(sub.Permissions), ref)
	s.subs[userID] = sub
	return nil
}
