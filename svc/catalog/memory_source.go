package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryPlanStore is an in-memory PlanStore for tests and local runs.
// Values are deep-copied on the way in and out so callers cannot mutate
// the store's state.
type MemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{plans: make(map[string]Plan)}
}

func (s *MemoryPlanStore) Insert(ctx context.Context, plan Plan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan.ID = uuid.NewString()
	plan.Permissions = slices.Clone(plan.Permissions)
	s.plans[plan.ID] = plan
	return plan.ID, nil
}

func (s *MemoryPlanStore) FindByID(ctx context.Context, id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	plan.Permissions = slices.Clone(plan.Permissions)
	return &plan, nil
}

func (s *MemoryPlanStore) FindByName(ctx context.Context, name string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		if plan.Name == name {
			plan.Permissions = slices.Clone(plan.Permissions)
			return &plan, nil
		}
	}
	return nil, ErrPlanNotFound
}

func (s *MemoryPlanStore) List(ctx context.Context) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Plan, 0, len(s.plans))
	for _, plan := range s.plans {
		plan.Permissions = slices.Clone(plan.Permissions)
		out = append(out, plan)
	}
	return out, nil
}

func (s *MemoryPlanStore) Update(ctx context.Context, id string, plan Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return ErrPlanNotFound
	}
	plan.ID = id
	plan.Permissions = slices.Clone(plan.Permissions)
	s.plans[id] = plan
	return nil
}

func (s *MemoryPlanStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return ErrPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

// MemoryPermissionStore is an in-memory PermissionStore for tests and local
// runs.
type MemoryPermissionStore struct {
	mu    sync.RWMutex
	perms map[string]Permission
}

func NewMemoryPermissionStore() *MemoryPermissionStore {
	return &MemoryPermissionStore{perms: make(map[string]Permission)}
}

func (s *MemoryPermissionStore) Insert(ctx context.Context, perm Permission) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perm.ID = uuid.NewString()
	s.perms[perm.ID] = perm
	return perm.ID, nil
}

func (s *MemoryPermissionStore) FindByID(ctx context.Context, id string) (*Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perm, ok := s.perms[id]
	if !ok {
		return nil, ErrPermissionNotFound
	}
	return &perm, nil
}

func (s *MemoryPermissionStore) FindByName(ctx context.Context, name string) (*Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, perm := range s.perms {
		if perm.Name == name {
			return &perm, nil
		}
	}
	return nil, ErrPermissionNotFound
}

func (s *MemoryPermissionStore) List(ctx context.Context) ([]Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Permission, 0, len(s.perms))
	for _, perm := range s.perms {
		out = append(out, perm)
	}
	return out, nil
}

func (s *MemoryPermissionStore) Update(ctx context.Context, id string, perm Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.perms[id]; !ok {
		return ErrPermissionNotFound
	}
	perm.ID = id
	s.perms[id] = perm
	return nil
}

func (s *MemoryPermissionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.perms[id]; !ok {
		return ErrPermissionNotFound
	}
	delete(s.perms, id)
	return nil
}
