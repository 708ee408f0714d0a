package identity

import (
	"context"
	"sync"
)

// MemoryDirectory is an in-memory Directory for tests and local runs.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryDirectory(users ...User) *MemoryDirectory {
	dir := &MemoryDirectory{users: make(map[string]User, len(users))}
	for _, u := range users {
		dir.users[u.UserID] = u
	}
	return dir
}

func (d *MemoryDirectory) FindByID(ctx context.Context, userID string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return nil, ErrUnknownUser
	}
	return &user, nil
}

// Add inserts or replaces a directory record.
func (d *MemoryDirectory) Add(user User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.UserID] = user
}
