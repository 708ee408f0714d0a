// Package identity resolves the caller's role from a trusted request header
// against the user directory. It is deliberately a capability check, not
// authentication: a deployment fronted by a real token verifier can swap the
// Directory implementation without touching the rest of the service.
package identity

import (
	"context"
	"errors"
)

// Role is the coarse access level of a caller.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Domain errors for identity resolution.
var (
	ErrMissingIdentity = errors.New("identity.missing_identity")
	ErrUnknownUser     = errors.New("identity.unknown_user")
	ErrForbidden       = errors.New("identity.forbidden")
)

// Identity is a verified (user, role) pair.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// User is a directory record.
type User struct {
	UserID string `bson:"user_id" json:"user_id"`
	Role   Role   `bson:"role" json:"role"`
}

// Directory is the external user store consulted for roles.
type Directory interface {
	FindByID(ctx context.Context, userID string) (*User, error)
}

// Cache sits in front of the directory. Implementations may drop entries at
// any time; a miss just falls through to the directory.
type Cache interface {
	Get(ctx context.Context, userID string) (Role, bool)
	Set(ctx context.Context, userID string, role Role) error
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, userID string) (Role, bool) { return "", false }
func (NoopCache) Set(ctx context.Context, userID string, role Role) error {
	return nil
}
