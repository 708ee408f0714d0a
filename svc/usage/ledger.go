// Package usage tracks per-user quota consumption. Each user has one ledger
// holding a snapshot of the plan quota, a monotonically increasing used
// counter, and a one-way blocked latch that only an admin reset clears.
package usage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no ledger exists for a user.
var ErrNotFound = errors.New("usage.not_found")

// Ledger is the per-user counter record.
type Ledger struct {
	UserID     string `bson:"user_id" json:"user_id"`
	UsageLimit int64  `bson:"usage_limit" json:"usage_limit"`
	Used       int64  `bson:"used" json:"used"`
	Blocked    bool   `bson:"blocked" json:"blocked"`
}

// Remaining returns how much quota is left, never negative.
func (l Ledger) Remaining() int64 {
	if l.Used >= l.UsageLimit {
		return 0
	}
	return l.UsageLimit - l.Used
}

// Exhausted reports whether the ledger should deny further consumption.
func (l Ledger) Exhausted() bool {
	return l.Blocked || l.Used >= l.UsageLimit
}

// Store is the persistence contract for ledgers. IncrementUsed must be an
// atomic add at the storage layer; concurrent callers must never lose an
// update.
type Store interface {
	FindByUser(ctx context.Context, userID string) (*Ledger, error)
	// Init creates the ledger with the given quota snapshot if absent and
	// returns the current record either way.
	Init(ctx context.Context, userID string, limit int64) (*Ledger, error)
	// Snapshot re-snapshots the quota ceiling, creating the ledger if absent.
	// Used and Blocked are left untouched.
	Snapshot(ctx context.Context, userID string, limit int64) error
	SetBlocked(ctx context.Context, userID string) error
	IncrementUsed(ctx context.Context, userID string) (int64, error)
	Reset(ctx context.Context, userID string) error
}
