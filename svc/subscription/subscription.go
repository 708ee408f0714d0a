// Package subscription binds a user to one plan and carries optional
// user-specific permission additions. One subscription per user is the
// package invariant.
package subscription

import (
	"errors"
	"time"

	"github.com/quotagate/quotagate/svc/catalog"
)

// Domain errors for subscription operations.
var (
	ErrNotFound          = errors.New("subscription.not_found")
	ErrAlreadySubscribed = errors.New("subscription.already_subscribed")
)

// Subscription binds one user to one plan. Permissions, when present, are
// additions on top of the plan's permission list, never removals.
type Subscription struct {
	UserID      string                  `bson:"user_id" json:"user_id"`
	PlanID      string                  `bson:"plan_id" json:"plan_id"`
	StartDate   time.Time               `bson:"start_date" json:"start_date"`
	Permissions []catalog.PermissionRef `bson:"permissions,omitempty" json:"permissions,omitempty"`
}

// Detail is the subscription joined with its plan for display.
type Detail struct {
	UserID          string                  `json:"user_id"`
	PlanName        string                  `json:"plan_name"`
	PlanDescription string                  `json:"plan_description"`
	Permissions     []catalog.PermissionRef `json:"permissions"`
}
