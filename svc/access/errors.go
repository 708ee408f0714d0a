package access

import "errors"

// Domain errors for access decisions.
var (
	// ErrNotSubscribed is returned when the user has no subscription.
	ErrNotSubscribed = errors.New("access.not_subscribed")

	// ErrPlanNotFound is returned when the subscription references a plan
	// that no longer exists.
	ErrPlanNotFound = errors.New("access.plan_not_found")

	// ErrQuotaExceeded is returned when the ledger is blocked or the counter
	// has reached the quota.
	ErrQuotaExceeded = errors.New("access.quota_exceeded")

	// ErrPermissionDenied is returned when the requested endpoint is not in
	// the effective permission set.
	ErrPermissionDenied = errors.New("access.permission_denied")
)
