package catalog

import "errors"

// Domain errors for catalog operations.
var (
	ErrPlanNotFound       = errors.New("catalog.plan_not_found")
	ErrPermissionNotFound = errors.New("catalog.permission_not_found")
	ErrDuplicateName      = errors.New("catalog.duplicate_name")
	ErrInvalidID          = errors.New("catalog.invalid_id")
	ErrNegativeQuota      = errors.New("catalog.negative_quota")
)
