// Package catalog manages subscription plans and the global permission
// catalog. Plans embed permission copies made at attach time; the catalog
// itself is a flat list of named permissions.
package catalog

import (
	"context"
	"errors"
	"log/slog"
)

// PlanStore is the persistence contract for plans.
type PlanStore interface {
	Insert(ctx context.Context, plan Plan) (string, error)
	FindByID(ctx context.Context, id string) (*Plan, error)
	FindByName(ctx context.Context, name string) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, id string, plan Plan) error
	Delete(ctx context.Context, id string) error
}

// PermissionStore is the persistence contract for catalog permissions.
type PermissionStore interface {
	Insert(ctx context.Context, perm Permission) (string, error)
	FindByID(ctx context.Context, id string) (*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	Update(ctx context.Context, id string, perm Permission) error
	Delete(ctx context.Context, id string) error
}

// Service enforces the catalog invariants (unique names, non-negative
// quotas, attach-by-copy) on top of the stores.
type Service struct {
	plans PlanStore
	perms PermissionStore
	log   *slog.Logger
}

func NewService(plans PlanStore, perms PermissionStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{plans: plans, perms: perms, log: log}
}

// CreatePlan inserts a new plan. Plan names are unique across all plans.
func (s *Service) CreatePlan(ctx context.Context, plan Plan) (string, error) {
	if plan.UsageLimit < 0 {
		return "", ErrNegativeQuota
	}
	if err := rejectDuplicateRefs(plan.Permissions); err != nil {
		return "", err
	}

	if _, err := s.plans.FindByName(ctx, plan.Name); err == nil {
		return "", ErrDuplicateName
	} else if !errors.Is(err, ErrPlanNotFound) {
		return "", err
	}

	id, err := s.plans.Insert(ctx, plan)
	if err != nil {
		return "", err
	}
	s.log.InfoContext(ctx, "plan created", slog.String("plan_id", id), slog.String("name", plan.Name))
	return id, nil
}

// GetPlan returns the plan with the given id.
func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	return s.plans.FindByID(ctx, id)
}

// ListPlans returns all plans.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.plans.List(ctx)
}

// UpdatePlan replaces the plan with the given id. The new name must not
// collide with a different plan.
func (s *Service) UpdatePlan(ctx context.Context, id string, plan Plan) error {
	if plan.UsageLimit < 0 {
		return ErrNegativeQuota
	}
	if err := rejectDuplicateRefs(plan.Permissions); err != nil {
		return err
	}

	if existing, err := s.plans.FindByName(ctx, plan.Name); err == nil {
		if existing.ID != id {
			return ErrDuplicateName
		}
	} else if !errors.Is(err, ErrPlanNotFound) {
		return err
	}

	return s.plans.Update(ctx, id, plan)
}

// DeletePlan removes a plan. Subscriptions referencing it are left in place;
// their next access check surfaces the dangling reference.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

// AttachPermission copies a catalog permission into a plan's embedded list.
// The copy is by value: later edits to the catalog entry do not propagate.
func (s *Service) AttachPermission(ctx context.Context, planID, permissionID string) error {
	perm, err := s.perms.FindByID(ctx, permissionID)
	if err != nil {
		return err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return err
	}

	for _, ref := range plan.Permissions {
		if ref.Name == perm.Name {
			return ErrDuplicateName
		}
	}

	plan.Permissions = append(plan.Permissions, perm.Ref())
	return s.plans.Update(ctx, planID, *plan)
}

// CreatePermission inserts a new catalog permission. Permission names are
// unique across the catalog.
func (s *Service) CreatePermission(ctx context.Context, perm Permission) (string, error) {
	if _, err := s.perms.FindByName(ctx, perm.Name); err == nil {
		return "", ErrDuplicateName
	} else if !errors.Is(err, ErrPermissionNotFound) {
		return "", err
	}

	id, err := s.perms.Insert(ctx, perm)
	if err != nil {
		return "", err
	}
	s.log.InfoContext(ctx, "permission created", slog.String("permission_id", id), slog.String("name", perm.Name))
	return id, nil
}

// GetPermission returns the catalog permission with the given id.
func (s *Service) GetPermission(ctx context.Context, id string) (*Permission, error) {
	return s.perms.FindByID(ctx, id)
}

// ListPermissions returns all catalog permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.perms.List(ctx)
}

// UpdatePermission replaces a catalog permission. Plans that already embed a
// copy of it keep the old values.
func (s *Service) UpdatePermission(ctx context.Context, id string, perm Permission) error {
	if existing, err := s.perms.FindByName(ctx, perm.Name); err == nil {
		if existing.ID != id {
			return ErrDuplicateName
		}
	} else if !errors.Is(err, ErrPermissionNotFound) {
		return err
	}

	return s.perms.Update(ctx, id, perm)
}

// DeletePermission removes a catalog permission. Embedded copies survive.
func (s *Service) DeletePermission(ctx context.Context, id string) error {
	return s.perms.Delete(ctx, id)
}

// rejectDuplicateRefs fails when an embedded permission list carries the
// same name twice.
func rejectDuplicateRefs(refs []PermissionRef) error {
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Name]; ok {
			return ErrDuplicateName
		}
		seen[ref.Name] = struct{}{}
	}
	return nil
}
