package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/usage"
)

// Store is the persistence contract for subscriptions.
type Store interface {
	FindByUser(ctx context.Context, userID string) (*Subscription, error)
	Insert(ctx context.Context, sub Subscription) error
	UpdatePlan(ctx context.Context, userID, planID string) error
	AppendPermission(ctx context.Context, userID string, ref catalog.PermissionRef) error
}

// Service implements the subscription lifecycle. It snapshots the plan quota
// onto the usage ledger at subscribe time and re-snapshots it on plan change.
type Service struct {
	subs    Store
	plans   catalog.PlanStore
	ledgers usage.Store
	log     *slog.Logger
}

func NewService(subs Store, plans catalog.PlanStore, ledgers usage.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{subs: subs, plans: plans, ledgers: ledgers, log: log}
}

// Subscribe creates a subscription to the named plan and eagerly initializes
// the usage ledger with the plan's quota snapshot.
func (s *Service) Subscribe(ctx context.Context, userID, planName string) (*Subscription, error) {
	plan, err := s.plans.FindByName(ctx, planName)
	if err != nil {
		return nil, err
	}

	if _, err := s.subs.FindByUser(ctx, userID); err == nil {
		return nil, ErrAlreadySubscribed
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sub := Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: time.Now().UTC(),
	}
	if err := s.subs.Insert(ctx, sub); err != nil {
		return nil, err
	}

	if _, err := s.ledgers.Init(ctx, userID, plan.UsageLimit); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription created",
		slog.String("user_id", userID), slog.String("plan", planName))
	return &sub, nil
}

// Get returns the subscription joined with its plan details.
func (s *Service) Get(ctx context.Context, userID string) (*Detail, error) {
	sub, err := s.subs.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	return &Detail{
		UserID:          sub.UserID,
		PlanName:        plan.Name,
		PlanDescription: plan.Description,
		Permissions:     append(append([]catalog.PermissionRef{}, plan.Permissions...), sub.Permissions...),
	}, nil
}

// Modify switches an existing subscription to the named plan and
// re-snapshots the ledger's quota ceiling. Used and blocked carry over on
// purpose: changing plans updates the ceiling, it does not grant a fresh
// allotment. Only an admin reset does that.
func (s *Service) Modify(ctx context.Context, userID, planName string) (*Subscription, error) {
	sub, err := s.subs.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByName(ctx, planName)
	if err != nil {
		return nil, err
	}

	if err := s.subs.UpdatePlan(ctx, userID, plan.ID); err != nil {
		return nil, err
	}
	if err := s.ledgers.Snapshot(ctx, userID, plan.UsageLimit); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription modified",
		slog.String("user_id", userID), slog.String("plan", planName))

	sub.PlanID = plan.ID
	return sub, nil
}

// AddPermission appends a user-specific permission addition. Duplicates by
// name against the plan's permissions and existing additions are rejected.
func (s *Service) AddPermission(ctx context.Context, userID string, ref catalog.PermissionRef) error {
	sub, err := s.subs.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	plan, err := s.plans.FindByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}

	for _, existing := range plan.Permissions {
		if existing.Name == ref.Name {
			return catalog.ErrDuplicateName
		}
	}
	for _, existing := range sub.Permissions {
		if existing.Name == ref.Name {
			return catalog.ErrDuplicateName
		}
	}

	return s.subs.AppendPermission(ctx, userID, ref)
}
