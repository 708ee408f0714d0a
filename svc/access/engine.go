// Package access implements the access decision: given a user and a
// requested API identifier it merges plan and subscription permissions,
// gates on the usage ledger, and meters granted requests.
//
// Usage is consumed only for permitted requests that pass the quota gate;
// denied requests never cost quota. Once the quota is exhausted the ledger's
// blocked latch engages and stays engaged until an admin reset, which keeps
// "blocked" an observable state and stops the counter from creeping past the
// limit under concurrent calls.
package access

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/subscription"
	"github.com/quotagate/quotagate/svc/usage"
)

// SubscriptionSource is the slice of the subscription store the engine needs.
type SubscriptionSource interface {
	FindByUser(ctx context.Context, userID string) (*subscription.Subscription, error)
}

// PlanSource is the slice of the plan store the engine needs.
type PlanSource interface {
	FindByID(ctx context.Context, id string) (*catalog.Plan, error)
}

// LedgerSource is the slice of the usage store the engine needs.
// IncrementUsed must be atomic at the storage layer.
type LedgerSource interface {
	FindByUser(ctx context.Context, userID string) (*usage.Ledger, error)
	Init(ctx context.Context, userID string, limit int64) (*usage.Ledger, error)
	SetBlocked(ctx context.Context, userID string) error
	IncrementUsed(ctx context.Context, userID string) (int64, error)
}

// Decision is returned for a granted request. Used carries the
// post-increment counter value.
type Decision struct {
	UserID     string `json:"user_id"`
	APIRequest string `json:"api_request"`
	Used       int64  `json:"used"`
	UsageLimit int64  `json:"usage_limit"`
}

// Engine makes access decisions against the injected stores. It carries no
// state of its own; all concurrency control lives in the ledger store.
type Engine struct {
	subs    SubscriptionSource
	plans   PlanSource
	ledgers LedgerSource
	log     *slog.Logger
}

func NewEngine(subs SubscriptionSource, plans PlanSource, ledgers LedgerSource, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{subs: subs, plans: plans, ledgers: ledgers, log: log}
}

// CheckAccess decides whether userID may call apiRequest and meters the
// grant. The sequence is: subscription lookup, plan lookup, ledger lookup
// (lazily initialized), quota gate, permission match, atomic increment.
func (e *Engine) CheckAccess(ctx context.Context, userID, apiRequest string) (*Decision, error) {
	sub, err := e.subs.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return nil, ErrNotSubscribed
		}
		return nil, err
	}

	plan, err := e.plans.FindByID(ctx, sub.PlanID)
	if err != nil {
		// A dangling or malformed plan reference is a data-integrity fault,
		// not a crash: surface it as a not-found decision.
		if errors.Is(err, catalog.ErrPlanNotFound) || errors.Is(err, catalog.ErrInvalidID) {
			e.log.WarnContext(ctx, "subscription references missing plan",
				slog.String("user_id", userID), slog.String("plan_id", sub.PlanID))
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	ledger, err := e.ledgers.FindByUser(ctx, userID)
	if errors.Is(err, usage.ErrNotFound) {
		ledger, err = e.ledgers.Init(ctx, userID, plan.UsageLimit)
	}
	if err != nil {
		return nil, err
	}

	if ledger.Exhausted() {
		// Latch before failing. Setting blocked redundantly is harmless, and
		// latching here makes the state queryable instead of recomputed.
		if err := e.ledgers.SetBlocked(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrQuotaExceeded
	}

	if !permitted(plan.Permissions, sub.Permissions, apiRequest) {
		return nil, ErrPermissionDenied
	}

	used, err := e.ledgers.IncrementUsed(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.log.DebugContext(ctx, "access granted",
		slog.String("user_id", userID),
		slog.String("api_request", apiRequest),
		slog.Int64("used", used),
		slog.Int64("usage_limit", ledger.UsageLimit))

	return &Decision{
		UserID:     userID,
		APIRequest: apiRequest,
		Used:       used,
		UsageLimit: ledger.UsageLimit,
	}, nil
}

// permitted checks the requested identifier against the effective permission
// set: the plan's permissions followed by the subscription's additions.
// Matching is exact after stripping one leading path separator from each
// side; no prefix or glob semantics.
func permitted(planPerms, subPerms []catalog.PermissionRef, apiRequest string) bool {
	want := normalizeEndpoint(apiRequest)
	for _, ref := range planPerms {
		if normalizeEndpoint(ref.APIEndpoint) == want {
			return true
		}
	}
	for _, ref := range subPerms {
		if normalizeEndpoint(ref.APIEndpoint) == want {
			return true
		}
	}
	return false
}

func normalizeEndpoint(s string) string {
	return strings.TrimPrefix(s, "/")
}
