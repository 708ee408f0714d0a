package access_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotagate/quotagate/core"
	accessmod "github.com/quotagate/quotagate/modules/access"
	"github.com/quotagate/quotagate/svc/access"
	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/subscription"
	"github.com/quotagate/quotagate/svc/usage"
)

func newServer(t *testing.T) (*httptest.Server, *catalog.MemoryPlanStore, *subscription.MemoryStore, *usage.MemoryStore) {
	t.Helper()

	plans := catalog.NewMemoryPlanStore()
	subs := subscription.NewMemoryStore()
	ledgers := usage.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := access.NewEngine(subs, plans, ledgers, log)
	srv := httptest.NewServer(accessmod.Router(engine))
	t.Cleanup(srv.Close)

	return srv, plans, subs, ledgers
}

func seed(t *testing.T, plans *catalog.MemoryPlanStore, subs *subscription.MemoryStore, limit int64, endpoints ...string) {
	t.Helper()
	ctx := context.Background()

	refs := make([]catalog.PermissionRef, 0, len(endpoints))
	for _, ep := range endpoints {
		refs = append(refs, catalog.PermissionRef{Name: ep, APIEndpoint: ep})
	}

	planID, err := plans.Insert(ctx, catalog.Plan{Name: "basic", Permissions: refs, UsageLimit: limit})
	require.NoError(t, err)
	require.NoError(t, subs.Insert(ctx, subscription.Subscription{UserID: "u1", PlanID: planID}))
}

func check(t *testing.T, srv *httptest.Server, userID, apiRequest string) (int, core.JSONResponse) {
	t.Helper()

	resp, err := http.Get(srv.URL + "/" + userID + "/" + apiRequest)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body core.JSONResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRouter_Granted(t *testing.T) {
	t.Parallel()

	srv, plans, subs, _ := newServer(t)
	seed(t, plans, subs, 10, "reports")

	status, body := check(t, srv, "u1", "reports")
	require.Equal(t, http.StatusOK, status)

	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "granted", data["access"])
	require.Equal(t, "u1", data["user_id"])
	require.Equal(t, "reports", data["api_request"])
	require.EqualValues(t, 1, data["used"])
	require.EqualValues(t, 10, data["usage_limit"])
}

func TestRouter_NotSubscribed(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newServer(t)

	status, body := check(t, srv, "ghost", "reports")
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	require.Equal(t, "not_subscribed", body.Error.Code)
}

func TestRouter_PermissionDenied(t *testing.T) {
	t.Parallel()

	srv, plans, subs, ledgers := newServer(t)
	seed(t, plans, subs, 10, "reports")

	status, body := check(t, srv, "u1", "billing")
	require.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, body.Error)
	require.Equal(t, "permission_denied", body.Error.Code)

	// A denied request must not consume quota.
	ledger, err := ledgers.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.EqualValues(t, 0, ledger.Used)
}

func TestRouter_QuotaExceeded(t *testing.T) {
	t.Parallel()

	srv, plans, subs, ledgers := newServer(t)
	seed(t, plans, subs, 1, "reports")

	status, _ := check(t, srv, "u1", "reports")
	require.Equal(t, http.StatusOK, status)

	status, body := check(t, srv, "u1", "reports")
	require.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, body.Error)
	require.Equal(t, "quota_exceeded", body.Error.Code)

	ledger, err := ledgers.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ledger.Blocked)
}

func TestRouter_DanglingPlan(t *testing.T) {
	t.Parallel()

	srv, _, subs, _ := newServer(t)
	require.NoError(t, subs.Insert(context.Background(), subscription.Subscription{UserID: "u1", PlanID: "missing"}))

	status, body := check(t, srv, "u1", "reports")
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	require.Equal(t, "plan_not_found", body.Error.Code)
}
