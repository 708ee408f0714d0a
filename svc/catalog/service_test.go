package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotagate/quotagate/svc/catalog"
)

func newService() *catalog.Service {
	return catalog.NewService(catalog.NewMemoryPlanStore(), catalog.NewMemoryPermissionStore(), nil)
}

func TestCreatePlan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		plan := catalog.Plan{
			Name:        "pro",
			Description: "professional tier",
			Permissions: []catalog.PermissionRef{
				{Name: "reports", Description: "run reports", APIEndpoint: "/report"},
			},
			UsageLimit: 100,
		}

		id, err := svc.CreatePlan(ctx, plan)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := svc.GetPlan(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, plan.Name, got.Name)
		assert.Equal(t, plan.Description, got.Description)
		assert.Equal(t, plan.Permissions, got.Permissions)
		assert.Equal(t, plan.UsageLimit, got.UsageLimit)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)

		_, err = svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 20})
		assert.ErrorIs(t, err, catalog.ErrDuplicateName)
	})

	t.Run("rejects negative quota", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.CreatePlan(ctx, catalog.Plan{Name: "broken", UsageLimit: -1})
		assert.ErrorIs(t, err, catalog.ErrNegativeQuota)
	})

	t.Run("rejects duplicate embedded permission names", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.CreatePlan(ctx, catalog.Plan{
			Name: "dup",
			Permissions: []catalog.PermissionRef{
				{Name: "reports", APIEndpoint: "/report"},
				{Name: "reports", APIEndpoint: "/report/v2"},
			},
		})
		assert.ErrorIs(t, err, catalog.ErrDuplicateName)
	})
}

func TestUpdatePlan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("replaces fields", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		id, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)

		require.NoError(t, svc.UpdatePlan(ctx, id, catalog.Plan{Name: "basic", Description: "updated", UsageLimit: 25}))

		got, err := svc.GetPlan(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "updated", got.Description)
		assert.EqualValues(t, 25, got.UsageLimit)
	})

	t.Run("keeping own name is not a collision", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		id, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)

		assert.NoError(t, svc.UpdatePlan(ctx, id, catalog.Plan{Name: "basic", UsageLimit: 15}))
	})

	t.Run("renaming onto another plan fails", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)
		id, err := svc.CreatePlan(ctx, catalog.Plan{Name: "pro", UsageLimit: 100})
		require.NoError(t, err)

		err = svc.UpdatePlan(ctx, id, catalog.Plan{Name: "basic", UsageLimit: 100})
		assert.ErrorIs(t, err, catalog.ErrDuplicateName)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		err := svc.UpdatePlan(ctx, "missing", catalog.Plan{Name: "ghost"})
		assert.ErrorIs(t, err, catalog.ErrPlanNotFound)
	})
}

func TestAttachPermission(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("copies catalog fields into the plan", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		planID, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)
		permID, err := svc.CreatePermission(ctx, catalog.Permission{
			Name:        "reports",
			Description: "run reports",
			APIEndpoint: "/report",
		})
		require.NoError(t, err)

		require.NoError(t, svc.AttachPermission(ctx, planID, permID))

		plan, err := svc.GetPlan(ctx, planID)
		require.NoError(t, err)
		require.Len(t, plan.Permissions, 1)
		assert.Equal(t, "reports", plan.Permissions[0].Name)
		assert.Equal(t, "/report", plan.Permissions[0].APIEndpoint)
	})

	t.Run("catalog edits do not propagate to embedded copies", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		planID, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)
		permID, err := svc.CreatePermission(ctx, catalog.Permission{Name: "reports", APIEndpoint: "/report"})
		require.NoError(t, err)
		require.NoError(t, svc.AttachPermission(ctx, planID, permID))

		require.NoError(t, svc.UpdatePermission(ctx, permID, catalog.Permission{
			Name:        "reports",
			APIEndpoint: "/report/v2",
		}))

		plan, err := svc.GetPlan(ctx, planID)
		require.NoError(t, err)
		require.Len(t, plan.Permissions, 1)
		assert.Equal(t, "/report", plan.Permissions[0].APIEndpoint)
	})

	t.Run("duplicate attach is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		planID, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)
		permID, err := svc.CreatePermission(ctx, catalog.Permission{Name: "reports", APIEndpoint: "/report"})
		require.NoError(t, err)

		require.NoError(t, svc.AttachPermission(ctx, planID, permID))
		assert.ErrorIs(t, svc.AttachPermission(ctx, planID, permID), catalog.ErrDuplicateName)
	})

	t.Run("unknown permission", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		planID, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
		require.NoError(t, err)

		err = svc.AttachPermission(ctx, planID, "missing")
		assert.ErrorIs(t, err, catalog.ErrPermissionNotFound)
	})
}

func TestPermissionCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		_, err := svc.CreatePermission(ctx, catalog.Permission{Name: "reports"})
		require.NoError(t, err)

		_, err = svc.CreatePermission(ctx, catalog.Permission{Name: "reports"})
		assert.ErrorIs(t, err, catalog.ErrDuplicateName)
	})

	t.Run("delete then get fails", func(t *testing.T) {
		t.Parallel()
		svc := newService()

		id, err := svc.CreatePermission(ctx, catalog.Permission{Name: "reports"})
		require.NoError(t, err)

		require.NoError(t, svc.DeletePermission(ctx, id))

		_, err = svc.GetPermission(ctx, id)
		assert.ErrorIs(t, err, catalog.ErrPermissionNotFound)
	})
}

func TestDeletePlanKeepsSubscriptionsOrphaned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()

	id, err := svc.CreatePlan(ctx, catalog.Plan{Name: "basic", UsageLimit: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, id))

	_, err = svc.GetPlan(ctx, id)
	assert.ErrorIs(t, err, catalog.ErrPlanNotFound)
}
