package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotagate/quotagate/svc/usage"
)

func TestStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("active ledger", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()
		_, err := store.Init(ctx, "u1", 10)
		require.NoError(t, err)
		_, err = store.IncrementUsed(ctx, "u1")
		require.NoError(t, err)

		svc := usage.NewService(store, nil)
		report, err := svc.Status(ctx, "u1")
		require.NoError(t, err)

		assert.EqualValues(t, 1, report.Used)
		assert.EqualValues(t, 10, report.UsageLimit)
		assert.EqualValues(t, 9, report.Remaining)
		assert.Equal(t, usage.StatusActive, report.Status)
	})

	t.Run("at the limit reports blocked with zero remaining", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()
		_, err := store.Init(ctx, "u1", 1)
		require.NoError(t, err)
		_, err = store.IncrementUsed(ctx, "u1")
		require.NoError(t, err)

		svc := usage.NewService(store, nil)
		report, err := svc.Status(ctx, "u1")
		require.NoError(t, err)

		assert.Equal(t, usage.StatusBlocked, report.Status)
		assert.EqualValues(t, 0, report.Remaining)
	})

	t.Run("missing ledger", func(t *testing.T) {
		t.Parallel()
		svc := usage.NewService(usage.NewMemoryStore(), nil)

		_, err := svc.Status(ctx, "ghost")
		assert.ErrorIs(t, err, usage.ErrNotFound)
	})
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("zeroes counter and clears latch", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()
		_, err := store.Init(ctx, "u1", 2)
		require.NoError(t, err)
		_, err = store.IncrementUsed(ctx, "u1")
		require.NoError(t, err)
		_, err = store.IncrementUsed(ctx, "u1")
		require.NoError(t, err)
		require.NoError(t, store.SetBlocked(ctx, "u1"))

		svc := usage.NewService(store, nil)
		result, err := svc.Reset(ctx, "u1")
		require.NoError(t, err)

		assert.EqualValues(t, 0, result.Used)
		assert.EqualValues(t, 2, result.UsageLimit)
		assert.Equal(t, usage.StatusActive, result.Status)

		ledger, err := store.FindByUser(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ledger.Blocked)
		assert.EqualValues(t, 0, ledger.Used)
	})

	t.Run("idempotent on active ledger", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()
		_, err := store.Init(ctx, "u1", 5)
		require.NoError(t, err)

		svc := usage.NewService(store, nil)
		for range 2 {
			result, err := svc.Reset(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, usage.StatusActive, result.Status)
		}
	})

	t.Run("missing ledger", func(t *testing.T) {
		t.Parallel()
		svc := usage.NewService(usage.NewMemoryStore(), nil)

		_, err := svc.Reset(ctx, "ghost")
		assert.ErrorIs(t, err, usage.ErrNotFound)
	})
}

func TestLedgerHelpers(t *testing.T) {
	t.Parallel()

	t.Run("remaining never negative", func(t *testing.T) {
		t.Parallel()
		ledger := usage.Ledger{UsageLimit: 2, Used: 5}
		assert.EqualValues(t, 0, ledger.Remaining())
	})

	t.Run("blocked latch exhausts regardless of counter", func(t *testing.T) {
		t.Parallel()
		ledger := usage.Ledger{UsageLimit: 10, Used: 1, Blocked: true}
		assert.True(t, ledger.Exhausted())
	})
}

func TestMemoryStoreSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("updates ceiling only", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()
		_, err := store.Init(ctx, "u1", 2)
		require.NoError(t, err)
		_, err = store.IncrementUsed(ctx, "u1")
		require.NoError(t, err)
		require.NoError(t, store.SetBlocked(ctx, "u1"))

		require.NoError(t, store.Snapshot(ctx, "u1", 50))

		ledger, err := store.FindByUser(ctx, "u1")
		require.NoError(t, err)
		assert.EqualValues(t, 50, ledger.UsageLimit)
		assert.EqualValues(t, 1, ledger.Used)
		assert.True(t, ledger.Blocked)
	})

	t.Run("creates ledger when absent", func(t *testing.T) {
		t.Parallel()
		store := usage.NewMemoryStore()

		require.NoError(t, store.Snapshot(ctx, "u1", 7))

		ledger, err := store.FindByUser(ctx, "u1")
		require.NoError(t, err)
		assert.EqualValues(t, 7, ledger.UsageLimit)
		assert.EqualValues(t, 0, ledger.Used)
	})
}
