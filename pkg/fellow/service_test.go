package fellow

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqsaat/aqsaat/pkg/schedule"
	"github.com/aqsaat/aqsaat/pkg/share"
	"github.com/aqsaat/aqsaat/pkg/user"
)

var ctx = user.WithUser(context.Background(), user.User{ID: "user-1"})

var fellowRepoStub = NewStubFellowRepo()

var shareRepoStub = share.NewStubShareRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(fellowRepoStub, share.NewReconciler(shareRepoStub, schedule.RemainderUniform))
	return func() {
		t.Log("Teardown after test")
		fellowRepoStub.Cleanup()
		shareRepoStub.Cleanup()
	}
}

func springPool() Fellow {
	return Fellow{
		Manager:   "Abu Khalid",
		Amount:    decimal.NewFromInt(500),
		Months:    3,
		TurnMonth: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		StartIn:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should materialize contributions starting in the start month itself", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, springPool())

		// then
		require.NoError(t, err)
		assert.Equal(t, "user-1", created.OwnerID)
		assert.True(t, created.MonthlyAmount.Equal(decimal.RequireFromString("166.67")))
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), created.EndIn)

		shares, err := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.NoError(t, err)
		require.Len(t, shares, 3)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), shares[0].DueDate)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), shares[1].DueDate)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), shares[2].DueDate)
		for _, sh := range shares {
			assert.True(t, sh.Amount.Equal(decimal.RequireFromString("166.67")))
		}
	})

	t.Run("should reject a non-positive month count", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		pool := springPool()
		pool.Months = 0

		_, err := service.Create(ctx, pool)

		assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)
		fellows, _ := fellowRepoStub.ListByOwner(ctx, "user-1")
		assert.Empty(t, fellows)
	})

	t.Run("should remove the pool again when the ledger write fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		shareRepoStub.FailReplace = true

		_, err := service.Create(ctx, springPool())

		assert.ErrorIs(t, err, share.ErrReconciliationFailed)
		fellows, _ := fellowRepoStub.ListByOwner(ctx, "user-1")
		assert.Empty(t, fellows)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should replace the contribution set when the amount changes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)

		// when
		amount := decimal.NewFromInt(600)
		updated, err := service.Update(ctx, created.ID, Patch{Amount: &amount})

		// then
		require.NoError(t, err)
		assert.True(t, updated.MonthlyAmount.Equal(decimal.RequireFromString("200")))

		shares, err := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.NoError(t, err)
		require.Len(t, shares, 3)
		for _, sh := range shares {
			assert.True(t, sh.Amount.Equal(decimal.RequireFromString("200")))
		}
	})

	t.Run("should leave the ledger alone when only the turn month changes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)
		before, err := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.NoError(t, err)

		// when
		turn := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		_, err = service.Update(ctx, created.ID, Patch{TurnMonth: &turn})

		// then
		require.NoError(t, err)
		after, err := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("should keep the old schedule on the pool when the replacement fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)
		shareRepoStub.FailReplace = true

		// when
		amount := decimal.NewFromInt(600)
		_, err = service.Update(ctx, created.ID, Patch{Amount: &amount})

		// then
		assert.ErrorIs(t, err, share.ErrReconciliationFailed)
		shares, _ := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.Len(t, shares, 3)
		stored, err := fellowRepoStub.Get(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("should converge pool and ledger when a failed update is retried", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)
		shareRepoStub.FailReplace = true

		amount := decimal.NewFromInt(600)
		_, err = service.Update(ctx, created.ID, Patch{Amount: &amount})
		require.ErrorIs(t, err, share.ErrReconciliationFailed)

		// when
		updated, err := service.Update(ctx, created.ID, Patch{Amount: &amount})

		// then
		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(600)))
		shares, err := shareRepoStub.ListByParent(ctx, share.FellowRef(created.ID))
		require.NoError(t, err)
		require.Len(t, shares, 3)
		for _, sh := range shares {
			assert.True(t, sh.Amount.Equal(decimal.RequireFromString("200")))
		}
	})

	t.Run("should not update another user's pool", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)

		strangerCtx := user.WithUser(context.Background(), user.User{ID: "user-2"})
		manager := "Someone else"
		_, err = service.Update(strangerCtx, created.ID, Patch{Manager: &manager})

		assert.ErrorIs(t, err, ErrFellowNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an owned pool", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, springPool())
		require.NoError(t, err)

		err = service.Delete(ctx, created.ID)

		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrFellowNotFound)
	})

	t.Run("should report missing pools", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		err := service.Delete(ctx, "nope")

		assert.ErrorIs(t, err, ErrFellowNotFound)
	})
}
