package spending

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqsaat/aqsaat/pkg/user"
)

var ctx = user.WithUser(context.Background(), user.User{ID: "user-1"})

var spendingRepoStub = NewStubSpendingRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(spendingRepoStub)
	return func() {
		t.Log("Teardown after test")
		spendingRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should store a spending owned by the current user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Spending{Name: "Rent", Amount: decimal.NewFromInt(800)})

		// then
		require.NoError(t, err)
		assert.Equal(t, "user-1", created.OwnerID)
		assert.Equal(t, CadenceMonthly, created.Cadence)
		assert.Equal(t, StatusActive, created.Status)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Create(ctx, Spending{Name: "Rent", Amount: decimal.NewFromInt(-1)})

		assert.Error(t, err)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Create(context.Background(), Spending{Name: "Rent"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestSpending_MonthlyEquivalent(t *testing.T) {
	t.Run("should pass monthly amounts through unchanged", func(t *testing.T) {
		s := Spending{Amount: decimal.NewFromInt(800), Cadence: CadenceMonthly}

		assert.True(t, s.MonthlyEquivalent().Equal(decimal.NewFromInt(800)))
	})

	t.Run("should scale weekly amounts by 52/12", func(t *testing.T) {
		s := Spending{Amount: decimal.NewFromInt(30), Cadence: CadenceWeekly}

		assert.True(t, s.MonthlyEquivalent().Equal(decimal.RequireFromString("130")))
	})

	t.Run("should scale daily amounts by 365/12", func(t *testing.T) {
		s := Spending{Amount: decimal.NewFromInt(12), Cadence: CadenceDaily}

		assert.True(t, s.MonthlyEquivalent().Equal(decimal.RequireFromString("365")))
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should merge the patch over the stored spending", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, Spending{Name: "Rent", Amount: decimal.NewFromInt(800)})
		require.NoError(t, err)

		// when
		amount := decimal.NewFromInt(850)
		status := StatusClosed
		updated, err := service.Update(ctx, created.ID, Patch{Amount: &amount, Status: &status})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Rent", updated.Name)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(850)))
		assert.Equal(t, StatusClosed, updated.Status)
	})

	t.Run("should not update another user's spending", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, Spending{Name: "Rent", Amount: decimal.NewFromInt(800)})
		require.NoError(t, err)

		strangerCtx := user.WithUser(context.Background(), user.User{ID: "user-2"})
		name := "My rent"
		_, err = service.Update(strangerCtx, created.ID, Patch{Name: &name})

		assert.ErrorIs(t, err, ErrSpendingNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an owned spending", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, err := service.Create(ctx, Spending{Name: "Rent", Amount: decimal.NewFromInt(800)})
		require.NoError(t, err)

		err = service.Delete(ctx, created.ID)

		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrSpendingNotFound)
	})

	t.Run("should report missing spendings", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		err := service.Delete(ctx, "nope")

		assert.ErrorIs(t, err, ErrSpendingNotFound)
	})
}
