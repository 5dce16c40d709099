package salary

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqsaat/aqsaat/pkg/fellow"
	"github.com/aqsaat/aqsaat/pkg/item"
	"github.com/aqsaat/aqsaat/pkg/spending"
	"github.com/aqsaat/aqsaat/pkg/user"
)

var userRepoStub = user.NewStubUserRepo()

var itemRepoStub = item.NewStubItemRepo()

var fellowRepoStub = fellow.NewStubFellowRepo()

var spendingRepoStub = spending.NewStubSpendingRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(user.NewUserService(userRepoStub), itemRepoStub, fellowRepoStub, spendingRepoStub)
	return func() {
		t.Log("Teardown after test")
		userRepoStub.Cleanup()
		itemRepoStub.Cleanup()
		fellowRepoStub.Cleanup()
		spendingRepoStub.Cleanup()
	}
}

func seedUser(t *testing.T, salary string) (context.Context, user.User) {
	t.Helper()
	u, err := userRepoStub.CreateUser(context.Background(), user.User{
		Name:   "Salma",
		Email:  "salma@example.com",
		Salary: decimal.RequireFromString(salary),
	})
	require.NoError(t, err)
	return user.WithUser(context.Background(), u), u
}

func TestServiceImpl_NetForCurrentUser(t *testing.T) {
	t.Run("should subtract active item and fellow deductions from the gross salary", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		ctx, u := seedUser(t, "5000")
		_, err := itemRepoStub.Store(context.Background(), item.Item{
			OwnerID:       u.ID,
			Title:         "Laptop",
			MonthlyAmount: decimal.RequireFromString("100"),
		})
		require.NoError(t, err)
		_, err = fellowRepoStub.Store(context.Background(), fellow.Fellow{
			OwnerID:       u.ID,
			Manager:       "Abu Khalid",
			MonthlyAmount: decimal.RequireFromString("166.67"),
		})
		require.NoError(t, err)

		// when
		summary, err := service.NetForCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.True(t, summary.Gross.Equal(decimal.RequireFromString("5000")))
		assert.True(t, summary.Net.Equal(decimal.RequireFromString("4733.33")),
			"net = %s", summary.Net)
	})

	t.Run("should ignore closed records", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		ctx, u := seedUser(t, "5000")
		_, err := itemRepoStub.Store(context.Background(), item.Item{
			OwnerID:       u.ID,
			Title:         "Old phone",
			MonthlyAmount: decimal.RequireFromString("100"),
			Status:        item.StatusClosed,
		})
		require.NoError(t, err)

		summary, err := service.NetForCurrentUser(ctx)

		require.NoError(t, err)
		assert.True(t, summary.Net.Equal(decimal.RequireFromString("5000")))
	})

	t.Run("should convert spending cadences to monthly equivalents", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		ctx, u := seedUser(t, "5000")
		_, err := spendingRepoStub.Store(context.Background(), spending.Spending{
			OwnerID: u.ID,
			Name:    "Groceries",
			Amount:  decimal.RequireFromString("30"),
			Cadence: spending.CadenceWeekly,
			StartIn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		summary, err := service.NetForCurrentUser(ctx)

		require.NoError(t, err)
		assert.True(t, summary.Net.Equal(decimal.RequireFromString("4870")),
			"net = %s", summary.Net)
	})

	t.Run("should return the gross untouched when the user has no records", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		ctx, _ := seedUser(t, "4200.40")

		summary, err := service.NetForCurrentUser(ctx)

		require.NoError(t, err)
		assert.True(t, summary.Net.Equal(decimal.RequireFromString("4200.40")))
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.NetForCurrentUser(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}
