package share

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqsaat/aqsaat/pkg/schedule"
)

var shareRepoStub = NewStubShareRepo()

func setupReconciler(t *testing.T) (*Reconciler, func()) {
	r := NewReconciler(shareRepoStub, schedule.RemainderUniform)
	return r, func() {
		t.Log("Teardown after test")
		shareRepoStub.Cleanup()
	}
}

func itemParent(months int) Parent {
	return Parent{
		Ref:            ItemRef("item-1"),
		OwnerID:        "user-1",
		Total:          decimal.NewFromInt(1200),
		Months:         months,
		StartIn:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		AlignNextMonth: true,
	}
}

func TestReconciler_OnParentCreate(t *testing.T) {
	t.Run("should materialize one share per month", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		// when
		shares, err := r.OnParentCreate(context.Background(), itemParent(12))

		// then
		require.NoError(t, err)
		require.Len(t, shares, 12)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), shares[0].DueDate)
		for _, s := range shares {
			assert.True(t, s.Amount.Equal(decimal.NewFromInt(100)))
			assert.False(t, s.Paid)
			assert.Nil(t, s.PaidAt)
			assert.Equal(t, ItemRef("item-1"), s.Parent)
			assert.Equal(t, "user-1", s.OwnerID)
		}

		persisted, err := shareRepoStub.ListByParent(context.Background(), ItemRef("item-1"))
		require.NoError(t, err)
		assert.Len(t, persisted, 12)
	})

	t.Run("should do nothing for a parent without schedule fields", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		// given: no months, no start date
		p := Parent{Ref: ItemRef("item-2"), OwnerID: "user-1", Total: decimal.NewFromInt(300)}

		// when
		shares, err := r.OnParentCreate(context.Background(), p)

		// then
		assert.NoError(t, err)
		assert.Nil(t, shares)
	})

	t.Run("should reject a non-positive total", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		p := itemParent(12)
		p.Total = decimal.Zero

		_, err := r.OnParentCreate(context.Background(), p)

		assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)
	})

	t.Run("should wrap storage failures as reconciliation failures", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		shareRepoStub.FailReplace = true

		_, err := r.OnParentCreate(context.Background(), itemParent(12))

		assert.ErrorIs(t, err, ErrReconciliationFailed)
	})
}

func TestReconciler_OnParentUpdate(t *testing.T) {
	t.Run("should replace the full set when months change", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		// given: 12 materialized shares of 100
		prev := itemParent(12)
		_, err := r.OnParentCreate(context.Background(), prev)
		require.NoError(t, err)

		// when: months drop to 6, price unchanged
		next := itemParent(6)
		shares, regenerated, err := r.OnParentUpdate(context.Background(), prev, next)

		// then: exactly 6 new shares of 200, nothing from the old schedule
		require.NoError(t, err)
		assert.True(t, regenerated)
		require.Len(t, shares, 6)

		persisted, err := shareRepoStub.ListByParent(context.Background(), ItemRef("item-1"))
		require.NoError(t, err)
		require.Len(t, persisted, 6)
		for _, s := range persisted {
			assert.True(t, s.Amount.Equal(decimal.NewFromInt(200)),
				"share amount %s should be 200", s.Amount)
		}
	})

	t.Run("should leave the ledger alone when no schedule field changed", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		prev := itemParent(12)
		created, err := r.OnParentCreate(context.Background(), prev)
		require.NoError(t, err)

		// when: an identical parent (e.g. only the title changed)
		shares, regenerated, err := r.OnParentUpdate(context.Background(), prev, prev)

		// then
		assert.NoError(t, err)
		assert.False(t, regenerated)
		assert.Nil(t, shares)

		persisted, err := shareRepoStub.ListByParent(context.Background(), ItemRef("item-1"))
		require.NoError(t, err)
		assert.Len(t, persisted, len(created))
	})

	t.Run("should be deterministic for identical inputs", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		prev := itemParent(12)
		next := itemParent(6)

		first, _, err := r.OnParentUpdate(context.Background(), prev, next)
		require.NoError(t, err)
		second, _, err := r.OnParentUpdate(context.Background(), prev, next)
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].DueDate, second[i].DueDate)
			assert.True(t, first[i].Amount.Equal(second[i].Amount))
		}
	})

	t.Run("should keep the old set when replacement fails", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		prev := itemParent(12)
		_, err := r.OnParentCreate(context.Background(), prev)
		require.NoError(t, err)

		shareRepoStub.FailReplace = true

		// when
		_, _, err = r.OnParentUpdate(context.Background(), prev, itemParent(6))

		// then: error surfaced, prior ledger intact
		assert.ErrorIs(t, err, ErrReconciliationFailed)
		persisted, listErr := shareRepoStub.ListByParent(context.Background(), ItemRef("item-1"))
		require.NoError(t, listErr)
		assert.Len(t, persisted, 12)
	})

	t.Run("should regenerate when the start date moves", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		prev := itemParent(3)
		_, err := r.OnParentCreate(context.Background(), prev)
		require.NoError(t, err)

		next := prev
		next.StartIn = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		shares, regenerated, err := r.OnParentUpdate(context.Background(), prev, next)

		require.NoError(t, err)
		assert.True(t, regenerated)
		require.Len(t, shares, 3)
		assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), shares[0].DueDate)
	})
}

func TestReconciler_CheckLedger(t *testing.T) {
	t.Run("should report an orphan scheduled parent", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		// given: schedule fields present but no shares were ever written
		err := r.CheckLedger(context.Background(), itemParent(12))

		// then
		assert.ErrorIs(t, err, ErrOrphanParent)
	})

	t.Run("should pass for a healthy ledger", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		p := itemParent(12)
		_, err := r.OnParentCreate(context.Background(), p)
		require.NoError(t, err)

		assert.NoError(t, r.CheckLedger(context.Background(), p))
	})

	t.Run("should ignore parents without schedule fields", func(t *testing.T) {
		r, teardown := setupReconciler(t)
		defer teardown()

		p := Parent{Ref: ItemRef("item-9"), OwnerID: "user-1"}

		assert.NoError(t, r.CheckLedger(context.Background(), p))
	})
}

func TestReconciler_AbsorbLastPolicy(t *testing.T) {
	r := NewReconciler(shareRepoStub, schedule.RemainderAbsorbLast)
	defer shareRepoStub.Cleanup()

	p := Parent{
		Ref:     FellowRef("fellow-1"),
		OwnerID: "user-1",
		Total:   decimal.NewFromInt(500),
		Months:  3,
		StartIn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	shares, err := r.OnParentCreate(context.Background(), p)

	require.NoError(t, err)
	require.Len(t, shares, 3)
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(500)))
	assert.True(t, shares[2].Amount.Equal(decimal.RequireFromString("166.66")))
}
