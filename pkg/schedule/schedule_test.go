package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, p Plan) []Installment {
	t.Helper()
	it, err := Generate(p)
	require.NoError(t, err)
	var out []Installment
	for inst, ok := it.Next(); ok; inst, ok = it.Next() {
		out = append(out, inst)
	}
	return out
}

func TestPeriodAmount(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		months int
		want   string
	}{
		{"even division", "1200", 12, "100"},
		{"repeating fraction rounds half away from zero", "500", 3, "166.67"},
		{"single month", "99.99", 1, "99.99"},
		{"half cent rounds up", "100.05", 2, "50.03"},
		{"small total", "0.01", 2, "0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodAmount(decimal.RequireFromString(tt.total), tt.months)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestPeriodAmount_Invalid(t *testing.T) {
	_, err := PeriodAmount(decimal.NewFromInt(100), 0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = PeriodAmount(decimal.NewFromInt(100), -3)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = PeriodAmount(decimal.Zero, 12)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = PeriodAmount(decimal.NewFromInt(-50), 12)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestGenerate_ItemAlignedToNextMonth(t *testing.T) {
	// given: a 1200 purchase on 2024-01-15 over 12 months
	plan := Plan{
		Total:          decimal.NewFromInt(1200),
		Months:         12,
		StartIn:        time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		AlignNextMonth: true,
	}

	// when
	installments := collect(t, plan)

	// then: 12 shares, first due 2024-02-01, each 100.00
	require.Len(t, installments, 12)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	for i, inst := range installments {
		assert.Equal(t, i, inst.Seq)
		assert.True(t, inst.Amount.Equal(decimal.NewFromInt(100)))
	}
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), installments[11].DueDate)
}

func TestGenerate_FellowStartsImmediately(t *testing.T) {
	// given: a 500 pool over 3 months starting 2024-03-10
	plan := Plan{
		Total:   decimal.NewFromInt(500),
		Months:  3,
		StartIn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	// when
	installments := collect(t, plan)

	// then: due 2024-03-01, 2024-04-01, 2024-05-01, each 166.67
	require.Len(t, installments, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), installments[2].DueDate)

	sum := decimal.Zero
	for _, inst := range installments {
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("166.67")))
		sum = sum.Add(inst.Amount)
	}
	// Known one-cent drift with the uniform policy.
	assert.True(t, sum.Equal(decimal.RequireFromString("500.01")))
}

func TestGenerate_EndOfMonthStartDoesNotOverflow(t *testing.T) {
	// Jan 31 + 1 month must land on Mar 1 with naive day arithmetic; the
	// generator normalizes to the first of the month before shifting.
	plan := Plan{
		Total:          decimal.NewFromInt(300),
		Months:         3,
		StartIn:        time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
		AlignNextMonth: true,
	}

	installments := collect(t, plan)

	require.Len(t, installments, 3)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
}

func TestGenerate_YearRollover(t *testing.T) {
	plan := Plan{
		Total:   decimal.NewFromInt(600),
		Months:  6,
		StartIn: time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC),
	}

	installments := collect(t, plan)

	require.Len(t, installments, 6)
	assert.Equal(t, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), installments[5].DueDate)
}

func TestGenerate_SingleMonth(t *testing.T) {
	plan := Plan{
		Total:          decimal.RequireFromString("49.99"),
		Months:         1,
		StartIn:        time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		AlignNextMonth: true,
	}

	installments := collect(t, plan)

	require.Len(t, installments, 1)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.True(t, installments[0].Amount.Equal(decimal.RequireFromString("49.99")))
}

func TestGenerate_StrictlyIncreasingMonthlyDueDates(t *testing.T) {
	plan := Plan{
		Total:   decimal.RequireFromString("777.77"),
		Months:  24,
		StartIn: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	installments := collect(t, plan)

	require.Len(t, installments, 24)
	for i := 1; i < len(installments); i++ {
		prev, cur := installments[i-1].DueDate, installments[i].DueDate
		assert.True(t, cur.After(prev))
		assert.Equal(t, prev.AddDate(0, 1, 0), cur)
		assert.Equal(t, 1, cur.Day())
	}
}

func TestGenerate_UniformSumWithinTolerance(t *testing.T) {
	// Sum over the set equals periodAmount * months, within months * 0.01
	// of the original total.
	totals := []string{"1000", "999.99", "73.50", "500", "0.07"}
	for _, total := range totals {
		for _, months := range []int{1, 3, 7, 12} {
			plan := Plan{
				Total:   decimal.RequireFromString(total),
				Months:  months,
				StartIn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			amount, err := PeriodAmount(plan.Total, months)
			require.NoError(t, err)

			sum := decimal.Zero
			for _, inst := range collect(t, plan) {
				sum = sum.Add(inst.Amount)
			}

			assert.True(t, sum.Equal(amount.Mul(decimal.NewFromInt(int64(months)))))
			drift := sum.Sub(plan.Total).Abs()
			tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(months)))
			assert.True(t, drift.LessThanOrEqual(tolerance),
				"total=%s months=%d drift=%s", total, months, drift)
		}
	}
}

func TestGenerate_AbsorbLastReconcilesExactly(t *testing.T) {
	plan := Plan{
		Total:   decimal.NewFromInt(500),
		Months:  3,
		StartIn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Policy:  RemainderAbsorbLast,
	}

	installments := collect(t, plan)

	require.Len(t, installments, 3)
	assert.True(t, installments[0].Amount.Equal(decimal.RequireFromString("166.67")))
	assert.True(t, installments[1].Amount.Equal(decimal.RequireFromString("166.67")))
	assert.True(t, installments[2].Amount.Equal(decimal.RequireFromString("166.66")))

	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(plan.Total))
}

func TestIterator_Exhausts(t *testing.T) {
	it, err := Generate(Plan{
		Total:   decimal.NewFromInt(100),
		Months:  2,
		StartIn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, ok := it.Next()
	assert.True(t, ok)
	_, ok = it.Next()
	assert.True(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestPlan_EndDate(t *testing.T) {
	plan := Plan{
		Total:          decimal.NewFromInt(1200),
		Months:         12,
		StartIn:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		AlignNextMonth: true,
	}
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), plan.EndDate())

	pool := Plan{
		Total:   decimal.NewFromInt(500),
		Months:  3,
		StartIn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), pool.EndDate())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	assert.NoError(t, err)
	assert.Equal(t, RemainderUniform, p)

	p, err = ParsePolicy("absorbLast")
	assert.NoError(t, err)
	assert.Equal(t, RemainderAbsorbLast, p)

	_, err = ParsePolicy("splitEvenly")
	assert.Error(t, err)
}
