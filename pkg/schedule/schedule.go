package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidSchedule is returned when a plan cannot produce a payment
// schedule (non-positive total or month count).
var ErrInvalidSchedule = errors.New("invalid schedule")

// RemainderPolicy decides what happens to the rounding remainder of
// total/months when it does not divide evenly at two decimal places.
type RemainderPolicy string

const (
	// RemainderUniform gives every period the same rounded amount. The sum
	// of the schedule may then differ from the total by up to
	// months * 0.005.
	RemainderUniform RemainderPolicy = "uniform"
	// RemainderAbsorbLast adjusts the final period so the schedule sums
	// exactly to the total.
	RemainderAbsorbLast RemainderPolicy = "absorbLast"
)

// ParsePolicy maps a configuration string to a RemainderPolicy.
// An empty string selects RemainderUniform.
func ParsePolicy(s string) (RemainderPolicy, error) {
	switch RemainderPolicy(s) {
	case "", RemainderUniform:
		return RemainderUniform, nil
	case RemainderAbsorbLast:
		return RemainderAbsorbLast, nil
	}
	return "", fmt.Errorf("unknown remainder policy %q", s)
}

// PeriodAmount computes the per-month payment: total divided by months,
// rounded to two decimal places, half away from zero.
func PeriodAmount(total decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, fmt.Errorf("%w: months must be positive, got %d", ErrInvalidSchedule, months)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: total must be positive, got %s", ErrInvalidSchedule, total)
	}
	return total.Div(decimal.NewFromInt(int64(months))).Round(2), nil
}

// Plan describes one installment commitment to be expanded into a schedule.
type Plan struct {
	Total  decimal.Decimal
	Months int
	// StartIn anchors the schedule. Only its year and month are used; the
	// day and time of day are discarded so that end-of-month dates cannot
	// overflow into a skipped month.
	StartIn time.Time
	// AlignNextMonth shifts the first due date one calendar month forward.
	// Items pay their first installment the month after purchase; fellow
	// pools contribute starting with the start month itself.
	AlignNextMonth bool
	Policy         RemainderPolicy
}

// Installment is one (dueDate, amount) pair of a schedule.
type Installment struct {
	Seq     int
	DueDate time.Time
	Amount  decimal.Decimal
}

// Iterator yields the installments of a plan one at a time. It is a
// single-pass sequence: once Next has returned false it stays exhausted.
type Iterator struct {
	base    time.Time
	amount  decimal.Decimal
	last    decimal.Decimal
	months  int
	next    int
	absorbs bool
}

// Generate validates the plan and returns an iterator over exactly
// p.Months installments with strictly increasing, monthly-spaced due
// dates. All dates are first-of-month at midnight UTC.
func Generate(p Plan) (*Iterator, error) {
	amount, err := PeriodAmount(p.Total, p.Months)
	if err != nil {
		return nil, err
	}

	base := monthStart(p.StartIn)
	if p.AlignNextMonth {
		base = base.AddDate(0, 1, 0)
	}

	it := &Iterator{
		base:   base,
		amount: amount,
		last:   amount,
		months: p.Months,
	}
	if p.Policy == RemainderAbsorbLast {
		it.absorbs = true
		it.last = p.Total.Sub(amount.Mul(decimal.NewFromInt(int64(p.Months - 1)))).Round(2)
	}
	return it, nil
}

// Next returns the next installment of the schedule. The second return
// value is false once all p.Months installments have been produced.
func (it *Iterator) Next() (Installment, bool) {
	if it.next >= it.months {
		return Installment{}, false
	}
	amount := it.amount
	if it.next == it.months-1 {
		amount = it.last
	}
	inst := Installment{
		Seq: it.next,
		// Adding to the month component lets the year roll over without
		// any day arithmetic.
		DueDate: it.base.AddDate(0, it.next, 0),
		Amount:  amount,
	}
	it.next++
	return inst, true
}

// EndDate reports the due date of the final installment without consuming
// the iterator.
func (p Plan) EndDate() time.Time {
	base := monthStart(p.StartIn)
	if p.AlignNextMonth {
		base = base.AddDate(0, 1, 0)
	}
	if p.Months < 1 {
		return base
	}
	return base.AddDate(0, p.Months-1, 0)
}

// monthStart normalizes t to the first day of its month at 00:00 UTC.
func monthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
