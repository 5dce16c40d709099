package fellow

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Fellow is a rotating savings pool the user participates in: everyone
// pays the same monthly contribution and each member collects the whole
// pot once, in their turn month. Unlike items, contributions start in the
// start month itself, not the month after.
type Fellow struct {
	ID      string
	OwnerID string
	// Manager is the person organizing the pool, kept for the user's own
	// bookkeeping only.
	Manager string
	// Amount is the user's total contribution over the lifetime of the
	// pool.
	Amount decimal.Decimal
	Months int
	// MonthlyAmount is derived from Amount and Months on every write that
	// touches either.
	MonthlyAmount decimal.Decimal
	// TurnMonth is the month the user collects the pot, first-of-month
	// UTC like every ledger date.
	TurnMonth time.Time
	StartIn   time.Time
	// EndIn is the due date of the final contribution.
	EndIn     time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries an update request. Nil fields keep their previous value.
type Patch struct {
	Manager   *string
	Amount    *decimal.Decimal
	Months    *int
	TurnMonth *time.Time
	StartIn   *time.Time
	Status    *Status
}
