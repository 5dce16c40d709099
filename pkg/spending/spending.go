package spending

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceWeekly  Cadence = "weekly"
	CadenceDaily   Cadence = "daily"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Spending is a recurring expense the user wants deducted from their net
// salary, like rent or a subscription. Spendings never generate ledger
// shares; they only feed the salary aggregation.
type Spending struct {
	ID        string
	OwnerID   string
	Name      string
	Amount    decimal.Decimal
	Cadence   Cadence
	StartIn   time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	weeksPerMonth = decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	daysPerMonth  = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
)

// MonthlyEquivalent converts the spending to a per-month figure so that
// weekly and daily expenses weigh correctly in the salary aggregation.
func (s Spending) MonthlyEquivalent() decimal.Decimal {
	switch s.Cadence {
	case CadenceWeekly:
		return s.Amount.Mul(weeksPerMonth).Round(2)
	case CadenceDaily:
		return s.Amount.Mul(daysPerMonth).Round(2)
	}
	return s.Amount
}

// Patch carries an update request. Nil fields keep their previous value.
type Patch struct {
	Name    *string
	Amount  *decimal.Decimal
	Cadence *Cadence
	StartIn *time.Time
	Status  *Status
}
