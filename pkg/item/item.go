package item

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePurchase Type = "purchase"
	TypeLoan     Type = "loan"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Item is a one-time purchase (or loan) financed over a number of monthly
// installments. Creating or rescheduling an item materializes one share
// per month; its first share is always due the month after StartIn.
type Item struct {
	ID           string
	OwnerID      string
	Type         Type
	Title        string
	Price        decimal.Decimal
	PurchaseDate time.Time
	Months       int
	// MonthlyAmount is derived from Price and Months on every write that
	// touches either; it is stored for listing and salary deduction.
	MonthlyAmount decimal.Decimal
	StartIn       time.Time
	// EndIn is the due date of the final share, derived alongside
	// MonthlyAmount.
	EndIn     time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries an update request. Nil fields keep their previous value;
// the service merges the patch over the stored item before deciding
// whether the schedule changed.
type Patch struct {
	Title   *string
	Price   *decimal.Decimal
	Months  *int
	StartIn *time.Time
	Status  *Status
}
