package bankfee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects which of a bank's fee percentages applies: installment
// purchases and cash withdrawals are priced differently.
type Kind string

const (
	KindPurchasing Kind = "purchasing"
	KindCash       Kind = "cash"
)

// Fee is one row of a bank's installment fee table: the percentage the
// bank charges for financing over a given number of months.
type Fee struct {
	ID                string
	BankName          string
	PeriodMonths      int
	PurchasingPercent decimal.Decimal
	CashPercent       decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Percent returns the percentage for the given kind.
func (f Fee) Percent(kind Kind) decimal.Decimal {
	if kind == KindCash {
		return f.CashPercent
	}
	return f.PurchasingPercent
}
