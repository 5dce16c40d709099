package share

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParentKind discriminates which kind of record generated a share.
type ParentKind string

const (
	ParentItem   ParentKind = "item"
	ParentFellow ParentKind = "fellow"
)

// ParentRef identifies the single record a share belongs to. A share is
// owned by exactly one item or exactly one fellow pool, never both; making
// the reference a tagged pair keeps that structural instead of relying on
// two nullable columns staying consistent.
type ParentRef struct {
	Kind ParentKind
	ID   string
}

func ItemRef(id string) ParentRef {
	return ParentRef{Kind: ParentItem, ID: id}
}

func FellowRef(id string) ParentRef {
	return ParentRef{Kind: ParentFellow, ID: id}
}

func (r ParentRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// Share is one monthly payment obligation in the ledger.
type Share struct {
	ID      string
	Parent  ParentRef
	OwnerID string
	Amount  decimal.Decimal
	// DueDate is always the first day of a month at midnight UTC.
	DueDate time.Time
	Paid    bool
	// PaidAt records when the paid flag was last toggled, in either
	// direction. It is never cleared.
	PaidAt *time.Time
}
