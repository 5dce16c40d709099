package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID    string
	Name  string
	Email string
	// Salary is the gross monthly salary. The net figure is never stored;
	// it is derived on every read from the current deduction records.
	Salary    decimal.Decimal
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
