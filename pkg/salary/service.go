package salary

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aqsaat/aqsaat/pkg/user"
)

// ItemSource, FellowSource and SpendingSource supply the monthly amounts
// of a user's active records. They are implemented by the respective
// repositories; the aggregation only needs the numbers.
type ItemSource interface {
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type FellowSource interface {
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type SpendingSource interface {
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type Service interface {
	// NetForCurrentUser derives the caller's remaining monthly salary
	// from their stored gross salary and active deductions.
	NetForCurrentUser(ctx context.Context) (Summary, error)
}

// Summary is the result of one aggregation run.
type Summary struct {
	Gross      decimal.Decimal
	Deductions Deductions
	Net        decimal.Decimal
}

type ServiceImpl struct {
	users     user.Service
	items     ItemSource
	fellows   FellowSource
	spendings SpendingSource
}

func NewService(users user.Service, items ItemSource, fellows FellowSource, spendings SpendingSource) *ServiceImpl {
	return &ServiceImpl{users: users, items: items, fellows: fellows, spendings: spendings}
}

func (s *ServiceImpl) NetForCurrentUser(ctx context.Context) (Summary, error) {
	u, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}

	var d Deductions
	if d.Items, err = s.items.ActiveMonthlyAmounts(ctx, u.ID); err != nil {
		return Summary{}, fmt.Errorf("could not load item deductions: %w", err)
	}
	if d.Fellows, err = s.fellows.ActiveMonthlyAmounts(ctx, u.ID); err != nil {
		return Summary{}, fmt.Errorf("could not load fellow deductions: %w", err)
	}
	if d.Spendings, err = s.spendings.ActiveMonthlyAmounts(ctx, u.ID); err != nil {
		return Summary{}, fmt.Errorf("could not load spending deductions: %w", err)
	}

	return Summary{
		Gross:      u.Salary,
		Deductions: d,
		Net:        Net(u.Salary, d),
	}, nil
}
