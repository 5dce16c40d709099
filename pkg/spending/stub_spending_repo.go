package spending

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StubSpendingRepo is an in-memory Repository for service tests.
type StubSpendingRepo struct {
	data map[string]Spending
}

func NewStubSpendingRepo() *StubSpendingRepo {
	return &StubSpendingRepo{data: map[string]Spending{}}
}

func (s *StubSpendingRepo) Store(ctx context.Context, spending Spending) (Spending, error) {
	if spending.ID == "" {
		spending.ID = uuid.NewString()
	}
	if spending.Cadence == "" {
		spending.Cadence = CadenceMonthly
	}
	if spending.Status == "" {
		spending.Status = StatusActive
	}
	s.data[spending.ID] = spending
	return spending, nil
}

func (s *StubSpendingRepo) Get(ctx context.Context, userId string, spendingId string) (Spending, error) {
	spending, ok := s.data[spendingId]
	if !ok || spending.OwnerID != userId {
		return Spending{}, ErrSpendingNotFound
	}
	return spending, nil
}

func (s *StubSpendingRepo) ListByOwner(ctx context.Context, userId string) ([]Spending, error) {
	var spendings []Spending
	for _, spending := range s.data {
		if spending.OwnerID == userId {
			spendings = append(spendings, spending)
		}
	}
	sort.Slice(spendings, func(i, j int) bool {
		return spendings[i].Name < spendings[j].Name
	})
	return spendings, nil
}

func (s *StubSpendingRepo) Update(ctx context.Context, spending Spending) (Spending, error) {
	existing, ok := s.data[spending.ID]
	if !ok || existing.OwnerID != spending.OwnerID {
		return Spending{}, ErrSpendingNotFound
	}
	s.data[spending.ID] = spending
	return spending, nil
}

func (s *StubSpendingRepo) Delete(ctx context.Context, userId string, spendingId string) (bool, error) {
	spending, ok := s.data[spendingId]
	if !ok || spending.OwnerID != userId {
		return false, nil
	}
	delete(s.data, spendingId)
	return true, nil
}

func (s *StubSpendingRepo) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	for _, spending := range s.data {
		if spending.OwnerID == userId && spending.Status == StatusActive {
			amounts = append(amounts, spending.MonthlyEquivalent())
		}
	}
	return amounts, nil
}

func (s *StubSpendingRepo) Cleanup() {
	s.data = map[string]Spending{}
}
