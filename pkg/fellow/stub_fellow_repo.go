package fellow

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StubFellowRepo is an in-memory Repository for service tests.
type StubFellowRepo struct {
	data map[string]Fellow
}

func NewStubFellowRepo() *StubFellowRepo {
	return &StubFellowRepo{data: map[string]Fellow{}}
}

func (s *StubFellowRepo) Store(ctx context.Context, fellow Fellow) (Fellow, error) {
	if fellow.ID == "" {
		fellow.ID = uuid.NewString()
	}
	if fellow.Status == "" {
		fellow.Status = StatusActive
	}
	s.data[fellow.ID] = fellow
	return fellow, nil
}

func (s *StubFellowRepo) Get(ctx context.Context, userId string, fellowId string) (Fellow, error) {
	fellow, ok := s.data[fellowId]
	if !ok || fellow.OwnerID != userId {
		return Fellow{}, ErrFellowNotFound
	}
	return fellow, nil
}

func (s *StubFellowRepo) ListByOwner(ctx context.Context, userId string) ([]Fellow, error) {
	var fellows []Fellow
	for _, fellow := range s.data {
		if fellow.OwnerID == userId {
			fellows = append(fellows, fellow)
		}
	}
	sort.Slice(fellows, func(i, j int) bool {
		return fellows[i].Manager < fellows[j].Manager
	})
	return fellows, nil
}

func (s *StubFellowRepo) Update(ctx context.Context, fellow Fellow) (Fellow, error) {
	existing, ok := s.data[fellow.ID]
	if !ok || existing.OwnerID != fellow.OwnerID {
		return Fellow{}, ErrFellowNotFound
	}
	s.data[fellow.ID] = fellow
	return fellow, nil
}

func (s *StubFellowRepo) Delete(ctx context.Context, userId string, fellowId string) (bool, error) {
	fellow, ok := s.data[fellowId]
	if !ok || fellow.OwnerID != userId {
		return false, nil
	}
	delete(s.data, fellowId)
	return true, nil
}

func (s *StubFellowRepo) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	for _, fellow := range s.data {
		if fellow.OwnerID == userId && fellow.Status == StatusActive {
			amounts = append(amounts, fellow.MonthlyAmount)
		}
	}
	return amounts, nil
}

func (s *StubFellowRepo) Cleanup() {
	s.data = map[string]Fellow{}
}
