package item

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StubItemRepo is an in-memory Repository for service tests.
type StubItemRepo struct {
	data map[string]Item
}

func NewStubItemRepo() *StubItemRepo {
	return &StubItemRepo{data: map[string]Item{}}
}

func (s *StubItemRepo) Store(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = StatusActive
	}
	s.data[item.ID] = item
	return item, nil
}

func (s *StubItemRepo) Get(ctx context.Context, userId string, itemId string) (Item, error) {
	item, ok := s.data[itemId]
	if !ok || item.OwnerID != userId {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (s *StubItemRepo) ListByOwner(ctx context.Context, userId string) ([]Item, error) {
	var items []Item
	for _, item := range s.data {
		if item.OwnerID == userId {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
	return items, nil
}

func (s *StubItemRepo) Update(ctx context.Context, item Item) (Item, error) {
	existing, ok := s.data[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return Item{}, ErrItemNotFound
	}
	s.data[item.ID] = item
	return item, nil
}

func (s *StubItemRepo) Delete(ctx context.Context, userId string, itemId string) (bool, error) {
	item, ok := s.data[itemId]
	if !ok || item.OwnerID != userId {
		return false, nil
	}
	delete(s.data, itemId)
	return true, nil
}

func (s *StubItemRepo) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	for _, item := range s.data {
		if item.OwnerID == userId && item.Status == StatusActive {
			amounts = append(amounts, item.MonthlyAmount)
		}
	}
	return amounts, nil
}

func (s *StubItemRepo) Cleanup() {
	s.data = map[string]Item{}
}
