package bankfee

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// StubFeeRepo is an in-memory Repository for service tests.
type StubFeeRepo struct {
	data map[string]Fee
}

func NewStubFeeRepo() *StubFeeRepo {
	return &StubFeeRepo{data: map[string]Fee{}}
}

func (s *StubFeeRepo) Store(ctx context.Context, fee Fee) (Fee, error) {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	s.data[fee.ID] = fee
	return fee, nil
}

func (s *StubFeeRepo) Get(ctx context.Context, feeId string) (Fee, error) {
	fee, ok := s.data[feeId]
	if !ok {
		return Fee{}, ErrFeeNotFound
	}
	return fee, nil
}

func (s *StubFeeRepo) FindPlan(ctx context.Context, bankName string, periodMonths int) (Fee, error) {
	for _, fee := range s.data {
		if fee.BankName == bankName && fee.PeriodMonths == periodMonths {
			return fee, nil
		}
	}
	return Fee{}, ErrFeeNotFound
}

func (s *StubFeeRepo) ListAll(ctx context.Context) ([]Fee, error) {
	fees := make([]Fee, 0, len(s.data))
	for _, fee := range s.data {
		fees = append(fees, fee)
	}
	sort.Slice(fees, func(i, j int) bool {
		if fees[i].BankName != fees[j].BankName {
			return fees[i].BankName < fees[j].BankName
		}
		return fees[i].PeriodMonths < fees[j].PeriodMonths
	})
	return fees, nil
}

func (s *StubFeeRepo) Update(ctx context.Context, fee Fee) (Fee, error) {
	if _, ok := s.data[fee.ID]; !ok {
		return Fee{}, ErrFeeNotFound
	}
	s.data[fee.ID] = fee
	return fee, nil
}

func (s *StubFeeRepo) Delete(ctx context.Context, feeId string) (bool, error) {
	if _, ok := s.data[feeId]; !ok {
		return false, nil
	}
	delete(s.data, feeId)
	return true, nil
}

func (s *StubFeeRepo) Cleanup() {
	s.data = map[string]Fee{}
}
