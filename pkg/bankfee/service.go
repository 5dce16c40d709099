package bankfee

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/pkg/user"
)

var (
	// ErrNoPlan is returned when a bank has no fee row for the requested
	// financing period.
	ErrNoPlan = errors.New("no installment plan for bank and period")

	ErrNotAllowed = errors.New("only admins may manage the fee table")
)

type Service interface {
	// Calculate prices an installment purchase: the bank's percentage for
	// the period, applied to the amount and rounded to two decimal
	// places.
	Calculate(ctx context.Context, amount decimal.Decimal, bankName string, periodMonths int, kind Kind) (decimal.Decimal, error)
	ListAll(ctx context.Context) ([]Fee, error)
	Create(ctx context.Context, fee Fee) (Fee, error)
	Update(ctx context.Context, feeId string, fee Fee) (Fee, error)
	Delete(ctx context.Context, feeId string) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

var oneHundred = decimal.NewFromInt(100)

func (s *ServiceImpl) Calculate(ctx context.Context, amount decimal.Decimal, bankName string, periodMonths int, kind Kind) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", amount)
	}
	fee, err := s.repo.FindPlan(ctx, bankName, periodMonths)
	if errors.Is(err, ErrFeeNotFound) {
		return decimal.Zero, fmt.Errorf("%w: %s over %d months", ErrNoPlan, bankName, periodMonths)
	} else if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(fee.Percent(kind)).Div(oneHundred).Round(2), nil
}

func (s *ServiceImpl) ListAll(ctx context.Context) ([]Fee, error) {
	return s.repo.ListAll(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, fee Fee) (Fee, error) {
	if err := requireAdmin(ctx); err != nil {
		return Fee{}, err
	}
	return s.repo.Store(ctx, fee)
}

func (s *ServiceImpl) Update(ctx context.Context, feeId string, fee Fee) (Fee, error) {
	if err := requireAdmin(ctx); err != nil {
		return Fee{}, err
	}
	fee.ID = feeId
	return s.repo.Update(ctx, fee)
}

func (s *ServiceImpl) Delete(ctx context.Context, feeId string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, feeId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("fee not deleted, probably because it does not exist (%s)", feeId)
		return ErrFeeNotFound
	}
	return nil
}

// The fee table is shared by all users, so writes are restricted to
// admins.
func requireAdmin(ctx context.Context) error {
	u, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if u.Role != user.RoleAdmin {
		return ErrNotAllowed
	}
	return nil
}
