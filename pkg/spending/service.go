package spending

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/pkg/user"
)

type Service interface {
	Create(ctx context.Context, spending Spending) (Spending, error)
	Get(ctx context.Context, spendingId string) (Spending, error)
	ListMine(ctx context.Context) ([]Spending, error)
	Update(ctx context.Context, spendingId string, patch Patch) (Spending, error)
	Delete(ctx context.Context, spendingId string) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, spending Spending) (Spending, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Spending{}, fmt.Errorf("failed to get current user: %w", err)
	}
	spending.OwnerID = userId
	if spending.Amount.IsNegative() {
		return Spending{}, fmt.Errorf("spending amount must not be negative, got %s", spending.Amount)
	}
	return s.repo.Store(ctx, spending)
}

func (s *ServiceImpl) Get(ctx context.Context, spendingId string) (Spending, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Spending{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, spendingId)
}

func (s *ServiceImpl) ListMine(ctx context.Context) ([]Spending, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByOwner(ctx, userId)
}

func (s *ServiceImpl) Update(ctx context.Context, spendingId string, patch Patch) (Spending, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Spending{}, fmt.Errorf("failed to get current user: %w", err)
	}
	spending, err := s.repo.Get(ctx, userId, spendingId)
	if err != nil {
		return Spending{}, err
	}

	if patch.Name != nil {
		spending.Name = *patch.Name
	}
	if patch.Amount != nil {
		spending.Amount = *patch.Amount
	}
	if patch.Cadence != nil {
		spending.Cadence = *patch.Cadence
	}
	if patch.StartIn != nil {
		spending.StartIn = *patch.StartIn
	}
	if patch.Status != nil {
		spending.Status = *patch.Status
	}
	if spending.Amount.IsNegative() {
		return Spending{}, fmt.Errorf("spending amount must not be negative, got %s", spending.Amount)
	}
	return s.repo.Update(ctx, spending)
}

func (s *ServiceImpl) Delete(ctx context.Context, spendingId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, spendingId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("spending not deleted, probably because it does not exist (%s) or the user (%s) is not the owner", spendingId, userId)
		return ErrSpendingNotFound
	}
	return nil
}
