package share

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/internal/utils"
	"github.com/aqsaat/aqsaat/pkg/user"
)

type Service interface {
	// TogglePaid moves a share between Unpaid and Paid. The transition is
	// idempotent: toggling to the state the share is already in succeeds
	// and simply restamps PaidAt. It never touches the schedule.
	TogglePaid(ctx context.Context, shareID string, paid bool) (Share, error)
	ListMine(ctx context.Context) ([]Share, error)
	ListForItem(ctx context.Context, itemID string) ([]Share, error)
	ListForFellow(ctx context.Context, fellowID string) ([]Share, error)
	Get(ctx context.Context, shareID string) (Share, error)
	Delete(ctx context.Context, shareID string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) TogglePaid(ctx context.Context, shareID string, paid bool) (Share, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Share{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.SetPaid(ctx, userId, shareID, paid, s.clock.Now().UTC())
}

func (s *ServiceImpl) ListMine(ctx context.Context) ([]Share, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByOwner(ctx, userId)
}

func (s *ServiceImpl) ListForItem(ctx context.Context, itemID string) ([]Share, error) {
	return s.listForParent(ctx, ItemRef(itemID))
}

func (s *ServiceImpl) ListForFellow(ctx context.Context, fellowID string) ([]Share, error) {
	return s.listForParent(ctx, FellowRef(fellowID))
}

func (s *ServiceImpl) listForParent(ctx context.Context, ref ParentRef) ([]Share, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	shares, err := s.repo.ListByParent(ctx, ref)
	if err != nil {
		return nil, err
	}
	owned := make([]Share, 0, len(shares))
	for _, sh := range shares {
		if sh.OwnerID == userId {
			owned = append(owned, sh)
		}
	}
	return owned, nil
}

func (s *ServiceImpl) Get(ctx context.Context, shareID string) (Share, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Share{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, shareID)
}

func (s *ServiceImpl) Delete(ctx context.Context, shareID string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, shareID)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("share not deleted, probably because it does not exist (%s) or the user (%s) is not the owner", shareID, userId)
		return ErrShareNotFound
	}
	return nil
}
