package item

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/pkg/schedule"
	"github.com/aqsaat/aqsaat/pkg/share"
	"github.com/aqsaat/aqsaat/pkg/user"
)

type Service interface {
	// Create stores the item and materializes its share ledger. When the
	// ledger cannot be written the freshly inserted item is removed again
	// so that no scheduled parent exists without shares.
	Create(ctx context.Context, item Item) (Item, error)
	Get(ctx context.Context, itemId string) (Item, error)
	ListMine(ctx context.Context) ([]Item, error)
	// Update merges the patch over the stored item and, when price, month
	// count or start date changed, replaces the whole share set.
	Update(ctx context.Context, itemId string, patch Patch) (Item, error)
	Delete(ctx context.Context, itemId string) error
}

type ServiceImpl struct {
	repo       Repository
	reconciler *share.Reconciler
}

func NewService(repo Repository, reconciler *share.Reconciler) *ServiceImpl {
	return &ServiceImpl{repo: repo, reconciler: reconciler}
}

func (s *ServiceImpl) Create(ctx context.Context, item Item) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item.OwnerID = userId
	if item.Type == "" {
		item.Type = TypePurchase
	}
	if item.StartIn.IsZero() {
		item.StartIn = item.PurchaseDate
	}
	if err := deriveSchedule(&item); err != nil {
		return Item{}, err
	}

	stored, err := s.repo.Store(ctx, item)
	if err != nil {
		return Item{}, err
	}

	if _, err := s.reconciler.OnParentCreate(ctx, parentOf(stored)); err != nil {
		// Roll the parent back so a scheduled item never exists without
		// its shares. The delete is best effort; a leftover row is caught
		// later by CheckLedger.
		if _, delErr := s.repo.Delete(ctx, userId, stored.ID); delErr != nil {
			log.Errorf("could not remove item %s after ledger failure: %v", stored.ID, delErr)
		}
		return Item{}, err
	}
	return stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, itemId string) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item, err := s.repo.Get(ctx, userId, itemId)
	if err != nil {
		return Item{}, err
	}
	if err := s.reconciler.CheckLedger(ctx, parentOf(item)); err != nil && !errors.Is(err, share.ErrOrphanParent) {
		log.Errorf("could not verify ledger of item %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *ServiceImpl) ListMine(ctx context.Context) ([]Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByOwner(ctx, userId)
}

func (s *ServiceImpl) Update(ctx context.Context, itemId string, patch Patch) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	prev, err := s.repo.Get(ctx, userId, itemId)
	if err != nil {
		return Item{}, err
	}

	next := prev
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Months != nil {
		next.Months = *patch.Months
	}
	if patch.StartIn != nil {
		next.StartIn = *patch.StartIn
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if err := deriveSchedule(&next); err != nil {
		return Item{}, err
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return Item{}, err
	}
	if _, _, err := s.reconciler.OnParentUpdate(ctx, parentOf(prev), parentOf(updated)); err != nil {
		// Restore the previous row so item and ledger still describe the
		// same schedule and a retry of the update regenerates the shares.
		if _, restoreErr := s.repo.Update(ctx, prev); restoreErr != nil {
			log.Errorf("could not restore item %s after ledger failure: %v", prev.ID, restoreErr)
		}
		return Item{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, itemId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, itemId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("item not deleted, probably because it does not exist (%s) or the user (%s) is not the owner", itemId, userId)
		return ErrItemNotFound
	}
	return nil
}

// deriveSchedule recomputes the stored schedule projections (monthly
// amount, end date) from price and month count. Items always pay their
// first installment the month after StartIn.
func deriveSchedule(item *Item) error {
	amount, err := schedule.PeriodAmount(item.Price, item.Months)
	if err != nil {
		return err
	}
	item.MonthlyAmount = amount
	item.EndIn = schedule.Plan{
		Months:         item.Months,
		StartIn:        item.StartIn,
		AlignNextMonth: true,
	}.EndDate()
	return nil
}

func parentOf(item Item) share.Parent {
	return share.Parent{
		Ref:            share.ItemRef(item.ID),
		OwnerID:        item.OwnerID,
		Total:          item.Price,
		Months:         item.Months,
		StartIn:        item.StartIn,
		AlignNextMonth: true,
	}
}
