package fellow

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
	// Create stores the pool and materializes its contribution ledger.
	// When the ledger cannot be written the freshly inserted pool is
	// removed again so that no scheduled pool exists without shares.
	Create(ctx context.Context, fellow Fellow) (Fellow, error)
	Get(ctx context.Context, fellowId string) (Fellow, error)
	ListMine(ctx context.Context) ([]Fellow, error)
	// Update merges the patch over the stored pool and, when amount,
	// month count or start date changed, replaces the whole share set.
	Update(ctx context.Context, fellowId string, patch Patch) (Fellow, error)
	Delete(ctx context.Context, fellowId string) error
}

type ServiceImpl struct {
	repo       Repository
	reconciler *share.Reconciler
}

func NewService(repo Repository, reconciler *share.Reconciler) *ServiceImpl {
	return &ServiceImpl{repo: repo, reconciler: reconciler}
}

func (s *ServiceImpl) Create(ctx context.Context, fellow Fellow) (Fellow, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Fellow{}, fmt.Errorf("failed to get current user: %w", err)
	}
	fellow.OwnerID = userId
	if err := deriveSchedule(&fellow); err != nil {
		return Fellow{}, err
	}

	stored, err := s.repo.Store(ctx, fellow)
	if err != nil {
		return Fellow{}, err
	}

	if _, err := s.reconciler.OnParentCreate(ctx, parentOf(stored)); err != nil {
		if _, delErr := s.repo.Delete(ctx, userId, stored.ID); delErr != nil {
			log.Errorf("could not remove fellow %s after ledger failure: %v", stored.ID, delErr)
		}
		return Fellow{}, err
	}
	return stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, fellowId string) (Fellow, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Fellow{}, fmt.Errorf("failed to get current user: %w", err)
	}
	fellow, err := s.repo.Get(ctx, userId, fellowId)
	if err != nil {
		return Fellow{}, err
	}
	if err := s.reconciler.CheckLedger(ctx, parentOf(fellow)); err != nil && !errors.Is(err, share.ErrOrphanParent) {
		log.Errorf("could not verify ledger of fellow %s: %v", fellow.ID, err)
	}
	return fellow, nil
}

func (s *ServiceImpl) ListMine(ctx context.Context) ([]Fellow, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByOwner(ctx, userId)
}

func (s *ServiceImpl) Update(ctx context.Context, fellowId string, patch Patch) (Fellow, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Fellow{}, fmt.Errorf("failed to get current user: %w", err)
	}
	prev, err := s.repo.Get(ctx, userId, fellowId)
	if err != nil {
		return Fellow{}, err
	}

	next := prev
	if patch.Manager != nil {
		next.Manager = *patch.Manager
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.Months != nil {
		next.Months = *patch.Months
	}
	if patch.TurnMonth != nil {
		next.TurnMonth = *patch.TurnMonth
	}
	if patch.StartIn != nil {
		next.StartIn = *patch.StartIn
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if err := deriveSchedule(&next); err != nil {
		return Fellow{}, err
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return Fellow{}, err
	}
	if _, _, err := s.reconciler.OnParentUpdate(ctx, parentOf(prev), parentOf(updated)); err != nil {
		// Restore the previous row so pool and ledger still describe the
		// same schedule and a retry of the update regenerates the shares.
		if _, restoreErr := s.repo.Update(ctx, prev); restoreErr != nil {
			log.Errorf("could not restore fellow %s after ledger failure: %v", prev.ID, restoreErr)
		}
		return Fellow{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, fellowId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, fellowId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("fellow not deleted, probably because it does not exist (%s) or the user (%s) is not the owner", fellowId, userId)
		return ErrFellowNotFound
	}
	return nil
}

// deriveSchedule recomputes the stored schedule projections (monthly
// amount, end date) from the total and month count. Pool contributions
// start in the start month itself.
func deriveSchedule(fellow *Fellow) error {
	amount, err := schedule.PeriodAmount(fellow.Amount, fellow.Months)
	if err != nil {
		return err
	}
	fellow.MonthlyAmount = amount
	fellow.EndIn = schedule.Plan{
		Months:  fellow.Months,
		StartIn: fellow.StartIn,
	}.EndDate()
	return nil
}

func parentOf(fellow Fellow) share.Parent {
	return share.Parent{
		Ref:     share.FellowRef(fellow.ID),
		OwnerID: fellow.OwnerID,
		Total:   fellow.Amount,
		Months:  fellow.Months,
		StartIn: fellow.StartIn,
	}
}
