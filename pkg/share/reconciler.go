package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/pkg/schedule"
)

var (
	// ErrReconciliationFailed marks a storage failure while replacing a
	// parent's share set. The replacement is transactional, so the prior
	// set is still intact; the caller should surface the error and let the
	// whole parent write be retried.
	ErrReconciliationFailed = errors.New("share reconciliation failed")

	// ErrOrphanParent marks a parent that carries schedule fields but has
	// no shares. Regenerating here would fabricate payment history, so the
	// condition is only reported.
	ErrOrphanParent = errors.New("scheduled parent has no shares")
)

// Parent is the reconciler's view of an item or fellow pool: just the
// fields that generate a schedule.
type Parent struct {
	Ref            ParentRef
	OwnerID        string
	Total          decimal.Decimal
	Months         int
	StartIn        time.Time
	AlignNextMonth bool
}

// HasSchedule reports whether the parent carries enough data to generate
// shares. Parents without a month count or start date simply have no
// ledger.
func (p Parent) HasSchedule() bool {
	return p.Months > 0 && !p.StartIn.IsZero()
}

func (p Parent) scheduleEquals(o Parent) bool {
	return p.Total.Equal(o.Total) &&
		p.Months == o.Months &&
		p.StartIn.UTC().Equal(o.StartIn.UTC())
}

// Reconciler keeps the materialized share ledger consistent with the
// parent records that generate it. It is called explicitly by the item and
// fellow services right after a parent write; there is no hook dispatch.
type Reconciler struct {
	repo   Repository
	policy schedule.RemainderPolicy
}

func NewReconciler(repo Repository, policy schedule.RemainderPolicy) *Reconciler {
	if policy == "" {
		policy = schedule.RemainderUniform
	}
	return &Reconciler{repo: repo, policy: policy}
}

// OnParentCreate materializes the share set for a freshly created parent.
// Parents without schedule fields get no shares and no error. The parent
// row must already exist, since the generated rows reference its id.
func (r *Reconciler) OnParentCreate(ctx context.Context, p Parent) ([]Share, error) {
	if !p.HasSchedule() {
		return nil, nil
	}
	shares, err := r.generate(p)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Replace(ctx, p.Ref, p.OwnerID, shares); err != nil {
		return nil, fmt.Errorf("%w: inserting ledger for new parent %s: %v", ErrReconciliationFailed, p.Ref, err)
	}
	log.Debugf("materialized %d shares for %s", len(shares), p.Ref)
	return shares, nil
}

// OnParentUpdate regenerates the share set when a schedule-affecting field
// (total, month count, start date) changed between prev and next. The
// returned bool reports whether a regeneration happened; when it is false
// the existing ledger was left untouched. next must already hold the
// merged post-update field values.
func (r *Reconciler) OnParentUpdate(ctx context.Context, prev, next Parent) ([]Share, bool, error) {
	if prev.scheduleEquals(next) {
		return nil, false, nil
	}
	if !next.HasSchedule() {
		return nil, false, fmt.Errorf("%w: update would leave parent %s without a schedule", schedule.ErrInvalidSchedule, next.Ref)
	}
	shares, err := r.generate(next)
	if err != nil {
		return nil, false, err
	}
	if err := r.repo.Replace(ctx, next.Ref, next.OwnerID, shares); err != nil {
		return nil, false, fmt.Errorf("%w: replacing ledger of %s: %v", ErrReconciliationFailed, next.Ref, err)
	}
	log.Debugf("regenerated %d shares for %s", len(shares), next.Ref)
	return shares, true, nil
}

// CheckLedger verifies that a scheduled parent actually has shares.
// Orphans are reported, never healed.
func (r *Reconciler) CheckLedger(ctx context.Context, p Parent) error {
	if !p.HasSchedule() {
		return nil
	}
	count, err := r.repo.CountByParent(ctx, p.Ref)
	if err != nil {
		return err
	}
	if count == 0 {
		log.Warnf("data integrity: %s has schedule fields but no shares", p.Ref)
		return fmt.Errorf("%w: %s", ErrOrphanParent, p.Ref)
	}
	return nil
}

func (r *Reconciler) generate(p Parent) ([]Share, error) {
	it, err := schedule.Generate(schedule.Plan{
		Total:          p.Total,
		Months:         p.Months,
		StartIn:        p.StartIn,
		AlignNextMonth: p.AlignNextMonth,
		Policy:         r.policy,
	})
	if err != nil {
		return nil, err
	}

	shares := make([]Share, 0, p.Months)
	for inst, ok := it.Next(); ok; inst, ok = it.Next() {
		shares = append(shares, Share{
			Parent:  p.Ref,
			OwnerID: p.OwnerID,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
			Paid:    false,
		})
	}
	return shares, nil
}
