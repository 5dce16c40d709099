package share

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StubShareRepo is an in-memory Repository for service and reconciler
// tests. FailReplace makes the next Replace call fail without touching the
// stored set, mimicking a rolled-back transaction.
type StubShareRepo struct {
	data        map[string]Share
	FailReplace bool
}

func NewStubShareRepo() *StubShareRepo {
	return &StubShareRepo{data: map[string]Share{}}
}

var errStubReplace = errors.New("stub: replace failed")

func (s *StubShareRepo) Replace(ctx context.Context, ref ParentRef, ownerID string, shares []Share) error {
	if s.FailReplace {
		s.FailReplace = false
		return errStubReplace
	}
	for id, existing := range s.data {
		if existing.Parent == ref {
			delete(s.data, id)
		}
	}
	for i := range shares {
		if shares[i].ID == "" {
			shares[i].ID = uuid.NewString()
		}
		shares[i].Parent = ref
		shares[i].OwnerID = ownerID
		s.data[shares[i].ID] = shares[i]
	}
	return nil
}

func (s *StubShareRepo) ListByParent(ctx context.Context, ref ParentRef) ([]Share, error) {
	var shares []Share
	for _, sh := range s.data {
		if sh.Parent == ref {
			shares = append(shares, sh)
		}
	}
	sortByDueDate(shares)
	return shares, nil
}

func (s *StubShareRepo) ListByOwner(ctx context.Context, ownerID string) ([]Share, error) {
	var shares []Share
	for _, sh := range s.data {
		if sh.OwnerID == ownerID {
			shares = append(shares, sh)
		}
	}
	sortByDueDate(shares)
	return shares, nil
}

func (s *StubShareRepo) Get(ctx context.Context, ownerID string, id string) (Share, error) {
	sh, ok := s.data[id]
	if !ok || sh.OwnerID != ownerID {
		return Share{}, ErrShareNotFound
	}
	return sh, nil
}

func (s *StubShareRepo) SetPaid(ctx context.Context, ownerID string, id string, paid bool, at time.Time) (Share, error) {
	sh, ok := s.data[id]
	if !ok || sh.OwnerID != ownerID {
		return Share{}, ErrShareNotFound
	}
	sh.Paid = paid
	sh.PaidAt = &at
	s.data[id] = sh
	return sh, nil
}

func (s *StubShareRepo) Delete(ctx context.Context, ownerID string, id string) (bool, error) {
	sh, ok := s.data[id]
	if !ok || sh.OwnerID != ownerID {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubShareRepo) CountByParent(ctx context.Context, ref ParentRef) (int, error) {
	count := 0
	for _, sh := range s.data {
		if sh.Parent == ref {
			count++
		}
	}
	return count, nil
}

func (s *StubShareRepo) Cleanup() {
	s.data = map[string]Share{}
	s.FailReplace = false
}

func sortByDueDate(shares []Share) {
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].DueDate.Before(shares[j].DueDate)
	})
}
