package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrShareNotFound = errors.New("share not found")

type Repository interface {
	// Replace atomically swaps the full share set of one parent: it locks
	// the parent row, deletes every existing share for it, and inserts the
	// new set, all inside a single transaction. A failure leaves the old
	// set intact.
	Replace(ctx context.Context, ref ParentRef, ownerID string, shares []Share) error
	ListByParent(ctx context.Context, ref ParentRef) ([]Share, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Share, error)
	Get(ctx context.Context, ownerID string, id string) (Share, error)
	// SetPaid updates the paid flag and stamps paid_at with the toggle
	// time. Applying the same flag twice is a plain no-op update.
	SetPaid(ctx context.Context, ownerID string, id string, paid bool, at time.Time) (Share, error)
	Delete(ctx context.Context, ownerID string, id string) (bool, error)
	CountByParent(ctx context.Context, ref ParentRef) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// parentColumn maps a parent kind to the share table column referencing it.
func parentColumn(kind ParentKind) (string, error) {
	switch kind {
	case ParentItem:
		return "item_id", nil
	case ParentFellow:
		return "fellow_id", nil
	}
	return "", fmt.Errorf("unknown parent kind %q", kind)
}

func parentTable(kind ParentKind) string {
	if kind == ParentItem {
		return "items"
	}
	return "fellows"
}

func (r *RepositoryImpl) Replace(ctx context.Context, ref ParentRef, ownerID string, shares []Share) error {
	column, err := parentColumn(ref.Kind)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the parent row so two concurrent regenerations of the same
	// schedule serialize instead of interleaving delete and insert.
	lockQuery := fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", parentTable(ref.Kind))
	var lockedID string
	if err := tx.QueryRow(ctx, lockQuery, ref.ID).Scan(&lockedID); err != nil {
		err := fmt.Errorf("could not lock parent %s: %w", ref, err)
		log.Error(err)
		return err
	}

	deleteQuery := fmt.Sprintf("DELETE FROM shares WHERE %s = $1", column)
	if _, err := tx.Exec(ctx, deleteQuery, ref.ID); err != nil {
		err := fmt.Errorf("could not delete shares of %s: %w", ref, err)
		log.Error(err)
		return err
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO shares (id, %s, user_id, amount, due_date, paid, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`, column)
	for i := range shares {
		s := &shares[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, insertQuery,
			s.ID, ref.ID, ownerID, s.Amount, s.DueDate, s.Paid, s.PaidAt,
		); err != nil {
			err := fmt.Errorf("could not insert share for %s: %w", ref, err)
			log.Error(err)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		err := fmt.Errorf("could not commit share replacement for %s: %w", ref, err)
		log.Error(err)
		return err
	}
	return nil
}

const shareColumns = "id, item_id, fellow_id, user_id, amount, due_date, paid, paid_at"

func (r *RepositoryImpl) ListByParent(ctx context.Context, ref ParentRef) ([]Share, error) {
	column, err := parentColumn(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT %s FROM shares WHERE %s = $1 ORDER BY due_date", shareColumns, column)
	rows, err := r.db.Query(ctx, query, ref.ID)
	if err != nil {
		err := fmt.Errorf("could not query shares of %s: %w", ref, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanShares(rows)
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]Share, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM shares WHERE user_id = $1 ORDER BY due_date", shareColumns)
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		err := fmt.Errorf("could not query shares of user %s: %w", ownerID, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanShares(rows)
}

func (r *RepositoryImpl) Get(ctx context.Context, ownerID string, id string) (Share, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM shares WHERE id = $1 AND user_id = $2", shareColumns)
	row := r.db.QueryRow(ctx, query, id, ownerID)
	s, err := scanShare(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Share{}, ErrShareNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get share %s: %w", id, err)
		log.Error(err)
		return Share{}, err
	}
	return s, nil
}

func (r *RepositoryImpl) SetPaid(ctx context.Context, ownerID string, id string, paid bool, at time.Time) (Share, error) {
	query := fmt.Sprintf(
		`UPDATE shares SET paid = $3, paid_at = $4
		 WHERE id = $1 AND user_id = $2
		 RETURNING %s`, shareColumns)
	row := r.db.QueryRow(ctx, query, id, ownerID, paid, at)
	s, err := scanShare(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Share{}, ErrShareNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update paid status of share %s: %w", id, err)
		log.Error(err)
		return Share{}, err
	}
	return s, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, ownerID string, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM shares WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		err := fmt.Errorf("could not delete share %s: %w", id, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) CountByParent(ctx context.Context, ref ParentRef) (int, error) {
	column, err := parentColumn(ref.Kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM shares WHERE %s = $1", column)
	var count int
	if err := r.db.QueryRow(ctx, query, ref.ID).Scan(&count); err != nil {
		err := fmt.Errorf("could not count shares of %s: %w", ref, err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (Share, error) {
	var (
		s        Share
		itemID   *string
		fellowID *string
		amount   decimal.Decimal
	)
	if err := row.Scan(&s.ID, &itemID, &fellowID, &s.OwnerID, &amount, &s.DueDate, &s.Paid, &s.PaidAt); err != nil {
		return Share{}, err
	}
	s.Amount = amount
	switch {
	case itemID != nil:
		s.Parent = ItemRef(*itemID)
	case fellowID != nil:
		s.Parent = FellowRef(*fellowID)
	}
	s.DueDate = s.DueDate.UTC()
	return s, nil
}

func scanShares(rows pgx.Rows) ([]Share, error) {
	var shares []Share
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			err := fmt.Errorf("could not scan share: %w", err)
			log.Error(err)
			return nil, err
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over shares: %w", err)
		log.Error(err)
		return nil, err
	}
	return shares, nil
}
