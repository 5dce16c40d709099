package spending

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSpendingNotFound = errors.New("spending not found")

type Repository interface {
	Store(ctx context.Context, spending Spending) (Spending, error)
	Get(ctx context.Context, userId string, spendingId string) (Spending, error)
	ListByOwner(ctx context.Context, userId string) ([]Spending, error)
	Update(ctx context.Context, spending Spending) (Spending, error)
	Delete(ctx context.Context, userId string, spendingId string) (bool, error)
	// ActiveMonthlyAmounts feeds the net-salary aggregation: the monthly
	// equivalent of every active spending owned by the user.
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const spendingColumns = "id, user_id, name, amount, cadence, start_in, status, created_at, updated_at"

func (r *RepositoryImpl) Store(ctx context.Context, spending Spending) (Spending, error) {
	if spending.ID == "" {
		spending.ID = uuid.NewString()
	}
	if spending.Cadence == "" {
		spending.Cadence = CadenceMonthly
	}
	if spending.Status == "" {
		spending.Status = StatusActive
	}
	query := fmt.Sprintf(`INSERT INTO spendings (id, user_id, name, amount, cadence, start_in, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING %s`, spendingColumns)
	row := r.db.QueryRow(ctx, query,
		spending.ID,
		spending.OwnerID,
		spending.Name,
		spending.Amount,
		spending.Cadence,
		spending.StartIn,
		spending.Status,
	)
	stored, err := scanSpending(row)
	if err != nil {
		err := fmt.Errorf("could not insert spending: %w", err)
		log.Error(err)
		return Spending{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId string, spendingId string) (Spending, error) {
	query := fmt.Sprintf("SELECT %s FROM spendings WHERE id = $1 AND user_id = $2", spendingColumns)
	spending, err := scanSpending(r.db.QueryRow(ctx, query, spendingId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Spending{}, ErrSpendingNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get spending %s: %w", spendingId, err)
		log.Error(err)
		return Spending{}, err
	}
	return spending, nil
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, userId string) ([]Spending, error) {
	query := fmt.Sprintf("SELECT %s FROM spendings WHERE user_id = $1 ORDER BY created_at DESC", spendingColumns)
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query spendings: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var spendings []Spending
	for rows.Next() {
		spending, err := scanSpending(rows)
		if err != nil {
			err := fmt.Errorf("could not scan spending: %w", err)
			log.Error(err)
			return nil, err
		}
		spendings = append(spendings, spending)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over spendings: %w", err)
		log.Error(err)
		return nil, err
	}
	return spendings, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, spending Spending) (Spending, error) {
	query := fmt.Sprintf(`UPDATE spendings SET
				name = $3,
				amount = $4,
				cadence = $5,
				start_in = $6,
				status = $7,
				updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING %s`, spendingColumns)
	row := r.db.QueryRow(ctx, query,
		spending.ID,
		spending.OwnerID,
		spending.Name,
		spending.Amount,
		spending.Cadence,
		spending.StartIn,
		spending.Status,
	)
	updated, err := scanSpending(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Spending{}, ErrSpendingNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update spending %s: %w", spending.ID, err)
		log.Error(err)
		return Spending{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId string, spendingId string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM spendings WHERE id = $1 AND user_id = $2", spendingId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete spending %s: %w", spendingId, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	query := "SELECT amount, cadence FROM spendings WHERE user_id = $1 AND status = $2"
	rows, err := r.db.Query(ctx, query, userId, StatusActive)
	if err != nil {
		err := fmt.Errorf("could not query spending deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var spending Spending
		if err := rows.Scan(&spending.Amount, &spending.Cadence); err != nil {
			err := fmt.Errorf("could not scan spending deduction: %w", err)
			log.Error(err)
			return nil, err
		}
		amounts = append(amounts, spending.MonthlyEquivalent())
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over spending deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	return amounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpending(row rowScanner) (Spending, error) {
	var spending Spending
	if err := row.Scan(
		&spending.ID,
		&spending.OwnerID,
		&spending.Name,
		&spending.Amount,
		&spending.Cadence,
		&spending.StartIn,
		&spending.Status,
		&spending.CreatedAt,
		&spending.UpdatedAt,
	); err != nil {
		return Spending{}, err
	}
	spending.StartIn = spending.StartIn.UTC()
	return spending, nil
}
