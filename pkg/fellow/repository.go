package fellow

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

var ErrFellowNotFound = errors.New("fellow not found")

type Repository interface {
	Store(ctx context.Context, fellow Fellow) (Fellow, error)
	Get(ctx context.Context, userId string, fellowId string) (Fellow, error)
	ListByOwner(ctx context.Context, userId string) ([]Fellow, error)
	Update(ctx context.Context, fellow Fellow) (Fellow, error)
	Delete(ctx context.Context, userId string, fellowId string) (bool, error)
	// ActiveMonthlyAmounts feeds the net-salary aggregation: the stored
	// monthly contribution of every active pool the user is in.
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const fellowColumns = `id, user_id, manager, amount, number_of_months, monthly_amount,
	turn_month, start_in, end_in, status, created_at, updated_at`

func (r *RepositoryImpl) Store(ctx context.Context, fellow Fellow) (Fellow, error) {
	if fellow.ID == "" {
		fellow.ID = uuid.NewString()
	}
	if fellow.Status == "" {
		fellow.Status = StatusActive
	}
	query := fmt.Sprintf(`INSERT INTO fellows (
				id, user_id, manager, amount, number_of_months, monthly_amount,
				turn_month, start_in, end_in, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING %s`, fellowColumns)
	row := r.db.QueryRow(ctx, query,
		fellow.ID,
		fellow.OwnerID,
		fellow.Manager,
		fellow.Amount,
		fellow.Months,
		fellow.MonthlyAmount,
		fellow.TurnMonth,
		fellow.StartIn,
		fellow.EndIn,
		fellow.Status,
	)
	stored, err := scanFellow(row)
	if err != nil {
		err := fmt.Errorf("could not insert fellow: %w", err)
		log.Error(err)
		return Fellow{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId string, fellowId string) (Fellow, error) {
	query := fmt.Sprintf("SELECT %s FROM fellows WHERE id = $1 AND user_id = $2", fellowColumns)
	fellow, err := scanFellow(r.db.QueryRow(ctx, query, fellowId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Fellow{}, ErrFellowNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get fellow %s: %w", fellowId, err)
		log.Error(err)
		return Fellow{}, err
	}
	return fellow, nil
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, userId string) ([]Fellow, error) {
	query := fmt.Sprintf("SELECT %s FROM fellows WHERE user_id = $1 ORDER BY created_at DESC", fellowColumns)
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query fellows: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var fellows []Fellow
	for rows.Next() {
		fellow, err := scanFellow(rows)
		if err != nil {
			err := fmt.Errorf("could not scan fellow: %w", err)
			log.Error(err)
			return nil, err
		}
		fellows = append(fellows, fellow)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over fellows: %w", err)
		log.Error(err)
		return nil, err
	}
	return fellows, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, fellow Fellow) (Fellow, error) {
	query := fmt.Sprintf(`UPDATE fellows SET
				manager = $3,
				amount = $4,
				number_of_months = $5,
				monthly_amount = $6,
				turn_month = $7,
				start_in = $8,
				end_in = $9,
				status = $10,
				updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING %s`, fellowColumns)
	row := r.db.QueryRow(ctx, query,
		fellow.ID,
		fellow.OwnerID,
		fellow.Manager,
		fellow.Amount,
		fellow.Months,
		fellow.MonthlyAmount,
		fellow.TurnMonth,
		fellow.StartIn,
		fellow.EndIn,
		fellow.Status,
	)
	updated, err := scanFellow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Fellow{}, ErrFellowNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update fellow %s: %w", fellow.ID, err)
		log.Error(err)
		return Fellow{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId string, fellowId string) (bool, error) {
	// Shares cascade with the parent row.
	tag, err := r.db.Exec(ctx, "DELETE FROM fellows WHERE id = $1 AND user_id = $2", fellowId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete fellow %s: %w", fellowId, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	query := "SELECT monthly_amount FROM fellows WHERE user_id = $1 AND status = $2"
	rows, err := r.db.Query(ctx, query, userId, StatusActive)
	if err != nil {
		err := fmt.Errorf("could not query fellow deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			err := fmt.Errorf("could not scan fellow deduction: %w", err)
			log.Error(err)
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over fellow deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	return amounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFellow(row rowScanner) (Fellow, error) {
	var fellow Fellow
	if err := row.Scan(
		&fellow.ID,
		&fellow.OwnerID,
		&fellow.Manager,
		&fellow.Amount,
		&fellow.Months,
		&fellow.MonthlyAmount,
		&fellow.TurnMonth,
		&fellow.StartIn,
		&fellow.EndIn,
		&fellow.Status,
		&fellow.CreatedAt,
		&fellow.UpdatedAt,
	); err != nil {
		return Fellow{}, err
	}
	fellow.TurnMonth = fellow.TurnMonth.UTC()
	fellow.StartIn = fellow.StartIn.UTC()
	fellow.EndIn = fellow.EndIn.UTC()
	return fellow, nil
}
