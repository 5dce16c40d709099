package bankfee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrFeeNotFound = errors.New("fee not found")

type Repository interface {
	Store(ctx context.Context, fee Fee) (Fee, error)
	Get(ctx context.Context, feeId string) (Fee, error)
	// FindPlan looks up the fee row for a bank and financing period.
	FindPlan(ctx context.Context, bankName string, periodMonths int) (Fee, error)
	ListAll(ctx context.Context) ([]Fee, error)
	Update(ctx context.Context, fee Fee) (Fee, error)
	Delete(ctx context.Context, feeId string) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const feeColumns = "id, bank_name, period_months, purchasing_percent, cash_percent, created_at, updated_at"

func (r *RepositoryImpl) Store(ctx context.Context, fee Fee) (Fee, error) {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO installment_fees (id, bank_name, period_months, purchasing_percent, cash_percent)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING %s`, feeColumns)
	row := r.db.QueryRow(ctx, query,
		fee.ID,
		fee.BankName,
		fee.PeriodMonths,
		fee.PurchasingPercent,
		fee.CashPercent,
	)
	stored, err := scanFee(row)
	if err != nil {
		err := fmt.Errorf("could not insert fee: %w", err)
		log.Error(err)
		return Fee{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, feeId string) (Fee, error) {
	query := fmt.Sprintf("SELECT %s FROM installment_fees WHERE id = $1", feeColumns)
	fee, err := scanFee(r.db.QueryRow(ctx, query, feeId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Fee{}, ErrFeeNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get fee %s: %w", feeId, err)
		log.Error(err)
		return Fee{}, err
	}
	return fee, nil
}

func (r *RepositoryImpl) FindPlan(ctx context.Context, bankName string, periodMonths int) (Fee, error) {
	query := fmt.Sprintf("SELECT %s FROM installment_fees WHERE bank_name = $1 AND period_months = $2", feeColumns)
	fee, err := scanFee(r.db.QueryRow(ctx, query, bankName, periodMonths))
	if errors.Is(err, pgx.ErrNoRows) {
		return Fee{}, ErrFeeNotFound
	} else if err != nil {
		err := fmt.Errorf("could not find fee plan for %s over %d months: %w", bankName, periodMonths, err)
		log.Error(err)
		return Fee{}, err
	}
	return fee, nil
}

func (r *RepositoryImpl) ListAll(ctx context.Context) ([]Fee, error) {
	query := fmt.Sprintf("SELECT %s FROM installment_fees ORDER BY bank_name, period_months", feeColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query fees: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var fees []Fee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			err := fmt.Errorf("could not scan fee: %w", err)
			log.Error(err)
			return nil, err
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over fees: %w", err)
		log.Error(err)
		return nil, err
	}
	return fees, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, fee Fee) (Fee, error) {
	query := fmt.Sprintf(`UPDATE installment_fees SET
				bank_name = $2,
				period_months = $3,
				purchasing_percent = $4,
				cash_percent = $5,
				updated_at = now()
			WHERE id = $1
			RETURNING %s`, feeColumns)
	row := r.db.QueryRow(ctx, query,
		fee.ID,
		fee.BankName,
		fee.PeriodMonths,
		fee.PurchasingPercent,
		fee.CashPercent,
	)
	updated, err := scanFee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Fee{}, ErrFeeNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update fee %s: %w", fee.ID, err)
		log.Error(err)
		return Fee{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, feeId string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM installment_fees WHERE id = $1", feeId)
	if err != nil {
		err := fmt.Errorf("could not delete fee %s: %w", feeId, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFee(row rowScanner) (Fee, error) {
	var fee Fee
	if err := row.Scan(
		&fee.ID,
		&fee.BankName,
		&fee.PeriodMonths,
		&fee.PurchasingPercent,
		&fee.CashPercent,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	); err != nil {
		return Fee{}, err
	}
	return fee, nil
}
