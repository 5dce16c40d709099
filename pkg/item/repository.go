package item

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

var ErrItemNotFound = errors.New("item not found")

type Repository interface {
	Store(ctx context.Context, item Item) (Item, error)
	Get(ctx context.Context, userId string, itemId string) (Item, error)
	ListByOwner(ctx context.Context, userId string) ([]Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, userId string, itemId string) (bool, error)
	// ActiveMonthlyAmounts feeds the net-salary aggregation: the stored
	// monthly amount of every active item owned by the user.
	ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const itemColumns = `id, user_id, type, title, price, purchase_date, number_of_months,
	monthly_amount, start_in, end_in, status, created_at, updated_at`

func (r *RepositoryImpl) Store(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = StatusActive
	}
	query := fmt.Sprintf(`INSERT INTO items (
				id, user_id, type, title, price, purchase_date, number_of_months,
				monthly_amount, start_in, end_in, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING %s`, itemColumns)
	row := r.db.QueryRow(ctx, query,
		item.ID,
		item.OwnerID,
		item.Type,
		item.Title,
		item.Price,
		item.PurchaseDate,
		item.Months,
		item.MonthlyAmount,
		item.StartIn,
		item.EndIn,
		item.Status,
	)
	stored, err := scanItem(row)
	if err != nil {
		err := fmt.Errorf("could not insert item: %w", err)
		log.Error(err)
		return Item{}, err
	}
	return stored, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId string, itemId string) (Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE id = $1 AND user_id = $2", itemColumns)
	item, err := scanItem(r.db.QueryRow(ctx, query, itemId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get item %s: %w", itemId, err)
		log.Error(err)
		return Item{}, err
	}
	return item, nil
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, userId string) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE user_id = $1 ORDER BY created_at DESC", itemColumns)
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			err := fmt.Errorf("could not scan item: %w", err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over items: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, item Item) (Item, error) {
	query := fmt.Sprintf(`UPDATE items SET
				title = $3,
				price = $4,
				number_of_months = $5,
				monthly_amount = $6,
				start_in = $7,
				end_in = $8,
				status = $9,
				updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING %s`, itemColumns)
	row := r.db.QueryRow(ctx, query,
		item.ID,
		item.OwnerID,
		item.Title,
		item.Price,
		item.Months,
		item.MonthlyAmount,
		item.StartIn,
		item.EndIn,
		item.Status,
	)
	updated, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update item %s: %w", item.ID, err)
		log.Error(err)
		return Item{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId string, itemId string) (bool, error) {
	// Shares cascade with the parent row.
	tag, err := r.db.Exec(ctx, "DELETE FROM items WHERE id = $1 AND user_id = $2", itemId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete item %s: %w", itemId, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ActiveMonthlyAmounts(ctx context.Context, userId string) ([]decimal.Decimal, error) {
	query := "SELECT monthly_amount FROM items WHERE user_id = $1 AND status = $2"
	rows, err := r.db.Query(ctx, query, userId, StatusActive)
	if err != nil {
		err := fmt.Errorf("could not query item deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			err := fmt.Errorf("could not scan item deduction: %w", err)
			log.Error(err)
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over item deductions: %w", err)
		log.Error(err)
		return nil, err
	}
	return amounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	if err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Type,
		&item.Title,
		&item.Price,
		&item.PurchaseDate,
		&item.Months,
		&item.MonthlyAmount,
		&item.StartIn,
		&item.EndIn,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return Item{}, err
	}
	item.PurchaseDate = item.PurchaseDate.UTC()
	item.StartIn = item.StartIn.UTC()
	item.EndIn = item.EndIn.UTC()
	return item, nil
}
