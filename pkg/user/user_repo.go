package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already exists")

type Repo interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
	GetAllUsers(ctx context.Context) ([]User, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = "id, name, email, salary, role, created_at, updated_at"

func (r *RepoImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	query := `INSERT INTO users (id, name, email, salary, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Salary, user.Role)
	created, err := scanUser(row)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return User{}, err
	}
	return created, nil
}

func (r *RepoImpl) GetUser(ctx context.Context, id string) (User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user %s: %v", id, err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user by email: %v", err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	query := `UPDATE users SET name = $2, email = $3, salary = $4, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Salary)
	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to update user %s: %v", user.ID, err)
		return User{}, err
	}
	return updated, nil
}

func (r *RepoImpl) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Errorf("failed to delete user %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			err := fmt.Errorf("could not scan user: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over users: %w", err)
		log.Error(err)
		return nil, err
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Salary, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}
