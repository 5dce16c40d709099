package user

import (
	"context"

	"github.com/google/uuid"
)

type StubUserRepo struct {
	data map[string]User
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{data: map[string]User{}}
}

func (s *StubUserRepo) CreateUser(ctx context.Context, user User) (User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	s.data[user.ID] = user
	return user, nil
}

func (s *StubUserRepo) GetUser(ctx context.Context, id string) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range s.data {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepo) UpdateUser(ctx context.Context, user User) (User, error) {
	if _, ok := s.data[user.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	s.data[user.ID] = user
	return user, nil
}

func (s *StubUserRepo) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubUserRepo) GetAllUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(s.data))
	for _, u := range s.data {
		users = append(users, u)
	}
	return users, nil
}

func (s *StubUserRepo) Cleanup() {
	s.data = map[string]User{}
}
