package repository

import (
	"strings"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// UserRepository looks up login profiles.
type UserRepository interface {
	GetByID(id string) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
}

type userRepository struct {
	users []domain.User
}

func NewUserRepository(users []domain.User) UserRepository {
	return &userRepository{users: append([]domain.User(nil), users...)}
}

func (r *userRepository) GetByID(id string) (domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

// GetByEmail matches case-insensitively.
func (r *userRepository) GetByEmail(email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}
