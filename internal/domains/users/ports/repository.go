package ports

import (
	"context"
	"errors"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Repository persists users.
type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, roleID int64) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
