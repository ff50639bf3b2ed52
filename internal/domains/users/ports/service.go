package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
)

// UserInput carries user create and update submissions.
type UserInput struct {
	Username string
	FullName string
	Phone    string
	RoleID   int64
}

// Service exposes user management use cases to adapters.
type Service interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListShippers(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, roleID int64) ([]*domain.User, error)
	Create(ctx context.Context, input UserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
