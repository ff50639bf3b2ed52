package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
	"github.com/bookhaven/bookstore-api/internal/shared/cache"
)

const (
	listTTL   = 30 * time.Minute
	entityTTL = 20 * time.Minute

	keyAllUsers = "users:all"
	keyShippers = "users:shippers"
)

func keyByRole(roleID int64) string { return fmt.Sprintf("users:role:%d", roleID) }
func keyByID(id int64) string       { return fmt.Sprintf("users:%d", id) }

// Service implements user management with read-through caching. Reads populate
// the cache; every write goes to the repository first and then drops the
// affected keys.
type Service struct {
	repo  ports.Repository
	cache cache.Cache
}

func NewService(repo ports.Repository, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop
	}
	return &Service{repo: repo, cache: c}
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.cachedList(ctx, keyAllUsers, func(ctx context.Context) ([]*domain.User, error) {
		return s.repo.List(ctx)
	})
}

func (s *Service) ListShippers(ctx context.Context) ([]*domain.User, error) {
	return s.cachedList(ctx, keyShippers, func(ctx context.Context) ([]*domain.User, error) {
		return s.repo.ListByRole(ctx, domain.RoleShipper.ID)
	})
}

func (s *Service) ListByRole(ctx context.Context, roleID int64) ([]*domain.User, error) {
	if _, ok := domain.RoleByID(roleID); !ok {
		return nil, mapError(domain.ErrUnknownRole)
	}
	return s.cachedList(ctx, keyByRole(roleID), func(ctx context.Context) ([]*domain.User, error) {
		return s.repo.ListByRole(ctx, roleID)
	})
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	value, err := s.cache.GetOrSet(ctx, keyByID(id), entityTTL, func(ctx context.Context) (any, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	user, ok := value.(*domain.User)
	if !ok {
		return s.repo.GetByID(ctx, id)
	}
	return user, nil
}

func (s *Service) Create(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	user, err := buildUser(0, input)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, saved)
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id int64, input ports.UserInput) (*domain.User, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := buildUser(id, input)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, saved)
	if previous.Role.ID != saved.Role.ID {
		_ = s.cache.DelMany(ctx, keyByRole(previous.Role.ID))
		if previous.Role.ID == domain.RoleShipper.ID {
			_ = s.cache.DelMany(ctx, keyShippers)
		}
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, user)
	return nil
}

func (s *Service) cachedList(ctx context.Context, key string, load func(context.Context) ([]*domain.User, error)) ([]*domain.User, error) {
	value, err := s.cache.GetOrSet(ctx, key, listTTL, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	users, ok := value.([]*domain.User)
	if !ok {
		return load(ctx)
	}
	return users, nil
}

func (s *Service) invalidate(ctx context.Context, user *domain.User) {
	keys := []string{keyAllUsers, keyByID(user.ID), keyByRole(user.Role.ID)}
	if user.Role.ID == domain.RoleShipper.ID {
		keys = append(keys, keyShippers)
	}
	// Cache invalidation is best effort; the repository already holds the truth.
	_ = s.cache.DelMany(ctx, keys...)
}

func buildUser(id int64, input ports.UserInput) (*domain.User, error) {
	role, ok := domain.RoleByID(input.RoleID)
	if !ok {
		return nil, mapError(domain.ErrUnknownRole)
	}
	user, err := domain.NewUser(id, input.Username, input.FullName, input.Phone, role)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

var _ ports.Service = (*Service)(nil)
