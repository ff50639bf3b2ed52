package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		users: map[int64]*domain.User{},
		now:   time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == clone.Username && existing.ID != clone.ID {
			return nil, ports.ErrUsernameTaken
		}
	}
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if existing, ok := r.users[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.users[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.User) bool { return true }), nil
}

func (r *Repository) ListByRole(_ context.Context, roleID int64) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(u *domain.User) bool { return u.Role.ID == roleID }), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *Repository) collect(keep func(*domain.User) bool) []*domain.User {
	list := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if !keep(user) {
			continue
		}
		clone := *user
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
