package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory promotion persistence adapter. The conflict
// invariant is re-checked under the write lock, matching the transactional
// guard the postgres adapter provides.
type Repository struct {
	mu         sync.RWMutex
	promotions map[int64]*domain.Promotion
	nextID     int64
	now        func() time.Time
}

func NewRepository() *Repository {
	return &Repository{promotions: map[int64]*domain.Promotion{}, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Repository) Save(_ context.Context, promotion *domain.Promotion) (*domain.Promotion, error) {
	if promotion == nil {
		return nil, errors.New("promotion is nil")
	}
	clone := clonePromotion(promotion)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkConflictsLocked(clone); err != nil {
		return nil, err
	}
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if existing, ok := r.promotions[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.promotions[clone.ID] = clone
	return clonePromotion(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	promotion, ok := r.promotions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clonePromotion(promotion), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Promotion, 0, len(r.promotions))
	for _, promotion := range r.promotions {
		list = append(list, clonePromotion(promotion))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.promotions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.promotions, id)
	return nil
}

func (r *Repository) FindOverlapping(_ context.Context, period domain.Range, excludeID int64) ([]*domain.Promotion, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var overlapping []*domain.Promotion
	for _, promotion := range r.promotions {
		if excludeID != 0 && promotion.ID == excludeID {
			continue
		}
		if period.Overlaps(promotion.Period) {
			overlapping = append(overlapping, clonePromotion(promotion))
		}
	}
	sort.Slice(overlapping, func(i, j int) bool { return overlapping[i].ID < overlapping[j].ID })
	return overlapping, nil
}

func (r *Repository) checkConflictsLocked(candidate *domain.Promotion) error {
	held := map[int64]struct{}{}
	for _, other := range r.promotions {
		if other.ID == candidate.ID {
			continue
		}
		if !candidate.Period.Overlaps(other.Period) {
			continue
		}
		for _, bookID := range other.BookIDs {
			held[bookID] = struct{}{}
		}
	}
	var conflicting []int64
	for _, bookID := range candidate.BookIDs {
		if _, ok := held[bookID]; ok {
			conflicting = append(conflicting, bookID)
		}
	}
	if len(conflicting) > 0 {
		return &domain.BookConflictError{BookIDs: conflicting}
	}
	return nil
}

func clonePromotion(p *domain.Promotion) *domain.Promotion {
	clone := *p
	clone.BookIDs = append([]int64(nil), p.BookIDs...)
	return &clone
}
