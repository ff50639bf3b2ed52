package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DiscountType selects how a promotion's value is applied to a subtotal.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

var (
	ErrEmptyName            = errors.New("promotion name must not be empty")
	ErrInvalidDiscountType  = errors.New("discount type must be percent or fixed")
	ErrInvalidDiscountValue = errors.New("discount value is out of range")
	ErrNoBooks              = errors.New("promotion must reference at least one book")
	ErrDuplicateBook        = errors.New("promotion book list contains duplicates")
)

// Promotion is a time-bounded discount campaign over a fixed set of books.
// Two promotions whose date ranges intersect must hold disjoint book sets.
type Promotion struct {
	ID        int64
	Name      string
	Type      DiscountType
	Value     int64
	Period    Range
	BookIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPromotion validates and constructs a new Promotion aggregate.
func NewPromotion(id int64, name string, discountType DiscountType, value int64, period Range, bookIDs []int64) (*Promotion, error) {
	promotion := &Promotion{
		ID:      id,
		Name:    name,
		Type:    discountType,
		Value:   value,
		Period:  period,
		BookIDs: append([]int64(nil), bookIDs...),
	}
	if err := promotion.Validate(); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Validate enforces invariants on the aggregate.
func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	switch p.Type {
	case DiscountPercent:
		if p.Value < 0 || p.Value > 100 {
			return ErrInvalidDiscountValue
		}
	case DiscountFixed:
		if p.Value < 0 {
			return ErrInvalidDiscountValue
		}
	default:
		return ErrInvalidDiscountType
	}
	if err := p.Period.Validate(); err != nil {
		return err
	}
	if len(p.BookIDs) == 0 {
		return ErrNoBooks
	}
	seen := make(map[int64]struct{}, len(p.BookIDs))
	for _, id := range p.BookIDs {
		if _, ok := seen[id]; ok {
			return ErrDuplicateBook
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Tagged returns the promotion's range tagged with its id and book set.
func (p *Promotion) Tagged() TaggedRange {
	return TaggedRange{PromotionID: p.ID, Range: p.Period, BookIDs: p.BookIDs}
}

// BookConflictError names the books already committed to an overlapping promotion.
type BookConflictError struct {
	BookIDs []int64
}

func (e *BookConflictError) Error() string {
	ids := make([]string, 0, len(e.BookIDs))
	for _, id := range e.BookIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return fmt.Sprintf("books already committed to an overlapping promotion: %s", strings.Join(ids, ", "))
}
