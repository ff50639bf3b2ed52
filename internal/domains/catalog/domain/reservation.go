package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLineQuantity = errors.New("reservation line quantity must be greater than zero")

// ReservationLine is one requested stock decrement within a reservation.
type ReservationLine struct {
	BookID   int64
	Quantity int32
}

// Reservation records a committed stock decrement for an order so the
// reversal can re-credit the exact quantities once and only once.
type Reservation struct {
	OrderID    int64
	Lines      []ReservationLine
	Reversed   bool
	CreatedAt  time.Time
	ReversedAt *time.Time
}

// MarkReversed flips the reversal flag. It reports false when the
// reservation was already reversed, which makes reversal idempotent.
func (r *Reservation) MarkReversed(at time.Time) bool {
	if r.Reversed {
		return false
	}
	r.Reversed = true
	r.ReversedAt = &at
	return true
}

// InsufficientStockError identifies every book whose stock could not cover
// the requested quantity. No stock is mutated when it is returned.
type InsufficientStockError struct {
	BookIDs []int64
}

// Error keeps the message format existing callers parse: it contains the
// first offending book id and the phrase "không đủ tồn kho".
func (e *InsufficientStockError) Error() string {
	if len(e.BookIDs) == 0 {
		return "không đủ tồn kho"
	}
	return fmt.Sprintf("sách %d không đủ tồn kho", e.BookIDs[0])
}
