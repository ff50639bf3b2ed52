package application

import (
	"errors"
	"fmt"

	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid promotion input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidDiscountType) ||
		errors.Is(err, domain.ErrInvalidDiscountValue) ||
		errors.Is(err, domain.ErrNoBooks) ||
		errors.Is(err, domain.ErrDuplicateBook) ||
		errors.Is(err, domain.ErrInvalidRange) ||
		errors.Is(err, domain.ErrInvalidDate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
