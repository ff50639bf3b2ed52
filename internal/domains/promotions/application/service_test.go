package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	promomemory "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/memory"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
)

func newFixture(t *testing.T) (*Service, *catalogmemory.Repository) {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	for id := int64(1); id <= 5; id++ {
		book, err := catalogdomain.NewBook(id, "Sách", "Tác giả", 50_000, 10)
		require.NoError(t, err)
		_, err = catalog.Save(context.Background(), book)
		require.NoError(t, err)
	}
	return NewService(promomemory.NewRepository(), catalog), catalog
}

func rng(t *testing.T, start, end string) domain.Range {
	t.Helper()
	s, err := domain.ParseDate(start)
	require.NoError(t, err)
	e, err := domain.ParseDate(end)
	require.NoError(t, err)
	r, err := domain.NewRange(s, e)
	require.NoError(t, err)
	return r
}

func TestListAvailableBooks_ExcludesCommittedBooks(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), ports.PromotionInput{
		Name:    "TET10",
		Type:    domain.DiscountPercent,
		Value:   10,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	available, err := svc.ListAvailableBooks(context.Background(), rng(t, "2025-01-15", "2025-02-01"), 0)
	require.NoError(t, err)
	ids := make([]int64, 0, len(available))
	for _, book := range available {
		ids = append(ids, book.ID)
	}
	require.Equal(t, []int64{3, 4, 5}, ids)

	// A range past the campaign sees the whole catalog again.
	available, err = svc.ListAvailableBooks(context.Background(), rng(t, "2025-02-01", "2025-02-28"), 0)
	require.NoError(t, err)
	require.Len(t, available, 5)
}

func TestListAvailableBooks_InvalidRange(t *testing.T) {
	svc, _ := newFixture(t)
	start, err := domain.ParseDate("2025-02-01")
	require.NoError(t, err)
	end, err := domain.ParseDate("2025-01-01")
	require.NoError(t, err)

	_, err = svc.ListAvailableBooks(context.Background(), domain.Range{Start: start, End: end}, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestCreate_RejectsOverlappingBookSet(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), ports.PromotionInput{
		Name:    "TET10",
		Type:    domain.DiscountPercent,
		Value:   10,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{2},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ports.PromotionInput{
		Name:    "TET10B",
		Type:    domain.DiscountPercent,
		Value:   15,
		Period:  rng(t, "2025-01-15", "2025-02-01"),
		BookIDs: []int64{2, 3},
	})
	var conflict *domain.BookConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, []int64{2}, conflict.BookIDs)
}

func TestCreate_AllowsDisjointRangeSameBooks(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), ports.PromotionInput{
		Name:    "TET10",
		Type:    domain.DiscountPercent,
		Value:   10,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{1},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ports.PromotionInput{
		Name:    "SUMMER",
		Type:    domain.DiscountFixed,
		Value:   20_000,
		Period:  rng(t, "2025-06-01", "2025-06-30"),
		BookIDs: []int64{1},
	})
	require.NoError(t, err)
}

func TestUpdate_ExcludesSelfFromConflictCheck(t *testing.T) {
	svc, _ := newFixture(t)

	created, err := svc.Create(context.Background(), ports.PromotionInput{
		Name:    "TET10",
		Type:    domain.DiscountPercent,
		Value:   10,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	// Keeping its own books while shifting the window must not conflict with itself.
	updated, err := svc.Update(context.Background(), created.ID, ports.PromotionInput{
		Name:    "TET10",
		Type:    domain.DiscountPercent,
		Value:   12,
		Period:  rng(t, "2025-01-05", "2025-02-05"),
		BookIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), updated.Value)
}

func TestUpdate_UnknownPromotion(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Update(context.Background(), 404, ports.PromotionInput{
		Name:    "X",
		Type:    domain.DiscountPercent,
		Value:   5,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{1},
	})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Create(context.Background(), ports.PromotionInput{
		Name:    "",
		Type:    domain.DiscountPercent,
		Value:   10,
		Period:  rng(t, "2025-01-01", "2025-01-31"),
		BookIDs: []int64{1},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
