//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	"github.com/bookhaven/bookstore-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("bookstore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func saveBook(t *testing.T, repo *catalogpostgres.Repository, id int64, price int64, stock int32) {
	t.Helper()
	book, err := domain.NewBook(id, "Book", "Author", price, stock)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), book)
	require.NoError(t, err)
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 85_000, 12)

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(85_000), book.Price)
	assert.Equal(t, int32(12), book.Stock)
	assert.False(t, book.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_UpdateLeavesStockToLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 85_000, 12)
	require.NoError(t, repo.Reserve(ctx, 100, []domain.ReservationLine{{BookID: 1, Quantity: 5}}))

	// A save carrying a stale stock value must not undo the reservation.
	stale, err := domain.NewBook(1, "Book", "Author", 95_000, 12)
	require.NoError(t, err)
	_, err = repo.Save(ctx, stale)
	require.NoError(t, err)

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(95_000), book.Price)
	assert.Equal(t, int32(7), book.Stock)
}

func TestPostgresRepository_ReserveDecrementsAtomically(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 50_000, 5)

	// Two concurrent reservations of 3 each: only one can fit in stock 5.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Reserve(ctx, int64(100+i), []domain.ReservationLine{{BookID: 1, Quantity: 3}})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			var insufficient *domain.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), book.Stock)
}

func TestPostgresRepository_ReserveAllOrNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 50_000, 10)
	saveBook(t, repo, 2, 60_000, 1)

	err := repo.Reserve(ctx, 100, []domain.ReservationLine{
		{BookID: 1, Quantity: 2},
		{BookID: 2, Quantity: 5},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, []int64{2}, insufficient.BookIDs)

	// The transaction rolled back the first line's decrement.
	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(10), book.Stock)
}

func TestPostgresRepository_ReverseIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 50_000, 10)
	require.NoError(t, repo.Reserve(ctx, 100, []domain.ReservationLine{{BookID: 1, Quantity: 4}}))

	require.NoError(t, repo.Reverse(ctx, 100))
	require.NoError(t, repo.Reverse(ctx, 100))

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(10), book.Stock)

	err = repo.Reverse(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrReservationNotFound)
}

func TestPostgresRepository_AdjustStockGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saveBook(t, repo, 1, 50_000, 3)

	require.NoError(t, repo.AdjustStock(ctx, 1, 7))

	err := repo.AdjustStock(ctx, 1, -20)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(10), book.Stock)
}
