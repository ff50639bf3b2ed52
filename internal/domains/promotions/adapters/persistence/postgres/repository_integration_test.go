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

	promopostgres "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/persistence/postgres"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
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

func mustRange(t *testing.T, start, end string) domain.Range {
	t.Helper()
	s, err := domain.ParseDate(start)
	require.NoError(t, err)
	e, err := domain.ParseDate(end)
	require.NoError(t, err)
	r, err := domain.NewRange(s, e)
	require.NoError(t, err)
	return r
}

func mustPromotion(t *testing.T, name string, period domain.Range, bookIDs []int64) *domain.Promotion {
	t.Helper()
	promo, err := domain.NewPromotion(0, name, domain.DiscountPercent, 10, period, bookIDs)
	require.NoError(t, err)
	return promo
}

func TestPostgresRepository_SaveRoundTripsBookIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := promopostgres.NewRepository(db)
	ctx := context.Background()

	promo := mustPromotion(t, "Summer Sale", mustRange(t, "2026-06-01", "2026-06-30"), []int64{3, 1, 2})
	saved, err := repo.Save(ctx, promo)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	loaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, loaded.BookIDs)
	assert.Equal(t, domain.DiscountPercent, loaded.Type)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_SaveRejectsOverlappingBooks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := promopostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, mustPromotion(t, "June", mustRange(t, "2026-06-01", "2026-06-30"), []int64{1, 2}))
	require.NoError(t, err)

	_, err = repo.Save(ctx, mustPromotion(t, "Mid June", mustRange(t, "2026-06-15", "2026-07-15"), []int64{2, 3}))
	var conflict *domain.BookConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int64{2}, conflict.BookIDs)

	// Disjoint periods may share books.
	_, err = repo.Save(ctx, mustPromotion(t, "July", mustRange(t, "2026-07-01", "2026-07-31"), []int64{1, 2}))
	require.NoError(t, err)
}

func TestPostgresRepository_ConcurrentSavesAdmitOnlyOne(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := promopostgres.NewRepository(db)
	ctx := context.Background()
	period := mustRange(t, "2026-06-01", "2026-06-30")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Save(ctx, mustPromotion(t, "Race", period, []int64{7}))
		}(i)
	}
	wg.Wait()

	// Losers fail with either a book conflict or a serialization failure,
	// depending on commit order. Either way only one promotion lands.
	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		}
	}
	assert.Equal(t, 1, admitted)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPostgresRepository_UpdateExcludesItselfFromConflictCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := promopostgres.NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, mustPromotion(t, "June", mustRange(t, "2026-06-01", "2026-06-30"), []int64{1}))
	require.NoError(t, err)

	saved.Value = 25
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, int64(25), updated.Value)
}

func TestPostgresRepository_DeleteFreesBooks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := promopostgres.NewRepository(db)
	ctx := context.Background()
	period := mustRange(t, "2026-06-01", "2026-06-30")

	saved, err := repo.Save(ctx, mustPromotion(t, "June", period, []int64{1}))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))

	_, err = repo.Save(ctx, mustPromotion(t, "June again", period, []int64{1}))
	require.NoError(t, err)

	err = repo.Delete(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
