//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	userspostgres "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
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

func saveUser(t *testing.T, repo *userspostgres.Repository, username string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(0, username, "Full Name", "0900000000", role)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), user)
	require.NoError(t, err)
	return saved
}

func TestPostgresRepository_SaveResolvesRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := userspostgres.NewRepository(db)
	ctx := context.Background()

	saved := saveUser(t, repo, "lan.sales", domain.RoleSales)
	require.NotZero(t, saved.ID)

	loaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSales, loaded.Role)
	assert.True(t, loaded.Can(domain.CapConfirmOrders))

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_UsernameUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := userspostgres.NewRepository(db)
	ctx := context.Background()

	saveUser(t, repo, "minh", domain.RoleShipper)

	duplicate, err := domain.NewUser(0, "minh", "Other Minh", "0911111111", domain.RoleCustomer)
	require.NoError(t, err)
	_, err = repo.Save(ctx, duplicate)
	assert.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestPostgresRepository_ListByRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := userspostgres.NewRepository(db)
	ctx := context.Background()

	saveUser(t, repo, "minh", domain.RoleShipper)
	saveUser(t, repo, "tuan", domain.RoleShipper)
	saveUser(t, repo, "lan", domain.RoleSales)

	shippers, err := repo.ListByRole(ctx, domain.RoleShipper.ID)
	require.NoError(t, err)
	assert.Len(t, shippers, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPostgresRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := userspostgres.NewRepository(db)
	ctx := context.Background()

	saved := saveUser(t, repo, "minh", domain.RoleShipper)

	require.NoError(t, repo.Delete(ctx, saved.ID))

	_, err := repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
