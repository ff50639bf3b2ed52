package application

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-api/internal/domains/users/adapters/memory"
	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
	cachememory "github.com/bookhaven/bookstore-api/internal/shared/cache/memory"
)

// countingRepository counts reads so tests can observe cache hits.
type countingRepository struct {
	ports.Repository
	reads atomic.Int64
}

func (r *countingRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.reads.Add(1)
	return r.Repository.List(ctx)
}

func (r *countingRepository) ListByRole(ctx context.Context, roleID int64) ([]*domain.User, error) {
	r.reads.Add(1)
	return r.Repository.ListByRole(ctx, roleID)
}

func newCachedService(t *testing.T) (*Service, *countingRepository) {
	t.Helper()
	repo := &countingRepository{Repository: memory.NewRepository()}
	return NewService(repo, cachememory.NewCache()), repo
}

func createUser(t *testing.T, s *Service, username string, roleID int64) *domain.User {
	t.Helper()
	user, err := s.Create(context.Background(), ports.UserInput{
		Username: username,
		FullName: "Nguyen Van " + username,
		Phone:    "0901234567",
		RoleID:   roleID,
	})
	require.NoError(t, err)
	return user
}

func TestList_SecondReadServedFromCache(t *testing.T) {
	service, repo := newCachedService(t)
	createUser(t, service, "lan", domain.RoleSales.ID)

	first, err := service.List(context.Background())
	require.NoError(t, err)
	second, err := service.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), repo.reads.Load())
}

func TestCreate_InvalidatesListKeys(t *testing.T) {
	service, repo := newCachedService(t)
	createUser(t, service, "lan", domain.RoleSales.ID)

	_, err := service.List(context.Background())
	require.NoError(t, err)

	createUser(t, service, "minh", domain.RoleSales.ID)

	users, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), repo.reads.Load())
}

func TestListShippers_OnlyShippersReturned(t *testing.T) {
	service, _ := newCachedService(t)
	createUser(t, service, "lan", domain.RoleSales.ID)
	shipper := createUser(t, service, "tuan", domain.RoleShipper.ID)

	shippers, err := service.ListShippers(context.Background())
	require.NoError(t, err)
	require.Len(t, shippers, 1)
	assert.Equal(t, shipper.ID, shippers[0].ID)
}

func TestUpdate_RoleChangeDropsBothRoleKeys(t *testing.T) {
	service, repo := newCachedService(t)
	user := createUser(t, service, "tuan", domain.RoleShipper.ID)

	_, err := service.ListShippers(context.Background())
	require.NoError(t, err)

	_, err = service.Update(context.Background(), user.ID, ports.UserInput{
		Username: "tuan",
		FullName: "Nguyen Van Tuan",
		Phone:    "0901234567",
		RoleID:   domain.RoleWarehouse.ID,
	})
	require.NoError(t, err)

	shippers, err := service.ListShippers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, shippers)
	assert.Equal(t, int64(2), repo.reads.Load())
}

func TestGetByID_CachedPerUser(t *testing.T) {
	service, _ := newCachedService(t)
	user := createUser(t, service, "lan", domain.RoleSales.ID)

	got, err := service.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = service.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListByRole_UnknownRoleRejected(t *testing.T) {
	service, _ := newCachedService(t)
	_, err := service.ListByRole(context.Background(), 99)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestCreate_DuplicateUsernameRejected(t *testing.T) {
	service, _ := newCachedService(t)
	createUser(t, service, "lan", domain.RoleSales.ID)

	_, err := service.Create(context.Background(), ports.UserInput{
		Username: "lan",
		FullName: "Nguyen Thi Lan",
		RoleID:   domain.RoleSales.ID,
	})
	require.ErrorIs(t, err, ports.ErrUsernameTaken)
}
