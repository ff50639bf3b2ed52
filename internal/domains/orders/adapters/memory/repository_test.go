package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

func saveOrder(t *testing.T, repo *Repository, status domain.Status) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(
		[]domain.LineItem{{BookID: 1, Quantity: 1, UnitPrice: 10_000}},
		"Lan", "0901234567", "12 Nguyen Trai", "cod", nil, 0,
	)
	require.NoError(t, err)
	order.Status = status
	saved, err := repo.Save(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestTransition_OnlyOneConcurrentWinner(t *testing.T) {
	repo := NewRepository()
	order := saveOrder(t, repo, domain.StatusPending)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repo.Transition(context.Background(), order.ID, domain.StatusPending, domain.StatusConfirmed)
			require.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestTransition_UnknownOrder(t *testing.T) {
	repo := NewRepository()
	_, err := repo.Transition(context.Background(), 999, domain.StatusPending, domain.StatusConfirmed)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	repo := NewRepository()
	saveOrder(t, repo, domain.StatusPending)
	confirmed := saveOrder(t, repo, domain.StatusConfirmed)

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(context.Background(), domain.StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, confirmed.ID, filtered[0].ID)
}

func TestAssign_UniquenessGuards(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Assign(context.Background(), 1, 42)
	require.NoError(t, err)

	_, err = repo.Assign(context.Background(), 1, 7)
	var alreadyAssigned *domain.OrderAlreadyAssignedError
	require.ErrorAs(t, err, &alreadyAssigned)
	assert.Equal(t, int64(42), alreadyAssigned.ShipperID)

	_, err = repo.Assign(context.Background(), 2, 42)
	var busy *domain.ShipperUnavailableError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, int64(1), busy.BusyWithOrderID)

	// Completing the delivery frees both the order and the shipper.
	_, err = repo.Complete(context.Background(), 1, time.Now())
	require.NoError(t, err)
	_, err = repo.Assign(context.Background(), 2, 42)
	require.NoError(t, err)
}

func TestRemove_OnlyActiveAssignments(t *testing.T) {
	repo := NewRepository()
	_, err := repo.Assign(context.Background(), 1, 42)
	require.NoError(t, err)
	_, err = repo.Complete(context.Background(), 1, time.Now())
	require.NoError(t, err)

	err = repo.Remove(context.Background(), 1)
	require.ErrorIs(t, err, ports.ErrAssignmentNotFound)
}
