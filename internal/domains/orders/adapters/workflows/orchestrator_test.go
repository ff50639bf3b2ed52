package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	orderactivities "github.com/bookhaven/bookstore-api/internal/platform/temporal/activities/orders"
)

func TestTranslateWorkflowError_RestoresInvalidInput(t *testing.T) {
	err := translateWorkflowError(temporal.NewNonRetryableApplicationError(
		"invalid order input: order must contain lines", orderactivities.ErrTypeInvalidInput, nil,
	))
	require.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestTranslateWorkflowError_RestoresNotFound(t *testing.T) {
	err := translateWorkflowError(temporal.NewNonRetryableApplicationError(
		"book not found", orderactivities.ErrTypeNotFound, nil,
	))
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTranslateWorkflowError_RestoresInsufficientStock(t *testing.T) {
	err := translateWorkflowError(temporal.NewNonRetryableApplicationError(
		"sách 7 không đủ tồn kho", orderactivities.ErrTypeInsufficientStock, nil, []int64{7},
	))
	var insufficient *catalogdomain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, []int64{7}, insufficient.BookIDs)
	require.Contains(t, err.Error(), "không đủ tồn kho")
}

func TestTranslateWorkflowError_PassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("worker unreachable")
	require.Same(t, plain, translateWorkflowError(plain))

	retryable := temporal.NewApplicationError("transient", "Transient")
	require.Equal(t, retryable, translateWorkflowError(retryable))
}
