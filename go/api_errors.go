package bookstoreserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	promoapp "github.com/bookhaven/bookstore-api/internal/domains/promotions/application"
	promodomain "github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	promoports "github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
	usersapp "github.com/bookhaven/bookstore-api/internal/domains/users/application"
	usersports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
	apierrors "github.com/bookhaven/bookstore-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError preserves plain status call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondServiceError translates domain and application errors from any
// bounded context into problem responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var bookConflict *promodomain.BookConflictError
	if errors.As(err, &bookConflict) {
		respondProblem(c, apierrors.NewConflictProblem(err.Error(), map[string]any{
			"bookIds": bookConflict.BookIDs,
		}))
		return
	}
	var insufficient *catalogdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		respondProblem(c, apierrors.NewConflictProblem(err.Error(), map[string]any{
			"bookIds": insufficient.BookIDs,
		}))
		return
	}
	var invalidTransition *ordersdomain.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		respondProblem(c, apierrors.NewConflictProblem(err.Error(), map[string]any{
			"status": string(invalidTransition.From),
		}))
		return
	}
	var shipperBusy *ordersdomain.ShipperUnavailableError
	if errors.As(err, &shipperBusy) {
		respondProblem(c, apierrors.NewConflictProblem(err.Error(), map[string]any{
			"shipperId": shipperBusy.ShipperID,
			"orderId":   shipperBusy.BusyWithOrderID,
		}))
		return
	}
	var alreadyAssigned *ordersdomain.OrderAlreadyAssignedError
	if errors.As(err, &alreadyAssigned) {
		respondProblem(c, apierrors.NewConflictProblem(err.Error(), map[string]any{
			"orderId":   alreadyAssigned.OrderID,
			"shipperId": alreadyAssigned.ShipperID,
		}))
		return
	}

	switch {
	case errors.Is(err, catalogports.ErrNotFound),
		errors.Is(err, catalogports.ErrReservationNotFound),
		errors.Is(err, promoports.ErrNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersports.ErrAssignmentNotFound),
		errors.Is(err, usersports.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, catalogports.ErrReservationExists),
		errors.Is(err, usersports.ErrUsernameTaken),
		errors.Is(err, ordersapp.ErrShipperMismatch):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, promoapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, usersapp.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}
