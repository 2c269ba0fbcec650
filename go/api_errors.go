package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	adminports "github.com/Apurer/boutique-orders/internal/domains/admin/ports"
	ordersapp "github.com/Apurer/boutique-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	apierrors "github.com/Apurer/boutique-orders/internal/shared/errors"
)

var (
	orderResponder = apierrors.NewChainedResponder("", mapOrderError)
	adminResponder = apierrors.NewChainedResponder("", mapAdminError)
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

func respondOrderServiceError(c *gin.Context, err error) {
	var validation *ordersapp.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &validation):
		orderResponder.ValidationFailed(c, validation.Details)
	case errors.Is(err, ordersapp.ErrRateLimited):
		orderResponder.TooManyRequests(c, "too many orders from this client, try again later")
	default:
		orderResponder.RespondError(c, err)
	}
}

func respondAdminServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	adminResponder.RespondError(c, err)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("idempotency key reused with a different request"), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAdminError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, adminports.ErrInvalidCredentials):
		return apierrors.ErrUnauthorized.WithDetail("invalid password"), true
	case errors.Is(err, adminports.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail("admin token required"), true
	}
	return apierrors.ProblemDetail{}, false
}
