package transport

import (
	"errors"
	"net/http"

	"fishmart-be/internal/access"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/order"
	"fishmart-be/internal/product"
	"fishmart-be/internal/user"
	"fishmart-be/internal/utils"

	"go.uber.org/zap"
)

// errBadRequest marks malformed path or body input caught in this layer.
var errBadRequest = errors.New("bad request")

var badRequest = []error{
	errBadRequest,
	utils.ErrBadBody,
	product.ErrInvalidProduct,
	order.ErrEmptyOrder,
	order.ErrInvalidLine,
	order.ErrInvalidStatus,
	order.ErrProductUnavailable,
	order.ErrInsufficientStock,
	order.ErrMissingPartner,
	order.ErrInvalidPartner,
	user.ErrInvalidInput,
	user.ErrInvalidStatus,
	user.ErrEmailExists,
}

// forbidden are refusals that carry their own message instead of the
// generic access-denied one.
var forbidden = []error{
	user.ErrCannotDeleteAdmin,
}

var notFound = []error{
	product.ErrProductNotFound,
	order.ErrOrderNotFound,
	user.ErrUserNotFound,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps a service error to its response code and client message.
// Anything unrecognized is a 500 whose detail stays in the logs.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return http.StatusUnauthorized, "No token, authorization denied"
	case errors.Is(err, access.ErrAccessDenied):
		return http.StatusForbidden, "Access denied"
	case isAny(err, forbidden):
		return http.StatusForbidden, err.Error()
	case isAny(err, notFound):
		return http.StatusNotFound, err.Error()
	case isAny(err, badRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "transport"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, msg, code)
}
