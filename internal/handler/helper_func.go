package handler

import (
	"errors"
	"net/http"
	"strconv"

	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

// statusFor maps a usecase error onto the HTTP error taxonomy. Anything
// unrecognized is an internal error and the message is not leaked.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, xerrors.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, xerrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, xerrors.ErrInvalidSignature):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, xerrors.ErrUserNotFound),
		errors.Is(err, xerrors.ErrProductNotFound),
		errors.Is(err, xerrors.ErrWishlistNotFound),
		errors.Is(err, xerrors.ErrUnknownOrder),
		errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, xerrors.ErrUserAlreadyExists),
		errors.Is(err, xerrors.ErrEmailAlreadyInUse),
		errors.Is(err, xerrors.ErrDuplicateWishlist),
		errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, xerrors.ErrGatewayUnavailable),
		errors.Is(err, xerrors.ErrGatewayRejected):
		return http.StatusBadGateway, "Payment gateway unavailable"
	case errors.Is(err, xerrors.ErrUsernameRequired),
		errors.Is(err, xerrors.ErrEmailRequired),
		errors.Is(err, xerrors.ErrPasswordRequired),
		errors.Is(err, xerrors.ErrInvalidEmailFormat),
		errors.Is(err, xerrors.ErrWeakPassword),
		errors.Is(err, xerrors.ErrPriceRequired),
		errors.Is(err, xerrors.ErrInvalidListing),
		errors.Is(err, xerrors.ErrInvalidCondition),
		errors.Is(err, xerrors.ErrReasonRequired),
		errors.Is(err, xerrors.ErrAmountMismatch),
		errors.Is(err, xerrors.ErrEmptyCart),
		errors.Is(err, xerrors.ErrNotPayable),
		errors.Is(err, xerrors.ErrUnsupportedImage),
		errors.Is(err, xerrors.ErrInvalidInput),
		errors.Is(err, xerrors.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	response.Error(w, status, msg)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
