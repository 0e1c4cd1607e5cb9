package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error classes we care about.
const (
	PGUniqueViolation = "23505"
)

func ParsePGErrorCode(err error) string {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input provided")
)

// Registration / Login
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailAlreadyInUse  = errors.New("email already in use")

	ErrUsernameRequired = errors.New("username required")
	ErrEmailRequired    = errors.New("email required")
	ErrPasswordRequired = errors.New("password required")

	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Tokens
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Products
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotProductOwner   = errors.New("not the product owner")
	ErrPriceRequired     = errors.New("sell listing requires a positive price")
	ErrInvalidListing    = errors.New("invalid listing type")
	ErrInvalidCondition  = errors.New("invalid product condition")
	ErrReasonRequired    = errors.New("deletion reason required")
	ErrUnsupportedImage  = errors.New("unsupported image format")
)

// Wishlist
var (
	ErrDuplicateWishlist = errors.New("product already in wishlist")
	ErrWishlistNotFound  = errors.New("wishlist entry not found")
)

// Checkout / payments
var (
	ErrAmountMismatch     = errors.New("amount does not match product prices")
	ErrUnknownOrder       = errors.New("unknown order reference")
	ErrEmptyCart          = errors.New("cart has no items")
	ErrNotPayable         = errors.New("listing is not payable")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrInvalidSignature   = errors.New("invalid callback signature")
)
